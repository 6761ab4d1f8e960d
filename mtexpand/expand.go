// Package mtexpand implements the expansion engine: it walks a parsed
// message AST, discovers PLURAL/GENDER choice points, enumerates the
// Cartesian product of their option indices, and renders each
// combination to anchor-protected plain text ready for block
// translation.
package mtexpand

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/translatewiki/banana-mt/ast"
	"github.com/translatewiki/banana-mt/mtanchor"
	"github.com/translatewiki/banana-mt/mterr"
	"github.com/translatewiki/banana-mt/mtlocale"
)

// MaxVariants is the hard cap on the Cartesian product size. It bounds
// both the combinatorics of expansion and the cost of the subsequent
// block-translation call.
const MaxVariants = 64

// ChoicePoint is one PLURAL or GENDER occurrence found during expansion,
// in AST traversal order.
type ChoicePoint struct {
	VarID       string
	Kind        string // "PLURAL" or "GENDER"
	OptionCount int
}

// State maps a ChoicePoint's VarID to its chosen option index. A State is
// complete once it holds one entry per ChoicePoint in the owning context.
type State map[string]int

// TranslationVariant is one fully-resolved plain-text rendering of the
// source message under a specific State.
type TranslationVariant struct {
	State          State
	SourceText     string
	TranslatedText string
}

// MessageContext is the expansion engine's output: every variant needed
// to translate one message, plus enough bookkeeping (VariableTypes,
// AxisOrder) for the reassembly engine to reconstruct magic-word syntax.
// A MessageContext exclusively owns its Variants; Reassemble consumes it.
type MessageContext struct {
	OriginalKey   string
	VariableTypes map[string]string // var_id -> "PLURAL" | "GENDER"
	Variants      []TranslationVariant
	// AxisOrder is the AST-traversal order of ChoicePoint var_ids. It is
	// the order axes are collapsed in during reassembly, chosen for
	// reproducibility per the core's own recommendation over arbitrary
	// hash order.
	AxisOrder []string
}

// SourceTexts returns the ordered source_text of every variant, ready to
// hand to a MachineTranslator as a single block.
func (c *MessageContext) SourceTexts() []string {
	out := make([]string, len(c.Variants))
	for i, v := range c.Variants {
		out[i] = v.SourceText
	}
	return out
}

// UpdateTranslations writes back the MT provider's output, which must be
// in the same order and have the same length as SourceTexts(); otherwise
// it is a contract violation reported as a mterr.KindReassembly error.
func (c *MessageContext) UpdateTranslations(texts []string) error {
	if len(texts) != len(c.Variants) {
		return mterr.Newf(mterr.KindReassembly,
			"translated text count %d does not match variant count %d", len(texts), len(c.Variants))
	}
	for i := range c.Variants {
		c.Variants[i].TranslatedText = texts[i]
	}
	return nil
}

// PrepareForTranslation expands body into a MessageContext: one
// TranslationVariant per combination of PLURAL/GENDER option indices.
func PrepareForTranslation(body []ast.Node, sourceLocale, messageKey string) (*MessageContext, error) {
	points, variableTypes, err := collectChoicePoints(body, sourceLocale)
	if err != nil {
		return nil, err
	}
	if _, err := variantCount(points); err != nil {
		return nil, err
	}

	states := enumerateStates(points)
	maxIdx := maxPlaceholderIndex(body)

	variants := make([]TranslationVariant, 0, len(states))
	for _, st := range states {
		rendered := renderState(body, st)
		variants = append(variants, TranslationVariant{
			State:      st,
			SourceText: mtanchor.Encode(rendered, maxIdx),
		})
	}

	axisOrder := make([]string, len(points))
	for i, p := range points {
		axisOrder[i] = p.VarID
	}

	return &MessageContext{
		OriginalKey:   messageKey,
		VariableTypes: variableTypes,
		Variants:      variants,
		AxisOrder:     axisOrder,
	}, nil
}

func collectChoicePoints(body []ast.Node, sourceLocale string) ([]ChoicePoint, map[string]string, error) {
	var points []ChoicePoint
	variableTypes := make(map[string]string)
	seen := make(map[string]bool)

	for _, node := range body {
		tr, ok := node.(ast.Transclusion)
		if !ok {
			continue
		}
		switch {
		case tr.IsPlural():
			if seen[tr.Param] {
				continue
			}
			forms, err := mtlocale.PluralCategories(sourceLocale)
			if err != nil {
				return nil, nil, err
			}
			points = append(points, ChoicePoint{VarID: tr.Param, Kind: "PLURAL", OptionCount: len(forms)})
			variableTypes[tr.Param] = "PLURAL"
			seen[tr.Param] = true
		case tr.IsGender():
			if seen[tr.Param] {
				continue
			}
			points = append(points, ChoicePoint{VarID: tr.Param, Kind: "GENDER", OptionCount: len(mtlocale.GenderCategories)})
			variableTypes[tr.Param] = "GENDER"
			seen[tr.Param] = true
		}
	}
	return points, variableTypes, nil
}

// variantCount computes the product of every ChoicePoint's OptionCount,
// failing with mterr.KindExpansion if it overflows or exceeds MaxVariants.
func variantCount(points []ChoicePoint) (int, error) {
	count := 1
	for _, p := range points {
		if p.OptionCount == 0 {
			continue
		}
		if count > (1<<62)/p.OptionCount {
			return 0, mterr.New(mterr.KindExpansion, "variant count overflow")
		}
		count *= p.OptionCount
		if count > MaxVariants {
			return 0, mterr.Newf(mterr.KindExpansion,
				"Too many variants (%d): message produces more combinations than the %d-variant cap", count, MaxVariants)
		}
	}
	return count, nil
}

// enumerateStates returns the lexicographic Cartesian product of
// [0, OptionCount) over points, taken in AST order: the first point is
// the most significant digit, the last varies fastest.
func enumerateStates(points []ChoicePoint) []State {
	if len(points) == 0 {
		return []State{{}}
	}

	total := 1
	for _, p := range points {
		total *= p.OptionCount
	}

	states := make([]State, 0, total)
	indices := make([]int, len(points))
	for {
		st := make(State, len(points))
		for i, p := range points {
			st[p.VarID] = indices[i]
		}
		states = append(states, st)

		pos := len(points) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < points[pos].OptionCount {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return states
}

// renderState walks body once, rendering it to plain text under state.
func renderState(body []ast.Node, state State) string {
	var b strings.Builder
	for _, node := range body {
		switch n := node.(type) {
		case ast.Text:
			b.WriteString(n.Value)
		case ast.Placeholder:
			b.WriteString("$" + strconv.Itoa(n.Index))
		case ast.Transclusion:
			switch {
			case n.IsPlural(), n.IsGender():
				if len(n.Options) == 0 {
					continue
				}
				idx := state[n.Param]
				if idx >= len(n.Options) {
					idx = len(n.Options) - 1
				}
				if idx < 0 {
					idx = 0
				}
				b.WriteString(n.Options[idx])
			default:
				b.WriteString(n.Name)
			}
		case ast.InternalLink:
			b.WriteString(n.String())
		case ast.ExternalLink:
			b.WriteString(n.String())
		default:
			b.WriteString(n.String())
		}
	}
	return b.String()
}

var dollarIndexRegexp = regexp.MustCompile(`\$(\d+)`)

func maxDollarIndex(s string) int {
	max := 0
	for _, m := range dollarIndexRegexp.FindAllStringSubmatch(s, -1) {
		if v, err := strconv.Atoi(m[1]); err == nil && v > max {
			max = v
		}
	}
	return max
}

// maxPlaceholderIndex finds the highest $k referenced anywhere in body,
// whether as a dedicated Placeholder node, a magic word's control
// placeholder, or a literal "$k" inside option/text/link content. It
// determines how many anchor tokens must be considered when protecting a
// rendered variant.
func maxPlaceholderIndex(body []ast.Node) int {
	max := 0
	update := func(v int) {
		if v > max {
			max = v
		}
	}
	for _, node := range body {
		switch n := node.(type) {
		case ast.Placeholder:
			update(n.Index)
		case ast.Text:
			update(maxDollarIndex(n.Value))
		case ast.Transclusion:
			update(maxDollarIndex(n.Param))
			for _, opt := range n.Options {
				update(maxDollarIndex(opt))
			}
		case ast.InternalLink:
			update(maxDollarIndex(n.Target))
			update(maxDollarIndex(n.Display))
		case ast.ExternalLink:
			update(maxDollarIndex(n.URL))
			update(maxDollarIndex(n.Text))
		}
	}
	return max
}
