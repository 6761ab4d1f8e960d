// Package mtassemble implements the reassembly engine: it collapses a
// MessageContext's translated variants, one PLURAL/GENDER axis at a time,
// back into a single piece of wikitext carrying {{TAG:VAR|opt0|opt1|...}}
// magic word syntax.
package mtassemble

import (
	"sort"
	"strconv"
	"strings"

	"github.com/translatewiki/banana-mt/mtanchor"
	"github.com/translatewiki/banana-mt/mterr"
	"github.com/translatewiki/banana-mt/mtexpand"
)

// ConsistencyThreshold is the minimum similarity ratio (see Similarity)
// two translated variants sharing every dimension but one must have for
// the fold to proceed. Below it, the MT output is considered too
// divergent to have plausibly come from the same source sentence.
const ConsistencyThreshold = 0.7

// Reassemble collapses every axis in ctx.AxisOrder, in order, and returns
// the final reconstructed message text with anchor tokens restored to
// $k placeholders.
func Reassemble(ctx *mtexpand.MessageContext) (string, error) {
	if len(ctx.Variants) == 0 {
		return "", mterr.New(mterr.KindReassembly, "no variants to reassemble")
	}
	if len(ctx.Variants) == 1 || len(ctx.AxisOrder) == 0 {
		return mtanchor.Decode(ctx.Variants[0].TranslatedText), nil
	}

	currentSet := ctx.Variants
	for _, axis := range ctx.AxisOrder {
		var err error
		currentSet, err = collapseAxis(currentSet, axis, ctx.VariableTypes)
		if err != nil {
			return "", err
		}
	}

	if len(currentSet) != 1 {
		return "", mterr.Newf(mterr.KindReassembly,
			"expected 1 variant after collapsing all axes, got %d", len(currentSet))
	}
	return mtanchor.Decode(currentSet[0].TranslatedText), nil
}

// collapseAxis groups variants by every dimension except axis, folds each
// group's texts into one, and returns the reduced set of "virtual"
// variants (one per group) for the next axis to collapse.
func collapseAxis(variants []mtexpand.TranslationVariant, axis string, variableTypes map[string]string) ([]mtexpand.TranslationVariant, error) {
	type group struct {
		state   mtexpand.State
		members []mtexpand.TranslationVariant
	}
	groups := make(map[string]*group)
	var order []string

	for _, v := range variants {
		otherState := make(mtexpand.State, len(v.State))
		dims := make([]string, 0, len(v.State))
		for k, val := range v.State {
			if k == axis {
				continue
			}
			otherState[k] = val
			dims = append(dims, k+"="+strconv.Itoa(val))
		}
		sort.Strings(dims)
		key := strings.Join(dims, ",")

		g, ok := groups[key]
		if !ok {
			g = &group{state: otherState}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, v)
	}

	collapsed := make([]mtexpand.TranslationVariant, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.SliceStable(g.members, func(i, j int) bool {
			return g.members[i].State[axis] < g.members[j].State[axis]
		})
		text, err := foldStrings(g.members, axis, variableTypes)
		if err != nil {
			return nil, err
		}
		collapsed = append(collapsed, mtexpand.TranslationVariant{State: g.state, TranslatedText: text})
	}
	return collapsed, nil
}

// foldStrings collapses one group's translated texts (already sorted by
// their axis value) into a single string, wrapping any difference in
// {{tag:var|opt0|opt1|...}} syntax.
func foldStrings(members []mtexpand.TranslationVariant, varID string, variableTypes map[string]string) (string, error) {
	texts := make([]string, len(members))
	for i, m := range members {
		texts[i] = m.TranslatedText
	}
	if len(texts) == 0 {
		return "", nil
	}
	if len(texts) == 1 {
		return texts[0], nil
	}

	allSame := true
	for _, t := range texts[1:] {
		if t != texts[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return texts[0], nil
	}

	for _, t := range texts[1:] {
		sim := Similarity(texts[0], t)
		if sim < ConsistencyThreshold {
			return "", mterr.Newf(mterr.KindConsistency,
				"MT inconsistency detected on %s. Variants are too different (similarity: %.1f%%):\n1: %s\n2: %s",
				varID, sim*100, texts[0], t)
		}
	}

	prefix := snapPrefix(commonPrefix(texts))
	suffix := snapSuffix(commonSuffix(texts))

	middles := make([]string, len(texts))
	for i, t := range texts {
		start := len(prefix)
		end := len(t)
		if suffix != "" {
			end = len(t) - len(suffix)
		}
		if start > end {
			middles[i] = ""
		} else {
			middles[i] = t[start:end]
		}
	}

	tagType := variableTypes[varID]
	if tagType == "" {
		tagType = "PLURAL"
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("{{")
	b.WriteString(tagType)
	b.WriteString(":")
	b.WriteString(varID)
	b.WriteString("|")
	b.WriteString(strings.Join(middles, "|"))
	b.WriteString("}}")
	b.WriteString(suffix)
	return b.String(), nil
}

// snapPrefix snaps a raw longest-common-prefix back to the last word
// boundary, so a fold never splits a word in half.
func snapPrefix(raw string) string {
	if raw == "" || strings.HasSuffix(raw, " ") {
		return raw
	}
	if idx := strings.LastIndexByte(raw, ' '); idx >= 0 {
		return raw[:idx+1]
	}
	return ""
}

// snapSuffix snaps a raw longest-common-suffix forward to the first word
// boundary.
func snapSuffix(raw string) string {
	if raw == "" || strings.HasPrefix(raw, " ") {
		return raw
	}
	if idx := strings.IndexByte(raw, ' '); idx >= 0 {
		return raw[idx:]
	}
	return ""
}

// commonPrefix returns the longest common prefix of strs, rune-aware.
func commonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	if len(strs) == 1 {
		return strs[0]
	}
	runeLists := make([][]rune, len(strs))
	minLen := -1
	for i, s := range strs {
		runeLists[i] = []rune(s)
		if minLen == -1 || len(runeLists[i]) < minLen {
			minLen = len(runeLists[i])
		}
	}

	prefixLen := 0
outer:
	for i := 0; i < minLen; i++ {
		c := runeLists[0][i]
		for _, rs := range runeLists[1:] {
			if rs[i] != c {
				break outer
			}
		}
		prefixLen = i + 1
	}
	return string(runeLists[0][:prefixLen])
}

// commonSuffix returns the longest common suffix of strs, by reversing
// each string, taking the common prefix, then reversing back.
func commonSuffix(strs []string) string {
	reversed := make([]string, len(strs))
	for i, s := range strs {
		reversed[i] = reverseString(s)
	}
	return reverseString(commonPrefix(reversed))
}

func reverseString(s string) string {
	runes := []rune(s)
	for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
		runes[l], runes[r] = runes[r], runes[l]
	}
	return string(runes)
}

// Similarity returns a ratio between 0.0 and 1.0 measuring how alike a
// and b are, via 2*|LCS(a,b)| / (|a|+|b|), matching the classic
// difflib-style sequence-matcher ratio.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	ar, br := []rune(a), []rune(b)
	lcsLen := longestCommonSubsequence(ar, br)
	return 2.0 * float64(lcsLen) / float64(len(ar)+len(br))
}

func longestCommonSubsequence(a, b []rune) int {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return 0
	}
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp[m][n]
}
