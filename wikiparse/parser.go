// Package wikiparse turns raw MediaWiki-style message text into the
// ast.Node sequence mtexpand consumes. It is a standalone convenience: the
// expansion engine works directly against an ast.Node slice built however
// the caller likes, so a hand-built fixture or a different parser works
// just as well.
package wikiparse

import (
	"strconv"
	"strings"

	"github.com/translatewiki/banana-mt/ast"
)

type parser struct {
	input []rune
	pos   int
}

// Parse scans input and returns its message body as an ordered sequence
// of ast.Node.
func Parse(input string) []ast.Node {
	p := &parser{input: []rune(input)}
	var nodes []ast.Node
	for p.pos < len(p.input) {
		switch p.peek() {
		case '{':
			if p.lookingAt("{{") {
				if node, ok := p.parseTransclusion(); ok {
					nodes = append(nodes, node)
					continue
				}
			}
			nodes = append(nodes, p.parseText())
		case '$':
			if node, ok := p.parsePlaceholder(); ok {
				nodes = append(nodes, node)
				continue
			}
			nodes = append(nodes, p.parseText())
		case '[':
			if p.lookingAt("[[") {
				if node, ok := p.parseInternalLink(); ok {
					nodes = append(nodes, node)
					continue
				}
			} else if node, ok := p.parseExternalLink(); ok {
				nodes = append(nodes, node)
				continue
			}
			nodes = append(nodes, p.parseText())
		default:
			nodes = append(nodes, p.parseText())
		}
	}
	return mergeAdjacentText(nodes)
}

// mergeAdjacentText folds consecutive ast.Text nodes into one. Failed
// backtracking (an unterminated transclusion or link falling back to
// plain text) produces runs of single-character Text nodes; callers
// expect one Text node per contiguous run of plain characters.
func mergeAdjacentText(nodes []ast.Node) []ast.Node {
	if len(nodes) == 0 {
		return nodes
	}
	merged := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		text, ok := n.(ast.Text)
		if !ok {
			merged = append(merged, n)
			continue
		}
		if len(merged) > 0 {
			if prev, ok := merged[len(merged)-1].(ast.Text); ok {
				merged[len(merged)-1] = ast.Text{Pos: prev.Pos, Value: prev.Value + text.Value}
				continue
			}
		}
		merged = append(merged, text)
	}
	return merged
}

func (p *parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) peekAt(offset int) rune {
	i := p.pos + offset
	if i >= len(p.input) {
		return 0
	}
	return p.input[i]
}

func (p *parser) lookingAt(s string) bool {
	runes := []rune(s)
	for i, r := range runes {
		if p.peekAt(i) != r {
			return false
		}
	}
	return true
}

func (p *parser) consume() rune {
	r := p.peek()
	if r != 0 {
		p.pos++
	}
	return r
}

// parseText consumes a run of plain characters, stopping before any
// construct another parse* method understands.
func (p *parser) parseText() ast.Node {
	start := p.pos
	startPos := ast.Pos(start)
	for p.pos < len(p.input) {
		switch p.peek() {
		case '{', '$':
			goto done
		case '[':
			goto done
		}
		p.pos++
	}
done:
	if p.pos == start {
		// Always make progress even on a character none of the special
		// cases claimed (e.g. a lone unmatched brace or bracket).
		p.pos++
	}
	return ast.Text{Pos: startPos, Value: string(p.input[start:p.pos])}
}

// parsePlaceholder consumes "$" followed by one or more digits.
func (p *parser) parsePlaceholder() (ast.Node, bool) {
	start := p.pos
	startPos := ast.Pos(start)
	p.consume() // '$'
	digitsStart := p.pos
	for p.peek() >= '0' && p.peek() <= '9' {
		p.consume()
	}
	if p.pos == digitsStart {
		p.pos = start
		return nil, false
	}
	index, err := strconv.Atoi(string(p.input[digitsStart:p.pos]))
	if err != nil {
		p.pos = start
		return nil, false
	}
	return ast.Placeholder{Pos: startPos, Index: index}, true
}

// parseBalancedText consumes text up to the next top-level '|' or ':',
// tracking brace depth so a nested transclusion doesn't terminate early.
func (p *parser) parseBalancedText() string {
	var b strings.Builder
	depth := 0
	for p.pos < len(p.input) {
		c := p.peek()
		switch {
		case c == '{':
			depth++
			b.WriteRune(c)
			p.consume()
		case c == '}':
			if depth == 0 {
				return b.String()
			}
			depth--
			b.WriteRune(c)
			p.consume()
		case depth == 0 && (c == '|' || c == ':'):
			return b.String()
		default:
			b.WriteRune(c)
			p.consume()
		}
	}
	return b.String()
}

// parseTransclusion parses a {{NAME:param|opt1|opt2|...}} construct.
// Named parts ("name=value") are accepted syntactically but dropped: the
// core only consumes the positional options list.
func (p *parser) parseTransclusion() (ast.Node, bool) {
	start := p.pos
	startPos := ast.Pos(start)

	if !p.lookingAt("{{") {
		return nil, false
	}
	p.consume()
	p.consume()

	name := p.parseBalancedText()
	var param string
	if p.peek() == ':' {
		p.consume()
		param = p.parseBalancedText()
	}

	var options []string
	for p.peek() == '|' {
		p.consume()
		part := p.parseBalancedTextAllowEquals()
		if eq := strings.IndexByte(part, '='); eq >= 0 && isDecimalOrName(part[:eq]) {
			continue // named part, not a positional option
		}
		options = append(options, part)
	}

	if !p.lookingAt("}}") {
		p.pos = start
		return nil, false
	}
	p.consume()
	p.consume()

	return ast.Transclusion{Pos: startPos, Name: name, Param: param, Options: options}, true
}

// parseBalancedTextAllowEquals is like parseBalancedText but does not stop
// at ':', since an option value is everything up to the next top-level
// '|' or the closing braces.
func (p *parser) parseBalancedTextAllowEquals() string {
	var b strings.Builder
	depth := 0
	for p.pos < len(p.input) {
		c := p.peek()
		switch {
		case c == '{':
			depth++
			b.WriteRune(c)
			p.consume()
		case c == '}':
			if depth == 0 {
				return b.String()
			}
			depth--
			b.WriteRune(c)
			p.consume()
		case depth == 0 && c == '|':
			return b.String()
		default:
			b.WriteRune(c)
			p.consume()
		}
	}
	return b.String()
}

func isDecimalOrName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

// parseInternalLink parses a [[target]] or [[target|display]] link.
func (p *parser) parseInternalLink() (ast.Node, bool) {
	start := p.pos
	startPos := ast.Pos(start)
	p.consume()
	p.consume()

	target := p.readUntilAny("|]")
	var display string
	if p.peek() == '|' {
		p.consume()
		display = p.readUntilAny("]")
	}
	if p.peek() != ']' || p.peekAt(1) != ']' {
		p.pos = start
		return nil, false
	}
	p.consume()
	p.consume()
	return ast.InternalLink{Pos: startPos, Target: target, Display: display}, true
}

// parseExternalLink parses a [url] or [url text] link.
func (p *parser) parseExternalLink() (ast.Node, bool) {
	start := p.pos
	startPos := ast.Pos(start)
	p.consume()

	url := p.readUntilAny(" ]")
	var text string
	if p.peek() == ' ' {
		p.consume()
		text = p.readUntilAny("]")
	}
	if p.peek() != ']' {
		p.pos = start
		return nil, false
	}
	p.consume()
	return ast.ExternalLink{Pos: startPos, URL: url, Text: text}, true
}

func (p *parser) readUntilAny(stopChars string) string {
	var b strings.Builder
	for p.pos < len(p.input) && !strings.ContainsRune(stopChars, p.peek()) {
		b.WriteRune(p.peek())
		p.consume()
	}
	return b.String()
}
