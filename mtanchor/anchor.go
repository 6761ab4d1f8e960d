// Package mtanchor implements the anchor-token codec: a deterministic,
// MT-opaque encoding of numbered placeholders ($1, $2, ...) that survives
// machine translation verbatim, so the translator never sees — and can
// never corrupt — a placeholder number.
//
// This package uses the delimited "_IDk_" encoding rather than the
// offset-numeric "777000+k" alternative: the delimited form cannot
// collide with an innocent digit string already present in a message,
// per spec's own recommendation.
package mtanchor

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenRegexp recognizes anchor tokens for decoding.
var tokenRegexp = regexp.MustCompile(`_ID(\d+)_`)

// token returns the anchor token for placeholder index k.
func token(k int) string {
	return "_ID" + strconv.Itoa(k) + "_"
}

// placeholder returns the $k spelling of placeholder index k.
func placeholder(k int) string {
	return "$" + strconv.Itoa(k)
}

// Encode replaces every $k, 1 <= k <= maxIndex, with its anchor token.
// Replacement proceeds from the highest index down to 1, so that e.g. $10
// is replaced before $1 and never leaves a stray "0" behind a token for
// $1.
func Encode(text string, maxIndex int) string {
	if maxIndex <= 0 {
		return text
	}
	result := text
	for k := maxIndex; k >= 1; k-- {
		result = strings.ReplaceAll(result, placeholder(k), token(k))
	}
	return result
}

// Decode replaces every anchor token back to its $k spelling. It does not
// fail on missing or duplicated placeholders — it simply decodes whatever
// tokens are present, in whatever order and multiplicity the translator
// returned them.
func Decode(text string) string {
	return tokenRegexp.ReplaceAllString(text, `$$$1`)
}
