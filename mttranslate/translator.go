// Package mttranslate defines the block-translation contract the
// expansion and reassembly stages are built around, plus the providers
// that implement it: a deterministic mock for tests, a PO-backed catalog
// for demo fixtures, and a Google Translate v2 HTTP client.
package mttranslate

import (
	"context"
	"strings"

	"github.com/translatewiki/banana-mt/mterr"
)

// MachineTranslator is the contract every MT backend implements. A single
// call translates a whole block of source texts together, in order, so a
// provider with per-request overhead (an HTTP API) pays that cost once
// per message rather than once per variant.
type MachineTranslator interface {
	// TranslateBlock translates texts as a coherent unit from source to
	// target. The result has the same length and order as texts.
	TranslateBlock(ctx context.Context, texts []string, source, target string) ([]string, error)

	// ProviderName identifies the backend for logging.
	ProviderName() string
}

// NormalizeLocale strips region/script subtags, reducing a BCP-47 tag to
// its base language: "en-US" -> "en", "zh-Hans" -> "zh".
func NormalizeLocale(locale string) string {
	base, _, _ := strings.Cut(locale, "-")
	return strings.ToLower(base)
}

// ValidateLocale checks that locale is non-empty and contains only
// characters a language tag may legally contain.
func ValidateLocale(locale string) error {
	if locale == "" {
		return mterr.New(mterr.KindInvalidLocale, "locale code is empty")
	}
	for _, r := range locale {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return mterr.Newf(mterr.KindInvalidLocale, "invalid characters in locale code: %s", locale)
		}
	}
	return nil
}
