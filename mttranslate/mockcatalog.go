package mttranslate

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/robfig/gettext/po"
	"github.com/translatewiki/banana-mt/mterr"
)

// CatalogOpener abstracts where a locale's PO file comes from, mirroring
// the filesystem-or-anything-else split MT catalog loading uses elsewhere
// in the corpus. Open returns nil, nil if no file exists for locale.
type CatalogOpener interface {
	Open(locale string) (io.ReadCloser, error)
}

// DirCatalogOpener opens "<Dirname>/<locale>.po" files from disk.
type DirCatalogOpener struct {
	Dirname string
}

func (o DirCatalogOpener) Open(locale string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(o.Dirname, locale+".po"))
	switch {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return f, nil
	}
}

// POCatalogTranslator serves fixed translations loaded from PO files, one
// per target locale, falling back to a suffix-append for any source text
// the catalog has no entry for. It exists for demo fixtures and
// reproducible end-to-end tests that want real-looking translated text
// instead of MockTranslator's synthetic suffixes.
type POCatalogTranslator struct {
	entries map[string]map[string]string // locale -> source text -> translation
}

// LoadPOCatalog builds a POCatalogTranslator from opener, for each of locales.
// A locale with no PO file is simply absent from the catalog: TranslateBlock
// falls back to suffix behavior for every text in that locale.
func LoadPOCatalog(opener CatalogOpener, locales []string) (*POCatalogTranslator, error) {
	cat := &POCatalogTranslator{entries: make(map[string]map[string]string)}
	for _, locale := range locales {
		r, err := opener.Open(locale)
		if err != nil {
			return nil, mterr.Wrapf(mterr.KindConfig, err, "opening PO catalog for %q", locale)
		}
		if r == nil {
			continue
		}
		file, err := po.Parse(r)
		r.Close()
		if err != nil {
			return nil, mterr.Wrapf(mterr.KindConfig, err, "parsing PO catalog for %q", locale)
		}

		table := make(map[string]string, len(file.Messages))
		for _, msg := range file.Messages {
			if len(msg.Str) == 0 || msg.Str[0] == "" {
				continue
			}
			table[msg.Id] = msg.Str[0]
		}
		cat.entries[locale] = table
	}
	return cat, nil
}

// TranslateBlock implements MachineTranslator.
func (c *POCatalogTranslator) TranslateBlock(ctx context.Context, texts []string, source, target string) ([]string, error) {
	table := c.entries[target]
	out := make([]string, len(texts))
	for i, text := range texts {
		if translated, ok := table[text]; ok {
			out[i] = translated
			continue
		}
		out[i] = text + "_" + target
	}
	return out, nil
}

// ProviderName implements MachineTranslator.
func (c *POCatalogTranslator) ProviderName() string { return "PO Catalog" }
