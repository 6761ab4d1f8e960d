// Package mtpipeline wires the expansion, translation, and reassembly
// engines into the single operation callers actually want: take a
// parsed message and a locale pair, and get back translated wikitext
// with its PLURAL/GENDER magic words intact.
package mtpipeline

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/translatewiki/banana-mt/ast"
	"github.com/translatewiki/banana-mt/mterr"
	"github.com/translatewiki/banana-mt/mtassemble"
	"github.com/translatewiki/banana-mt/mtexpand"
	"github.com/translatewiki/banana-mt/mttranslate"
)

// Pipeline runs the full expand/translate/reassemble cycle against one
// MachineTranslator.
type Pipeline struct {
	Translator mttranslate.MachineTranslator
}

// New returns a Pipeline backed by translator.
func New(translator mttranslate.MachineTranslator) *Pipeline {
	return &Pipeline{Translator: translator}
}

// Request names one message to translate: its parsed body, the key it
// is stored under, and the source/target locale pair.
type Request struct {
	Key          string
	Body         []ast.Node
	SourceLocale string
	TargetLocale string
}

// Result is the outcome of translating one Request. Err is set, and
// Text is empty, when the request failed; a ConsistencyError from the
// reassembly engine is reported here rather than aborting a batch.
type Result struct {
	Key  string
	Text string
	Err  error
}

// Translate expands req.Body, hands every variant to the Pipeline's
// translator as a single block call, and reassembles the result into
// one string of wikitext.
func (p *Pipeline) Translate(ctx context.Context, req Request) (string, error) {
	msgCtx, err := mtexpand.PrepareForTranslation(req.Body, req.SourceLocale, req.Key)
	if err != nil {
		return "", err
	}

	translated, err := p.Translator.TranslateBlock(ctx, msgCtx.SourceTexts(), req.SourceLocale, req.TargetLocale)
	if err != nil {
		return "", mterr.Wrapf(mterr.KindTranslation, err, "translating %q via %s", req.Key, p.Translator.ProviderName())
	}
	if err := msgCtx.UpdateTranslations(translated); err != nil {
		return "", err
	}

	text, err := mtassemble.Reassemble(msgCtx)
	if err != nil {
		if mterr.Is(err, mterr.KindConsistency) {
			log.Warn().Str("key", req.Key).Str("target", req.TargetLocale).Err(err).
				Msg("MT output failed the consistency guard")
		}
		return "", err
	}
	return text, nil
}

// TranslateBatch runs Translate over every request concurrently, via
// errgroup, bounding parallelism to maxConcurrency. A failed request
// does not cancel the others: every Result carries its own Err, and
// the returned slice is always len(reqs) long, in request order.
func (p *Pipeline) TranslateBatch(ctx context.Context, reqs []Request, maxConcurrency int) []Result {
	results := make([]Result, len(reqs))
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			text, err := p.Translate(gctx, req)
			results[i] = Result{Key: req.Key, Text: text, Err: err}
			if err != nil && !mterr.Is(err, mterr.KindConsistency) {
				log.Error().Str("key", req.Key).Err(err).Msg("message translation failed")
			}
			return nil
		})
	}
	// Every Go func above always returns nil: batch errors are carried
	// per-Result instead of aborting the group, so Wait never fails.
	_ = g.Wait()
	return results
}
