// Command bananamt is a demo CLI over the expand/translate/reassemble
// pipeline. It is not a web front end and does not manage a catalog
// store; it demonstrates the pipeline against either a single message
// given on the command line or a flat JSON catalog file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/translatewiki/banana-mt/mtpipeline"
	"github.com/translatewiki/banana-mt/mttranslate"
	"github.com/translatewiki/banana-mt/wikiparse"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	source := flag.String("source", "en", "source language code")
	key := flag.String("key", "cli-message", "message key for context (single-message mode only)")
	mock := flag.Bool("mock", false, "use the mock translator instead of Google Translate")
	verbose := flag.Bool("verbose", false, "log the parsed message and its node count (single-message mode only)")
	catalog := flag.String("catalog", "", "path to a JSON catalog file ({\"key\": \"message text\"}); when set, runs in batch mode instead of single-message mode")
	watch := flag.Bool("watch", false, "reload and retranslate the catalog on every change (catalog mode only)")
	flag.Parse()

	translator, err := buildTranslator(*mock)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build translator")
	}

	if *catalog != "" {
		runCatalogMode(translator, *catalog, *source, *watch)
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: bananamt [flags] <message> <target-locale>")
		fmt.Fprintln(os.Stderr, "       bananamt [flags] -catalog catalog.json <target-locale>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	text := translateOne(translator, args[0], *key, *source, args[1], *verbose)
	fmt.Println(text)
}

func buildTranslator(useMock bool) (mttranslate.MachineTranslator, error) {
	if useMock {
		return mttranslate.NewMockTranslator(mttranslate.ModeSuffix), nil
	}
	if _, ok := os.LookupEnv("GOOGLE_TRANSLATE_API_KEY"); !ok {
		return nil, fmt.Errorf("GOOGLE_TRANSLATE_API_KEY not set; pass -mock to use the mock translator instead")
	}
	return mttranslate.GoogleTranslateProviderFromEnv()
}

func translateOne(translator mttranslate.MachineTranslator, message, key, source, target string, verbose bool) string {
	body := wikiparse.Parse(message)
	if verbose {
		log.Info().Str("message", message).Int("nodes", len(body)).Msg("parsed message")
	}

	p := mtpipeline.New(translator)
	text, err := p.Translate(context.Background(), mtpipeline.Request{
		Key:          key,
		Body:         body,
		SourceLocale: source,
		TargetLocale: target,
	})
	if err != nil {
		log.Fatal().Err(err).Str("key", key).Msg("translation failed")
	}
	return text
}

// catalogFile is the on-disk shape of a batch catalog: message key to
// raw, unparsed message text.
type catalogFile map[string]string

func runCatalogMode(translator mttranslate.MachineTranslator, path, source string, watch bool) {
	target := flag.Arg(0)
	if target == "" {
		log.Fatal().Msg("catalog mode requires a target locale as the first positional argument")
	}

	translateCatalog(translator, path, source, target)
	if !watch {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal().Err(err).Msg("could not start catalog watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("could not watch catalog file")
	}
	log.Info().Str("path", path).Msg("watching catalog for changes")

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			// A rename or remove drops the underlying watch (common with
			// editors that save via rename); re-add it after a short
			// delay and retranslate either way.
			if ev.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				time.Sleep(10 * time.Millisecond)
				if err := watcher.Add(path); err != nil {
					log.Warn().Err(err).Msg("could not re-add catalog watch")
				}
			}
			log.Info().Str("event", ev.String()).Msg("catalog changed, retranslating")
			translateCatalog(translator, path, source, target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("catalog watcher error")
		}
	}
}

func translateCatalog(translator mttranslate.MachineTranslator, path, source, target string) {
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("could not open catalog")
		return
	}
	defer f.Close()

	var entries catalogFile
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		log.Error().Err(err).Str("path", path).Msg("could not decode catalog")
		return
	}

	reqs := make([]mtpipeline.Request, 0, len(entries))
	for key, text := range entries {
		reqs = append(reqs, mtpipeline.Request{
			Key:          key,
			Body:         wikiparse.Parse(text),
			SourceLocale: source,
			TargetLocale: target,
		})
	}

	p := mtpipeline.New(translator)
	results := p.TranslateBatch(context.Background(), reqs, 8)
	for _, r := range results {
		if r.Err != nil {
			log.Error().Str("key", r.Key).Err(r.Err).Msg("message translation failed")
			continue
		}
		fmt.Printf("%s: %s\n", r.Key, r.Text)
	}
}
