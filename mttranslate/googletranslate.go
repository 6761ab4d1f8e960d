package mttranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/translatewiki/banana-mt/mterr"
)

const (
	googleTranslateBaseURL = "https://translation.googleapis.com/language/translate/v2"

	// maxBatchSize is the Google Translate v2 API's own cap on texts per
	// request; larger blocks are chunked transparently.
	maxBatchSize = 128
	// maxCharsPerString is the API's per-string size limit.
	maxCharsPerString = 30_000
)

// GoogleTranslateProvider calls the Google Translate v2 REST API.
type GoogleTranslateProvider struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

// NewGoogleTranslateProvider builds a provider with an explicit API key.
func NewGoogleTranslateProvider(apiKey string) (*GoogleTranslateProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, mterr.New(mterr.KindConfig, "API key cannot be empty")
	}
	return &GoogleTranslateProvider{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: googleTranslateBaseURL,
	}, nil
}

// GoogleTranslateProviderFromEnv builds a provider from the
// GOOGLE_TRANSLATE_API_KEY environment variable.
func GoogleTranslateProviderFromEnv() (*GoogleTranslateProvider, error) {
	apiKey, ok := os.LookupEnv("GOOGLE_TRANSLATE_API_KEY")
	if !ok {
		return nil, mterr.New(mterr.KindConfig, "GOOGLE_TRANSLATE_API_KEY environment variable not set")
	}
	return NewGoogleTranslateProvider(apiKey)
}

// ProviderName implements MachineTranslator.
func (p *GoogleTranslateProvider) ProviderName() string { return "Google Translate" }

type translateRequestBody struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type translateResponseBody struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// TranslateBlock implements MachineTranslator, chunking texts into
// API-sized batches and calling the v2 endpoint for each.
func (p *GoogleTranslateProvider) TranslateBlock(ctx context.Context, texts []string, source, target string) ([]string, error) {
	if err := ValidateLocale(source); err != nil {
		return nil, err
	}
	if err := ValidateLocale(target); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if utf8.RuneCountInString(text) > maxCharsPerString {
			return nil, mterr.Newf(mterr.KindTranslation,
				"text at index %d exceeds maximum length of %d characters", i, maxCharsPerString)
		}
	}

	results := make([]string, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunkResults, err := p.translateChunk(ctx, texts[start:end], source, target)
		if err != nil {
			return nil, err
		}
		results = append(results, chunkResults...)
	}
	return results, nil
}

func (p *GoogleTranslateProvider) translateChunk(ctx context.Context, texts []string, source, target string) ([]string, error) {
	body, err := json.Marshal(translateRequestBody{
		Q:      texts,
		Source: NormalizeLocale(source),
		Target: NormalizeLocale(target),
		Format: "text",
	})
	if err != nil {
		return nil, mterr.Wrap(mterr.KindTranslation, "failed to encode request body", err)
	}

	url := p.baseURL + "?key=" + p.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, mterr.Wrap(mterr.KindNetwork, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("source", source).Str("target", target).Int("texts", len(texts)).
		Msg("sending Google Translate request")

	resp, err := p.client.Do(req)
	if err != nil {
		log.Warn().Str("target", target).Err(err).Msg("Google Translate request failed")
		return nil, mterr.Wrap(mterr.KindNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errText, _ := io.ReadAll(resp.Body)
		kind := mterr.KindTranslation
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			kind = mterr.KindConfig
		}
		log.Warn().Str("target", target).Int("status", resp.StatusCode).
			Msg("Google Translate API returned an error status")
		return nil, mterr.Newf(kind, "API error (%d): %s", resp.StatusCode, string(errText))
	}

	var parsed translateResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, mterr.Wrap(mterr.KindTranslation, "failed to parse API response", err)
	}

	results := make([]string, len(parsed.Data.Translations))
	for i, t := range parsed.Data.Translations {
		results[i] = t.TranslatedText
	}
	if len(results) != len(texts) {
		return nil, mterr.New(mterr.KindTranslation, fmt.Sprintf(
			"API returned %d translations for %d input texts", len(results), len(texts)))
	}

	log.Debug().Str("target", target).Int("status", resp.StatusCode).Int("translations", len(results)).
		Msg("received Google Translate response")
	return results, nil
}
