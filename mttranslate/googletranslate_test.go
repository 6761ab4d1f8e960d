package mttranslate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/translatewiki/banana-mt/mterr"
)

func TestNewGoogleTranslateProviderEmptyKey(t *testing.T) {
	_, err := NewGoogleTranslateProvider("   ")
	if !mterr.Is(err, mterr.KindConfig) {
		t.Fatalf("err = %v, want KindConfig", err)
	}
}

func TestGoogleTranslateProviderFromEnvMissing(t *testing.T) {
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "")
	_, err := GoogleTranslateProviderFromEnv()
	// an empty-but-set env var is rejected by NewGoogleTranslateProvider's
	// own blank-key check, same failure path as "not set".
	if !mterr.Is(err, mterr.KindConfig) {
		t.Fatalf("err = %v, want KindConfig", err)
	}
}

func TestGoogleTranslateProviderTextTooLong(t *testing.T) {
	p, err := NewGoogleTranslateProvider("test-key")
	if err != nil {
		t.Fatalf("NewGoogleTranslateProvider() error = %v", err)
	}
	longText := strings.Repeat("x", maxCharsPerString+1)
	_, err = p.TranslateBlock(context.Background(), []string{longText}, "en", "fr")
	if !mterr.Is(err, mterr.KindTranslation) {
		t.Fatalf("err = %v, want KindTranslation", err)
	}
}

func TestGoogleTranslateProviderEmptyBatch(t *testing.T) {
	p, err := NewGoogleTranslateProvider("test-key")
	if err != nil {
		t.Fatalf("NewGoogleTranslateProvider() error = %v", err)
	}
	out, err := p.TranslateBlock(context.Background(), nil, "en", "fr")
	if err != nil {
		t.Fatalf("TranslateBlock() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
}

func TestGoogleTranslateProviderHitsAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body translateRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := translateResponseBody{}
		for _, q := range body.Q {
			resp.Data.Translations = append(resp.Data.Translations, struct {
				TranslatedText string `json:"translatedText"`
			}{TranslatedText: q + "_translated"})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p, err := NewGoogleTranslateProvider("test-key")
	if err != nil {
		t.Fatalf("NewGoogleTranslateProvider() error = %v", err)
	}
	p.baseURL = server.URL

	out, err := p.TranslateBlock(context.Background(), []string{"hello", "world"}, "en", "fr")
	if err != nil {
		t.Fatalf("TranslateBlock() error = %v", err)
	}
	want := []string{"hello_translated", "world_translated"}
	if !stringsEqual(out, want) {
		t.Errorf("TranslateBlock() = %v, want %v", out, want)
	}
}

func TestGoogleTranslateProviderAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid key"}`))
	}))
	defer server.Close()

	p, err := NewGoogleTranslateProvider("bad-key")
	if err != nil {
		t.Fatalf("NewGoogleTranslateProvider() error = %v", err)
	}
	p.baseURL = server.URL

	_, err = p.TranslateBlock(context.Background(), []string{"hello"}, "en", "fr")
	if !mterr.Is(err, mterr.KindConfig) {
		t.Fatalf("err = %v, want KindConfig", err)
	}
}

func TestGoogleTranslateProviderChunksLargeBatches(t *testing.T) {
	var chunkSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body translateRequestBody
		json.NewDecoder(r.Body).Decode(&body)
		chunkSizes = append(chunkSizes, len(body.Q))
		resp := translateResponseBody{}
		for _, q := range body.Q {
			resp.Data.Translations = append(resp.Data.Translations, struct {
				TranslatedText string `json:"translatedText"`
			}{TranslatedText: q})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p, err := NewGoogleTranslateProvider("test-key")
	if err != nil {
		t.Fatalf("NewGoogleTranslateProvider() error = %v", err)
	}
	p.baseURL = server.URL

	texts := make([]string, 200)
	for i := range texts {
		texts[i] = "text"
	}
	out, err := p.TranslateBlock(context.Background(), texts, "en", "fr")
	if err != nil {
		t.Fatalf("TranslateBlock() error = %v", err)
	}
	if len(out) != 200 {
		t.Fatalf("len(out) = %d, want 200", len(out))
	}
	if want := []int{128, 72}; !intsEqual(chunkSizes, want) {
		t.Errorf("chunkSizes = %v, want %v", chunkSizes, want)
	}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
