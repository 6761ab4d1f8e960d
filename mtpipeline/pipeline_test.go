package mtpipeline

import (
	"context"
	"testing"

	"github.com/translatewiki/banana-mt/ast"
	"github.com/translatewiki/banana-mt/mterr"
	"github.com/translatewiki/banana-mt/mttranslate"
)

func TestTranslateRoundTrip(t *testing.T) {
	body := []ast.Node{
		ast.Placeholder{Index: 1},
		ast.Text{Value: " has "},
		ast.Transclusion{Name: "PLURAL", Param: "$1", Options: []string{"one message", "$1 messages"}},
		ast.Text{Value: "."},
	}
	p := New(mttranslate.NewMockTranslator(mttranslate.ModeSuffix))

	got, err := p.Translate(context.Background(), Request{
		Key:          "new-messages",
		Body:         body,
		SourceLocale: "en",
		TargetLocale: "fr",
	})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := "$1 has {{PLURAL:$1|one message._fr|$1 messages._fr}}"
	if got != want {
		t.Errorf("Translate() = %q, want %q", got, want)
	}
}

func TestTranslatePropagatesProviderError(t *testing.T) {
	body := []ast.Node{ast.Text{Value: "Hello"}}
	p := New(mttranslate.NewErrorMockTranslator("provider down"))

	_, err := p.Translate(context.Background(), Request{
		Key:          "greeting",
		Body:         body,
		SourceLocale: "en",
		TargetLocale: "fr",
	})
	if !mterr.Is(err, mterr.KindTranslation) {
		t.Fatalf("err = %v, want KindTranslation", err)
	}
}

func TestTranslateReportsConsistencyFailure(t *testing.T) {
	body := []ast.Node{
		ast.Transclusion{Name: "GENDER", Param: "$1", Options: []string{"He", "She", "They"}},
		ast.Text{Value: " arrived."},
	}
	mapping := map[[2]string]string{
		{"He arrived.", "fr"}:  "Il est arrive.",
		{"She arrived.", "fr"}: "Something totally unrelated",
		{"They arrived.", "fr"}: "Ils sont arrives.",
	}
	p := New(mttranslate.NewMappedMockTranslator(mapping))

	_, err := p.Translate(context.Background(), Request{
		Key:          "arrival",
		Body:         body,
		SourceLocale: "en",
		TargetLocale: "fr",
	})
	if !mterr.Is(err, mterr.KindConsistency) {
		t.Fatalf("err = %v, want KindConsistency", err)
	}
}

func TestTranslateBatchPreservesOrderAndIsolatesFailures(t *testing.T) {
	goodBody := []ast.Node{ast.Text{Value: "Hello"}}
	p := New(mttranslate.NewMockTranslator(mttranslate.ModeSuffix))

	reqs := []Request{
		{Key: "a", Body: goodBody, SourceLocale: "en", TargetLocale: "fr"},
		{Key: "b", Body: goodBody, SourceLocale: "en", TargetLocale: "de"},
		{Key: "c", Body: goodBody, SourceLocale: "en", TargetLocale: "es"},
	}
	results := p.TranslateBatch(context.Background(), reqs, 2)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].Key != want {
			t.Errorf("results[%d].Key = %q, want %q", i, results[i].Key, want)
		}
		if results[i].Err != nil {
			t.Errorf("results[%d].Err = %v, want nil", i, results[i].Err)
		}
	}
	if results[0].Text != "Hello_fr" {
		t.Errorf("results[0].Text = %q, want %q", results[0].Text, "Hello_fr")
	}
}

func TestTranslateBatchWithFailingProvider(t *testing.T) {
	goodBody := []ast.Node{ast.Text{Value: "Hi"}}
	p := New(mttranslate.NewErrorMockTranslator("down"))

	reqs := []Request{{Key: "only", Body: goodBody, SourceLocale: "en", TargetLocale: "fr"}}
	results := p.TranslateBatch(context.Background(), reqs, 4)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if !mterr.Is(results[0].Err, mterr.KindTranslation) {
		t.Errorf("results[0].Err = %v, want KindTranslation", results[0].Err)
	}
}
