package mtexpand

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/translatewiki/banana-mt/ast"
	"github.com/translatewiki/banana-mt/mterr"
)

func TestPrepareForTranslationNoChoicePoints(t *testing.T) {
	body := []ast.Node{ast.Text{Value: "Hello, "}, ast.Placeholder{Index: 1}, ast.Text{Value: "!"}}
	ctx, err := PrepareForTranslation(body, "en", "greeting")
	if err != nil {
		t.Fatalf("PrepareForTranslation() error = %v", err)
	}
	if len(ctx.Variants) != 1 {
		t.Fatalf("len(Variants) = %d, want 1", len(ctx.Variants))
	}
	if want := "Hello, _ID1_!"; ctx.Variants[0].SourceText != want {
		t.Errorf("SourceText = %q, want %q", ctx.Variants[0].SourceText, want)
	}
	if len(ctx.AxisOrder) != 0 {
		t.Errorf("AxisOrder = %v, want empty", ctx.AxisOrder)
	}
}

func TestPrepareForTranslationEnglishPlural(t *testing.T) {
	body := []ast.Node{
		ast.Placeholder{Index: 1},
		ast.Text{Value: " has "},
		ast.Transclusion{Name: "PLURAL", Param: "$1", Options: []string{"one edit", "$1 edits"}},
		ast.Text{Value: "."},
	}
	ctx, err := PrepareForTranslation(body, "en", "edit-count")
	if err != nil {
		t.Fatalf("PrepareForTranslation() error = %v", err)
	}
	if len(ctx.Variants) != 2 {
		t.Fatalf("len(Variants) = %d, want 2", len(ctx.Variants))
	}
	if want := "_ID1_ has one edit."; ctx.Variants[0].SourceText != want {
		t.Errorf("Variants[0] = %q, want %q", ctx.Variants[0].SourceText, want)
	}
	if want := "_ID1_ has _ID1_ edits."; ctx.Variants[1].SourceText != want {
		t.Errorf("Variants[1] = %q, want %q", ctx.Variants[1].SourceText, want)
	}
	if got, want := ctx.VariableTypes["$1"], "PLURAL"; got != want {
		t.Errorf("VariableTypes[$1] = %q, want %q", got, want)
	}
}

func TestPrepareForTranslationGenderThenPlural(t *testing.T) {
	body := []ast.Node{
		ast.Transclusion{Name: "GENDER", Param: "$1", Options: []string{"He", "She", "They"}},
		ast.Text{Value: " sent "},
		ast.Transclusion{Name: "PLURAL", Param: "$2", Options: []string{"a message", "messages"}},
		ast.Text{Value: "."},
	}
	ctx, err := PrepareForTranslation(body, "en", "notify")
	if err != nil {
		t.Fatalf("PrepareForTranslation() error = %v", err)
	}
	if len(ctx.Variants) != 6 {
		t.Fatalf("len(Variants) = %d, want 6", len(ctx.Variants))
	}
	if want := []string{"$1", "$2"}; cmp.Diff(ctx.AxisOrder, want) != "" {
		t.Errorf("AxisOrder mismatch (-got +want):\n%s", cmp.Diff(ctx.AxisOrder, want))
	}
	want := TranslationVariant{State: State{"$1": 0, "$2": 1}, SourceText: "He sent messages."}
	if diff := cmp.Diff(ctx.Variants[1], want); diff != "" {
		t.Errorf("Variants[1] mismatch (-got +want):\n%s", diff)
	}
}

func TestPrepareForTranslationControlPlaceholderAlsoUsedAsOutput(t *testing.T) {
	// $1 is both GENDER's control variable and rendered directly as an
	// output placeholder later in the same message; it must still come
	// through anchor-protected like any other placeholder. GENDER always
	// expands to three states; the third clamps to the last option given.
	body := []ast.Node{
		ast.Transclusion{Name: "GENDER", Param: "$1", Options: []string{"He", "She"}},
		ast.Text{Value: " ("},
		ast.Placeholder{Index: 1},
		ast.Text{Value: ")"},
	}
	ctx, err := PrepareForTranslation(body, "en", "gendered-id")
	if err != nil {
		t.Fatalf("PrepareForTranslation() error = %v", err)
	}
	want := []TranslationVariant{
		{State: State{"$1": 0}, SourceText: "He (_ID1_)"},
		{State: State{"$1": 1}, SourceText: "She (_ID1_)"},
		{State: State{"$1": 2}, SourceText: "She (_ID1_)"},
	}
	if diff := cmp.Diff(ctx.Variants, want); diff != "" {
		t.Errorf("Variants mismatch (-got +want):\n%s", diff)
	}
}

func TestPrepareForTranslationOpaqueTransclusionPassesThroughName(t *testing.T) {
	body := []ast.Node{
		ast.Text{Value: "See "},
		ast.Transclusion{Name: "SITENAME", Param: "", Options: nil},
		ast.Text{Value: "."},
	}
	ctx, err := PrepareForTranslation(body, "en", "sitename-notice")
	if err != nil {
		t.Fatalf("PrepareForTranslation() error = %v", err)
	}
	if want := "See SITENAME."; ctx.Variants[0].SourceText != want {
		t.Errorf("SourceText = %q, want %q", ctx.Variants[0].SourceText, want)
	}
}

func TestPrepareForTranslationTooManyVariants(t *testing.T) {
	body := []ast.Node{
		ast.Transclusion{Name: "PLURAL", Param: "$1", Options: []string{"a", "b", "c", "d", "e", "f"}},
		ast.Transclusion{Name: "PLURAL", Param: "$2", Options: []string{"a", "b", "c", "d", "e", "f"}},
		ast.Transclusion{Name: "PLURAL", Param: "$3", Options: []string{"a", "b", "c", "d", "e", "f"}},
	}
	// Arabic has 6 plural forms; 6*6*6 = 216 > 64.
	_, err := PrepareForTranslation(body, "ar", "overflow")
	if !mterr.Is(err, mterr.KindExpansion) {
		t.Fatalf("err = %v, want KindExpansion", err)
	}
}

func TestPrepareForTranslationEmptyOptionsContributesNothing(t *testing.T) {
	body := []ast.Node{
		ast.Text{Value: "prefix "},
		ast.Transclusion{Name: "GENDER", Param: "$1", Options: nil},
		ast.Text{Value: " suffix"},
	}
	ctx, err := PrepareForTranslation(body, "en", "empty-options")
	if err != nil {
		t.Fatalf("PrepareForTranslation() error = %v", err)
	}
	for _, v := range ctx.Variants {
		if want := "prefix  suffix"; v.SourceText != want {
			t.Errorf("SourceText = %q, want %q", v.SourceText, want)
		}
	}
}

func TestUpdateTranslationsLengthMismatch(t *testing.T) {
	ctx, err := PrepareForTranslation([]ast.Node{ast.Text{Value: "hi"}}, "en", "hi")
	if err != nil {
		t.Fatalf("PrepareForTranslation() error = %v", err)
	}
	err = ctx.UpdateTranslations([]string{"a", "b"})
	if !mterr.Is(err, mterr.KindReassembly) {
		t.Fatalf("err = %v, want KindReassembly", err)
	}
}
