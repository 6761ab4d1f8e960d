package mterr

import (
	"errors"
	"testing"
)

func TestIs(t *testing.T) {
	err := Newf(KindConsistency, "axis %s diverged", "$1")
	if !Is(err, KindConsistency) {
		t.Error("Is(err, KindConsistency) = false, want true")
	}
	if Is(err, KindReassembly) {
		t.Error("Is(err, KindReassembly) = true, want false")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindNetwork, "request failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := err.Error(); got == "" {
		t.Error("Error() returned empty string")
	}
}

func TestIsFalseForPlainError(t *testing.T) {
	if Is(errors.New("plain"), KindExpansion) {
		t.Error("Is() = true for a plain error, want false")
	}
}
