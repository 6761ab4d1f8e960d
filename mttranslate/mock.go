package mttranslate

import (
	"context"
	"strings"

	"github.com/translatewiki/banana-mt/mterr"
)

// MockMode selects the deterministic behavior of a MockTranslator.
type MockMode int

const (
	// ModeSuffix appends "_<target>" to every text. It preserves anchor
	// tokens perfectly, making it the default for pipeline tests.
	ModeSuffix MockMode = iota
	// ModeReorder reverses word order, simulating an SOV target language
	// and exercising the reassembly engine's word-boundary snap logic
	// against MT output that moves words around.
	ModeReorder
	// ModeNoOp returns each text unchanged.
	ModeNoOp
	// ModeMapped looks up (text, target) in a fixed table, falling back to
	// ModeSuffix behavior for anything not present.
	ModeMapped
	// ModeError always fails, simulating a provider outage.
	ModeError
)

type mappedKey struct {
	text   string
	target string
}

// MockTranslator is a deterministic, network-free MachineTranslator for
// exercising the pipeline in tests without an API key.
type MockTranslator struct {
	mode     MockMode
	mappings map[mappedKey]string
	errMsg   string
}

// NewMockTranslator builds a MockTranslator running in the given mode.
func NewMockTranslator(mode MockMode) *MockTranslator {
	return &MockTranslator{mode: mode}
}

// NewMappedMockTranslator builds a MockTranslator in ModeMapped, serving
// translations from mappings keyed by (sourceText, targetLocale).
func NewMappedMockTranslator(mappings map[[2]string]string) *MockTranslator {
	m := &MockTranslator{mode: ModeMapped, mappings: make(map[mappedKey]string, len(mappings))}
	for k, v := range mappings {
		m.mappings[mappedKey{text: k[0], target: k[1]}] = v
	}
	return m
}

// NewErrorMockTranslator builds a MockTranslator that always fails with
// msg, simulating a provider outage.
func NewErrorMockTranslator(msg string) *MockTranslator {
	return &MockTranslator{mode: ModeError, errMsg: msg}
}

func (m *MockTranslator) translateOne(text, target string) (string, error) {
	switch m.mode {
	case ModeNoOp:
		return text, nil
	case ModeReorder:
		words := strings.Fields(text)
		for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
			words[i], words[j] = words[j], words[i]
		}
		return strings.Join(words, " "), nil
	case ModeMapped:
		if v, ok := m.mappings[mappedKey{text: text, target: target}]; ok {
			return v, nil
		}
		return text + "_" + target, nil
	case ModeError:
		return "", mterr.New(mterr.KindTranslation, m.errMsg)
	default: // ModeSuffix
		return text + "_" + target, nil
	}
}

// TranslateBlock implements MachineTranslator.
func (m *MockTranslator) TranslateBlock(ctx context.Context, texts []string, source, target string) ([]string, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		translated, err := m.translateOne(text, target)
		if err != nil {
			return nil, err
		}
		out[i] = translated
	}
	return out, nil
}

// ProviderName implements MachineTranslator.
func (m *MockTranslator) ProviderName() string { return "Mock Translator" }
