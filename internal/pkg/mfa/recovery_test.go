package mfa

import (
	"strings"
	"testing"
)

func TestRecoveryCodeGenerate(t *testing.T) {
	gen := NewRecoveryCode()

	codes, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(codes) != 10 {
		t.Fatalf("expected 10 codes, got %d", len(codes))
	}

	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if len(code) != 8 {
			t.Errorf("expected 8-character code, got %q", code)
		}

		for i := 0; i < len(code); i++ {
			if !strings.ContainsRune(alphabet, rune(code[i])) {
				t.Errorf("code %q contains character outside alphabet", code)
				break
			}
		}

		if _, ok := seen[code]; ok {
			t.Errorf("duplicate code %q in batch", code)
		}
		seen[code] = struct{}{}
	}
}

func TestRecoveryCodeGenerateBatchesDiffer(t *testing.T) {
	gen := NewRecoveryCode()

	first, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	overlap := 0
	prev := make(map[string]struct{}, len(first))
	for _, code := range first {
		prev[code] = struct{}{}
	}
	for _, code := range second {
		if _, ok := prev[code]; ok {
			overlap++
		}
	}

	if overlap == len(second) {
		t.Fatalf("expected fresh batch to differ from previous one")
	}
}
