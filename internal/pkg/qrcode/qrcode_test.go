package qrcode

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPNGGenerate(t *testing.T) {
	gen := NewPNG(128)

	img, err := gen.Generate("otpauth://totp/Tabineta:user@example.com?secret=ABC")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !bytes.HasPrefix(img, pngMagic) {
		t.Fatalf("expected png output")
	}
}

func TestPNGGenerateBase64Image(t *testing.T) {
	gen := NewPNG(0) // falls back to default size

	uri, err := gen.GenerateBase64Image("otpauth://totp/Tabineta:user@example.com?secret=ABC")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("expected data uri, got %q", uri[:min(len(uri), 40)])
	}
}

func TestPNGGenerateEmpty(t *testing.T) {
	gen := NewPNG(128)

	if _, err := gen.Generate(""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := gen.GenerateBase64Image(""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}
