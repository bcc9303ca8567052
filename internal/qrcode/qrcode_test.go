package qrcode

import (
	"bytes"
	"image/png"
	"testing"
)

func TestPNG_EncodesDecodableImage(t *testing.T) {
	g := New(128, "M")
	raw, err := g.PNG("ANA7F3A")
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Fatalf("expected 128px wide, got %d", img.Bounds().Dx())
	}
}

func TestPNG_RejectsEmpty(t *testing.T) {
	if _, err := New(0, "").PNG(""); err == nil {
		t.Fatalf("expected error for empty content")
	}
}
