package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestPreviewDataURL_ScalesLargeImages(t *testing.T) {
	url := PreviewDataURL(pngBytes(t, 400, 200), "image/png", 100)
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("unexpected prefix: %.40s", url)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestPreviewDataURL_UndecodableIsEmbeddedAsIs(t *testing.T) {
	url := PreviewDataURL([]byte("not an image"), "image/heic", 100)
	want := "data:image/heic;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))
	if url != want {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestPreviewDataURL_Empty(t *testing.T) {
	if PreviewDataURL(nil, "image/png", 10) != "" {
		t.Fatalf("empty input should give empty url")
	}
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, max, ew, eh int
	}{
		{50, 40, 100, 50, 40},
		{400, 200, 100, 100, 50},
		{200, 400, 100, 50, 100},
		{1000, 1, 100, 100, 1},
		{0, 10, 100, 0, 0},
	}
	for _, tc := range cases {
		w, h := fit(tc.w, tc.h, tc.max)
		if w != tc.ew || h != tc.eh {
			t.Fatalf("fit(%d,%d,%d) = %d,%d want %d,%d", tc.w, tc.h, tc.max, w, h, tc.ew, tc.eh)
		}
	}
}
