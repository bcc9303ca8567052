package media

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif" // register gif
	"image/jpeg"
	_ "image/png" // register png
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register webp
)

// DefaultPreviewSide is the longest edge of a preview thumbnail in pixels.
const DefaultPreviewSide = 192

// PreviewDataURL renders a picked photo as a data URL the page can show
// before the upload is confirmed. Images larger than maxSide are scaled down
// and re-encoded as JPEG; anything that cannot be decoded is embedded as-is.
func PreviewDataURL(data []byte, contentType string, maxSide int) string {
	if len(data) == 0 {
		return ""
	}
	if maxSide <= 0 {
		maxSide = DefaultPreviewSide
	}
	if thumb, ok := thumbnail(data, maxSide); ok {
		return dataURL("image/jpeg", thumb)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return dataURL(contentType, data)
}

func thumbnail(data []byte, maxSide int) ([]byte, bool) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), maxSide)
	if w == 0 || h == 0 {
		return nil, false
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 80}); err != nil {
		return nil, false
	}
	return out.Bytes(), true
}

// fit scales w x h so the longer side is at most maxSide, keeping aspect ratio.
func fit(w, h, maxSide int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		nh := h * maxSide / w
		if nh < 1 {
			nh = 1
		}
		return maxSide, nh
	}
	nw := w * maxSide / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxSide
}

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
