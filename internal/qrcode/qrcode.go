package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// Generator renders short strings as QR PNGs.
type Generator struct {
	size  int
	level goqrcode.RecoveryLevel
}

// New creates a Generator. errorCorrectionLevel is one of L, M, Q, H.
func New(size int, errorCorrectionLevel string) *Generator {
	var level goqrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = goqrcode.Low
	case "Q":
		level = goqrcode.High
	case "H":
		level = goqrcode.Highest
	default:
		level = goqrcode.Medium
	}
	if size <= 0 {
		size = 256
	}
	return &Generator{size: size, level: level}
}

// PNG encodes content as a QR code image.
func (g *Generator) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	png, err := goqrcode.Encode(content, g.level, g.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
