// Package qrcode renders QR code images for provisioning URIs.
package qrcode

import (
	"encoding/base64"
	"errors"

	qrc "github.com/skip2/go-qrcode"
)

// ErrEmptyContent indicates there was nothing to encode.
var ErrEmptyContent = errors.New("qrcode: content is empty")

// Generator encodes content into QR code images.
type Generator interface {
	// Generate returns the QR code as a PNG image.
	Generate(content string) ([]byte, error)
	// GenerateBase64Image returns the QR code as a data URI suitable for
	// embedding in an <img> tag.
	GenerateBase64Image(content string) (string, error)
}

const defaultSize = 256

// PNG implements Generator producing square PNG images.
type PNG struct {
	size int
}

// NewPNG returns a PNG generator. size is the image width and height in
// pixels; zero or negative falls back to 256.
func NewPNG(size int) *PNG {
	if size <= 0 {
		size = defaultSize
	}
	return &PNG{size: size}
}

// Generate returns the QR code as a PNG image.
func (g *PNG) Generate(content string) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	return qrc.Encode(content, qrc.Medium, g.size)
}

// GenerateBase64Image returns the QR code as a PNG data URI.
func (g *PNG) GenerateBase64Image(content string) (string, error) {
	png, err := g.Generate(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
