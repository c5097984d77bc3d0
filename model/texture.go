package model

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/ftrvxmtrx/tga"
)

// ErrUnsupportedTexture is returned by Decode for encodings that have no
// software decoder.
var ErrUnsupportedTexture = errors.New("model: unsupported texture encoding")

// Decode decodes the texture payload into an image. PNG and TGA payloads are
// supported; BC7 payloads return ErrUnsupportedTexture.
func (t Texture) Decode() (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch t.Encoding {
	case TexturePNG:
		img, err = png.Decode(bytes.NewReader(t.Data))
	case TextureTGA:
		img, err = tga.Decode(bytes.NewReader(t.Data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTexture, t.Encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("model: decode %s texture: %w", t.Encoding, err)
	}
	return img, nil
}
