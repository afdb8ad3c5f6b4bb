package docstamp

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// normalizeSignatureImage validates the signature PNG and scales it to the
// stamp box. Returns the image unchanged when it already has the right size.
func normalizeSignatureImage(data []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() == StampWidth && bounds.Dy() == StampHeight {
		return data, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, StampWidth, StampHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode resized signature: %w", err)
	}

	return buf.Bytes(), nil
}
