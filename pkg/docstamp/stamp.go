package docstamp

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	ErrInvalidPDF   = errors.New("file is not a valid PDF")
	ErrInvalidImage = errors.New("signature image is not a valid PNG")
)

// Stamp dimensions in PDF points. Every signature image is scaled to this
// box before stamping so overlapping coordinates stay predictable.
const (
	StampWidth  = 150.0
	StampHeight = 75.0
)

// Stamp draws the signature image onto the first page of the PDF, centered
// at (xRatio, yRatio) of the page size measured from the top-left corner,
// and returns the stamped PDF. The input slices are not modified.
func Stamp(pdf []byte, signature []byte, xRatio, yRatio float64) ([]byte, error) {
	if xRatio < 0 || xRatio > 1 || yRatio < 0 || yRatio > 1 {
		return nil, fmt.Errorf("signature position out of range: x=%v y=%v", xRatio, yRatio)
	}

	img, err := normalizeSignatureImage(signature)
	if err != nil {
		return nil, err
	}

	dims, err := api.PageDims(bytes.NewReader(pdf), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if len(dims) == 0 {
		return nil, ErrInvalidPDF
	}

	offX, offY := stampOffsets(dims[0].Width, dims[0].Height, xRatio, yRatio)
	// In pdfcpu, y is inverted: the anchor is the top-left corner of the page
	// and offsets grow downward, so the vertical offset is negated.
	description := fmt.Sprintf("pos:tl, off:%.2f %.2f, scale:1 abs, rotation:0", offX, -offY)

	wm, err := api.ImageWatermarkForReader(bytes.NewReader(img), description, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build signature watermark: %w", err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &out, []string{"1"}, wm, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	return out.Bytes(), nil
}

// stampOffsets converts the relative position, expressed as ratios of the
// page size from the top-left corner, into the top-left offsets of the stamp
// box so the stamp ends up centered on the requested point.
func stampOffsets(pageWidth, pageHeight, xRatio, yRatio float64) (offX, offY float64) {
	offX = xRatio*pageWidth - StampWidth/2
	offY = yRatio*pageHeight - StampHeight/2
	return offX, offY
}
