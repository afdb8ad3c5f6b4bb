package docstamp

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"regexp"
	"strconv"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// minimalPDF builds a single-page PDF with the given page size. Object
// offsets are recorded while writing so the xref table is correct by
// construction.
func minimalPDF(t *testing.T, width, height float64) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 4)
	writeObj := func(n int, body string) {
		offsets[n-1] = buf.Len()
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj(1, "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj(2, "2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj(3, fmt.Sprintf("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << >> /Contents 4 0 R >>\nendobj\n", width, height))
	writeObj(4, "4 0 obj\n<< /Length 0 >>\nstream\n\nendstream\nendobj\n")

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	buf.WriteString("trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n%%%%EOF\n", xrefStart)

	return buf.Bytes()
}

// pageContent returns the decoded content stream of the given page so tests
// can inspect placement operators in the stamped output.
func pageContent(t *testing.T, pdf []byte, pageNr int) string {
	t.Helper()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("failed to read stamped PDF: %v", err)
	}

	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		t.Fatalf("failed to extract page content: %v", err)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read page content: %v", err)
	}

	return string(content)
}

var transformRe = regexp.MustCompile(`([-0-9.]+) ([-0-9.]+) ([-0-9.]+) ([-0-9.]+) ([-0-9.]+) ([-0-9.]+) cm`)

// hasTranslation reports whether any transformation matrix in the content
// translates to (x, y), within half a point.
func hasTranslation(content string, x, y float64) bool {
	for _, m := range transformRe.FindAllStringSubmatch(content, -1) {
		e, errX := strconv.ParseFloat(m[5], 64)
		f, errY := strconv.ParseFloat(m[6], 64)
		if errX != nil || errY != nil {
			continue
		}
		if math.Abs(e-x) < 0.5 && math.Abs(f-y) < 0.5 {
			return true
		}
	}
	return false
}

// stampOrigin converts a relative position into the expected lower-left
// corner of the stamp box in PDF user space, where y grows upward.
func stampOrigin(pageW, pageH, xRatio, yRatio float64) (float64, float64) {
	offX, offY := stampOffsets(pageW, pageH, xRatio, yRatio)
	return offX, pageH - offY - StampHeight
}

func signaturePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 40, B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test signature: %v", err)
	}

	return buf.Bytes()
}

func TestStamp(t *testing.T) {
	pdf := minimalPDF(t, 612, 792)
	sig := signaturePNG(t, 300, 150)

	out, err := Stamp(pdf, sig, 0.5, 0.5)
	if err != nil {
		t.Fatalf("Stamp returned error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Stamp returned empty output")
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("Stamp output is not a PDF")
	}
	if bytes.Equal(out, pdf) {
		t.Fatal("Stamp output is identical to input")
	}

	content := pageContent(t, out, 1)
	x, y := stampOrigin(612, 792, 0.5, 0.5)
	if !hasTranslation(content, x, y) {
		t.Fatalf("no transform places the signature at (%v, %v), content:\n%s", x, y, content)
	}
}

func TestStampTwice(t *testing.T) {
	pdf := minimalPDF(t, 612, 792)
	sig := signaturePNG(t, 150, 75)

	first, err := Stamp(pdf, sig, 0.25, 0.25)
	if err != nil {
		t.Fatalf("first Stamp returned error: %v", err)
	}

	second, err := Stamp(first, sig, 0.75, 0.75)
	if err != nil {
		t.Fatalf("second Stamp returned error: %v", err)
	}
	if !bytes.HasPrefix(second, []byte("%PDF")) {
		t.Fatal("second Stamp output is not a PDF")
	}

	// Both signatures must stay visible on the page, the second stamp may
	// not replace the first one.
	content := pageContent(t, second, 1)
	x1, y1 := stampOrigin(612, 792, 0.25, 0.25)
	if !hasTranslation(content, x1, y1) {
		t.Fatalf("first signature at (%v, %v) is gone after the second stamp", x1, y1)
	}
	x2, y2 := stampOrigin(612, 792, 0.75, 0.75)
	if !hasTranslation(content, x2, y2) {
		t.Fatalf("second signature at (%v, %v) is missing from the page", x2, y2)
	}
}

func TestStampInvalidPDF(t *testing.T) {
	sig := signaturePNG(t, 150, 75)

	_, err := Stamp([]byte("not a pdf at all"), sig, 0.5, 0.5)
	if !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got: %v", err)
	}
}

func TestStampInvalidImage(t *testing.T) {
	pdf := minimalPDF(t, 612, 792)

	_, err := Stamp(pdf, []byte("not a png"), 0.5, 0.5)
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got: %v", err)
	}
}

func TestStampPositionOutOfRange(t *testing.T) {
	pdf := minimalPDF(t, 612, 792)
	sig := signaturePNG(t, 150, 75)

	cases := []struct {
		name   string
		x, y   float64
	}{
		{name: "negative x", x: -0.1, y: 0.5},
		{name: "x above one", x: 1.1, y: 0.5},
		{name: "negative y", x: 0.5, y: -0.1},
		{name: "y above one", x: 0.5, y: 1.1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Stamp(pdf, sig, tc.x, tc.y); err == nil {
				t.Fatal("expected error for out of range position")
			}
		})
	}
}

func TestStampOffsets(t *testing.T) {
	cases := []struct {
		name           string
		pageW, pageH   float64
		xRatio, yRatio float64
		wantX, wantY   float64
	}{
		{name: "center of letter page", pageW: 612, pageH: 792, xRatio: 0.5, yRatio: 0.5, wantX: 231, wantY: 358.5},
		{name: "top left corner", pageW: 612, pageH: 792, xRatio: 0, yRatio: 0, wantX: -75, wantY: -37.5},
		{name: "bottom right corner", pageW: 612, pageH: 792, xRatio: 1, yRatio: 1, wantX: 537, wantY: 754.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotX, gotY := stampOffsets(tc.pageW, tc.pageH, tc.xRatio, tc.yRatio)
			if gotX != tc.wantX || gotY != tc.wantY {
				t.Fatalf("stampOffsets() = (%v, %v), want (%v, %v)", gotX, gotY, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestNormalizeSignatureImage(t *testing.T) {
	t.Run("keeps image already at stamp size", func(t *testing.T) {
		sig := signaturePNG(t, StampWidth, StampHeight)
		out, err := normalizeSignatureImage(sig)
		if err != nil {
			t.Fatalf("normalizeSignatureImage returned error: %v", err)
		}
		if !bytes.Equal(out, sig) {
			t.Fatal("expected image at stamp size to pass through unchanged")
		}
	})

	t.Run("resizes oversized image", func(t *testing.T) {
		sig := signaturePNG(t, 600, 300)
		out, err := normalizeSignatureImage(sig)
		if err != nil {
			t.Fatalf("normalizeSignatureImage returned error: %v", err)
		}

		img, err := png.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("failed to decode resized image: %v", err)
		}
		if img.Bounds().Dx() != StampWidth || img.Bounds().Dy() != StampHeight {
			t.Fatalf("resized image is %dx%d, want %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), int(StampWidth), int(StampHeight))
		}
	})
}
