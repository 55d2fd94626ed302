//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderLines(t *testing.T, lines ...string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 40+30*len(lines)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	for i, l := range lines {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.Black,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(10, 30+30*i),
		}
		d.DrawString(l)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestTesseractRecognizeLines(t *testing.T) {
	ensureTesseractAvailable(t)

	engine, err := NewTesseract([]string{"en"}, 0)
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer engine.Close()

	lines, err := engine.Recognize(context.Background(), renderLines(t, "HELLO WORLD", "SECOND LINE"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	joined := strings.ToLower(strings.Join(lines, "|"))
	if !strings.Contains(joined, "hello") || !strings.Contains(joined, "second") {
		t.Errorf("unexpected OCR output: %q", lines)
	}
}

func TestTesseractClose(t *testing.T) {
	engine, err := NewTesseract([]string{"en"}, 300)
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	engine.client = nil
	if err := engine.Close(); err != nil {
		t.Errorf("Close on nil client failed: %v", err)
	}
}
