//go:build !ocr

package ocr

import (
	"context"
	"errors"
)

// ErrOCRNotEnabled is returned when the Tesseract engine is requested but was
// not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags ocr")

// Tesseract is a stub engine used when the "ocr" build tag is not set.
type Tesseract struct{}

// NewTesseract returns ErrOCRNotEnabled.
func NewTesseract(languages []string, dpi int) (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}

func (t *Tesseract) Name() string { return EngineTesseract }

// Recognize returns ErrOCRNotEnabled.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]string, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil engine.
func (t *Tesseract) Close() error {
	return nil
}
