//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract wraps a single gosseract client for the lifetime of a run.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract engine for the given ISO 639-1 language hints.
// The engine should be closed when no longer needed to release resources.
func NewTesseract(languages []string, dpi int) (*Tesseract, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(TesseractLanguages(languages)...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set languages: %w", err)
	}
	if dpi > 0 {
		if err := client.SetVariable("user_defined_dpi", strconv.Itoa(dpi)); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set dpi: %w", err)
		}
	}
	return &Tesseract{client: client}, nil
}

func (t *Tesseract) Name() string { return EngineTesseract }

// Recognize returns one entry per text line detected on the image.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := t.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	lines := make([]string, 0, len(boxes))
	for _, b := range boxes {
		lines = append(lines, strings.TrimRight(b.Word, "\n"))
	}
	return lines, nil
}

// Close releases OCR resources.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
