package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Names of the output directories and artifacts under the output root.
const (
	ImagesDirName = "images"
	WordDirName   = "word"
	ExcelDirName  = "excel"
	DocumentName  = "Output.docx"
	TableName     = "Output.xlsx"
)

// Layout locates the artifacts of a run under Root.
type Layout struct {
	Root string
}

func (l Layout) ImagesDir() string { return filepath.Join(l.Root, ImagesDirName) }
func (l Layout) WordDir() string   { return filepath.Join(l.Root, WordDirName) }
func (l Layout) ExcelDir() string  { return filepath.Join(l.Root, ExcelDirName) }

// DocumentPath is the Word artifact.
func (l Layout) DocumentPath() string { return filepath.Join(l.WordDir(), DocumentName) }

// TablePath is the Excel artifact.
func (l Layout) TablePath() string { return filepath.Join(l.ExcelDir(), TableName) }

// ImagePath is the rendered image of the 1-based page.
func (l Layout) ImagePath(pageNumber int) string {
	return filepath.Join(l.ImagesDir(), PageImageName(pageNumber))
}

// PageImageName names a page image by its zero-padded page number.
func PageImageName(pageNumber int) string {
	return fmt.Sprintf("page_%02d.png", pageNumber)
}

// Create makes the three output directories. It is safe to call repeatedly.
func (l Layout) Create() error {
	for _, dir := range []string{l.ImagesDir(), l.WordDir(), l.ExcelDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
