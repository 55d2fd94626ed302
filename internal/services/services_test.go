package services

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/ocr"
)

func TestObjectNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{pageImageObject("doc1", 3), "doc1/images/page_03.png"},
		{pageResultObject("doc1", 12), "doc1/pages/page_12.json"},
		{pagesPrefix("doc1"), "doc1/pages/"},
		{documentObject("doc1"), "doc1/word/Output.docx"},
		{tableObject("doc1"), "doc1/excel/Output.xlsx"},
		{imagesPrefix("doc1"), "doc1/images"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestAssemblePages(t *testing.T) {
	page := func(n int, paragraphs ...string) models.PageResult {
		return models.PageResult{PageNumber: n, Paragraphs: paragraphs}
	}

	tests := []struct {
		name      string
		pages     []models.PageResult
		pageCount int
		wantOrder []int
		wantErr   string
	}{
		{
			name:      "sorted by page number",
			pages:     []models.PageResult{page(3), page(1, "a"), page(2)},
			pageCount: 3,
			wantOrder: []int{1, 2, 3},
		},
		{
			name:    "beyond two digits",
			pages:   []models.PageResult{page(100), page(99)},
			wantErr: "not contiguous",
		},
		{
			name:    "gap",
			pages:   []models.PageResult{page(1), page(3)},
			wantErr: "not contiguous",
		},
		{
			name:    "duplicate",
			pages:   []models.PageResult{page(1), page(1)},
			wantErr: "not contiguous",
		},
		{
			name:      "missing pages",
			pages:     []models.PageResult{page(1), page(2)},
			pageCount: 3,
			wantErr:   "expected 3 page results, found 2",
		},
		{
			name:    "no pages",
			wantErr: "no page results found",
		},
		{
			name:      "no pages with count",
			pageCount: 2,
			wantErr:   "no page results found",
		},
		{
			name:      "without expected count",
			pages:     []models.PageResult{page(2), page(1)},
			wantOrder: []int{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := AssemblePages(tt.pages, tt.pageCount)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("AssemblePages() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AssemblePages() error = %v", err)
			}
			var order []int
			for _, p := range doc.Pages {
				order = append(order, p.PageNumber)
			}
			if !reflect.DeepEqual(order, tt.wantOrder) {
				t.Errorf("page order = %v, want %v", order, tt.wantOrder)
			}
		})
	}
}

func TestAssemblePagesLongDocument(t *testing.T) {
	var pages []models.PageResult
	for n := 120; n >= 1; n-- {
		pages = append(pages, models.PageResult{PageNumber: n})
	}
	doc, err := AssemblePages(pages, 120)
	if err != nil {
		t.Fatalf("AssemblePages() error = %v", err)
	}
	if doc.Pages[99].PageNumber != 100 {
		t.Errorf("Pages[99] = %d, want 100", doc.Pages[99].PageNumber)
	}
}

func TestValidateAggregatorRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.RecordAggregatorRequest
		wantErr bool
	}{
		{"valid", models.RecordAggregatorRequest{DocumentID: "doc1", PageCount: 3}, false},
		{"zero page count", models.RecordAggregatorRequest{DocumentID: "doc1"}, true},
		{"negative page count", models.RecordAggregatorRequest{DocumentID: "doc1", PageCount: -1}, true},
		{"no document", models.RecordAggregatorRequest{PageCount: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAggregatorRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAggregatorRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalculateFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.pdf")
	content := []byte("%PDF-1.4 test")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := calculateFileHash(path)
	if err != nil {
		t.Fatalf("calculateFileHash() error = %v", err)
	}
	sum := sha256.Sum256(content)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("calculateFileHash() = %s, want %s", got, want)
	}
}

func TestLoadPipelineConfig(t *testing.T) {
	t.Setenv("OCR_ENGINE", ocr.EngineGemini)
	t.Setenv("OCR_LANGUAGES", "bn,en")
	t.Setenv("OCR_PAGES", "5")
	t.Setenv("OCR_DPI", "200")
	t.Setenv("PROJECT_ID", "test-project")
	t.Setenv("VERTEX_AI_REGION", "europe-west4")

	cfg, err := loadPipelineConfig()
	if err != nil {
		t.Fatalf("loadPipelineConfig() error = %v", err)
	}
	if cfg.OCR.Engine != ocr.EngineGemini || cfg.Pages != 5 || cfg.DPI != 200 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.OCR.Vertex.ProjectID != "test-project" || cfg.OCR.Vertex.Region != "europe-west4" {
		t.Errorf("vertex = %+v", cfg.OCR.Vertex)
	}
}

func TestLoadPipelineConfigInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"pages":     {"OCR_PAGES": "many"},
		"dpi":       {"OCR_DPI": "high"},
		"languages": {"OCR_LANGUAGES": "bn"},
		"engine":    {"OCR_ENGINE": "abbyy"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := loadPipelineConfig(); err == nil {
				t.Error("loadPipelineConfig() succeeded, want error")
			}
		})
	}
}
