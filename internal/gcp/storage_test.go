package gcp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseGCSUri(t *testing.T) {
	tests := []struct {
		uri            string
		bucket, object string
		wantErr        bool
	}{
		{uri: "gs://bucket/doc/pages/page_01.json", bucket: "bucket", object: "doc/pages/page_01.json"},
		{uri: "gs://bucket/a.png", bucket: "bucket", object: "a.png"},
		{uri: "https://bucket/a.png", wantErr: true},
		{uri: "gs://bucket", wantErr: true},
		{uri: "gs:///object", wantErr: true},
	}
	for _, tt := range tests {
		bucket, object, err := ParseGCSUri(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGCSUri(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if bucket != tt.bucket || object != tt.object {
			t.Errorf("ParseGCSUri(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.bucket, tt.object)
		}
	}
	if got := GCSUri("b", "o/p"); got != "gs://b/o/p" {
		t.Errorf("GCSUri() = %q", got)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("OCR_TEST_VALUE", "set")
	if got := GetEnv("OCR_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("GetEnv() = %q, want set", got)
	}
	if got := GetEnv("OCR_TEST_MISSING_VALUE", "fallback"); got != "fallback" {
		t.Errorf("GetEnv() = %q, want fallback", got)
	}
}

func TestObjectNames(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"images/page_01.png", "word/Output.docx", "excel/Output.xlsx"} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ObjectNames("doc123", root)
	if err != nil {
		t.Fatalf("ObjectNames() error = %v", err)
	}
	want := map[string]string{
		filepath.Join(root, "images/page_01.png"): "doc123/images/page_01.png",
		filepath.Join(root, "word/Output.docx"):   "doc123/word/Output.docx",
		filepath.Join(root, "excel/Output.xlsx"):  "doc123/excel/Output.xlsx",
	}
	if len(files) != len(want) {
		t.Fatalf("ObjectNames() returned %d files, want %d", len(files), len(want))
	}
	for path, object := range want {
		if files[path] != object {
			t.Errorf("object for %s = %q, want %q", path, files[path], object)
		}
	}

	noPrefix, err := ObjectNames("", root)
	if err != nil {
		t.Fatal(err)
	}
	if got := noPrefix[filepath.Join(root, "word/Output.docx")]; got != "word/Output.docx" {
		t.Errorf("object without prefix = %q", got)
	}
}

func TestWorkflowName(t *testing.T) {
	got := WorkflowName("p", "us-central1", "wf")
	if got != "projects/p/locations/us-central1/workflows/wf" {
		t.Errorf("WorkflowName() = %q", got)
	}
}
