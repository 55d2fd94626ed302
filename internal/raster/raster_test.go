package raster

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeBlankPDF writes a minimal PDF with the given number of 144x72pt pages.
func writeBlankPDF(t *testing.T, pages int) string {
	t.Helper()

	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 144 72] /Resources << >> >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "blank.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

func TestInspect(t *testing.T) {
	path := writeBlankPDF(t, 3)
	n, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Inspect() = %d pages, want 3", n)
	}
}

func TestInspectMissingFile(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInspectNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(path); err == nil {
		t.Error("expected error for non-PDF input")
	}
}

func TestMuPDFRender(t *testing.T) {
	path := writeBlankPDF(t, 2)

	doc, err := NewMuPDF().Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
	}

	data, err := doc.Render(1, 144)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("rendered page is not a PNG: %v", err)
	}
	if w := img.Bounds().Dx(); w != 288 {
		t.Errorf("rendered width = %d, want 288", w)
	}

	if _, err := doc.Render(2, 72); err == nil {
		t.Error("expected error rendering a page past the end")
	}
}
