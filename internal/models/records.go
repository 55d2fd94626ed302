package models

// Record is one tabular row derived from a paragraph.
// FullText is always the paragraph verbatim; Title and Description are a
// heuristic split of it and Description may be empty.
type Record struct {
	PageNumber  int    `json:"pageNumber"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FullText    string `json:"fullText"`
}

// PageResult holds the cleaned paragraphs of a single page, in reading order.
type PageResult struct {
	PageNumber int      `json:"pageNumber"`
	Paragraphs []string `json:"paragraphs"`
	Records    []Record `json:"records,omitempty"`
}

// DocumentResult is the ordered set of page results for one run.
type DocumentResult struct {
	Pages []PageResult `json:"pages"`
}

// Append adds a page result at the end of the document.
func (d *DocumentResult) Append(page PageResult) {
	d.Pages = append(d.Pages, page)
}

// ParagraphCount returns the number of paragraphs across all pages.
func (d *DocumentResult) ParagraphCount() int {
	var n int
	for _, p := range d.Pages {
		n += len(p.Paragraphs)
	}
	return n
}

// Records flattens the per-page records page-major, keeping paragraph order
// within each page.
func (d *DocumentResult) Records() []Record {
	var out []Record
	for _, p := range d.Pages {
		out = append(out, p.Records...)
	}
	return out
}
