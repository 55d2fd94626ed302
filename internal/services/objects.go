package services

import (
	"fmt"
	"path"
	"sort"

	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/models"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/pipeline"
)

// Object layout in the artifacts bucket, per document:
//
//	<documentId>/images/page_NN.png
//	<documentId>/pages/page_NN.json
//	<documentId>/word/Output.docx
//	<documentId>/excel/Output.xlsx
const pagesDirName = "pages"

func imagesPrefix(documentID string) string {
	return path.Join(documentID, pipeline.ImagesDirName)
}

func pageImageObject(documentID string, pageNumber int) string {
	return path.Join(imagesPrefix(documentID), pipeline.PageImageName(pageNumber))
}

func pagesPrefix(documentID string) string {
	return path.Join(documentID, pagesDirName) + "/"
}

func pageResultObject(documentID string, pageNumber int) string {
	return path.Join(documentID, pagesDirName, fmt.Sprintf("page_%02d.json", pageNumber))
}

func documentObject(documentID string) string {
	return path.Join(documentID, pipeline.WordDirName, pipeline.DocumentName)
}

func tableObject(documentID string) string {
	return path.Join(documentID, pipeline.ExcelDirName, pipeline.TableName)
}

// AssemblePages orders page results by page number and checks that they cover
// pages 1..n without gaps or duplicates. When pageCount is positive, n must
// equal it. An empty set is an error.
func AssemblePages(pages []models.PageResult, pageCount int) (*models.DocumentResult, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page results found")
	}
	sorted := append([]models.PageResult(nil), pages...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PageNumber < sorted[j].PageNumber })

	if pageCount > 0 && len(sorted) != pageCount {
		return nil, fmt.Errorf("expected %d page results, found %d", pageCount, len(sorted))
	}

	doc := &models.DocumentResult{}
	for i, page := range sorted {
		if page.PageNumber != i+1 {
			return nil, fmt.Errorf("page results are not contiguous: position %d holds page %d", i+1, page.PageNumber)
		}
		doc.Append(page)
	}
	return doc, nil
}
