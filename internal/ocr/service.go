// Package ocr provides OCR capabilities using Google Cloud Vision API.
//
// Scanned EOBs carry no embedded text layer, so glyph extraction yields
// nothing for them. This package fills the gap: Vision's document text
// detection returns word-level bounding boxes, which are synthesized into the
// same TextItem model the segmenter consumes, so scanned and digital PDFs
// flow through one pipeline.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Cloud Vision API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Maximum pages: 5 pages for synchronous processing
//   - Supported formats: PDF, TIFF
package ocr

import (
	"context"
	"io"

	"eobtools/pkg/models"
)

// Service defines the interface for OCR text extraction.
type Service interface {
	// ProcessPDF extracts text from a PDF document, concatenated in reading
	// order across all pages.
	ProcessPDF(ctx context.Context, pdfData io.Reader) (string, error)

	// PageWords extracts word-level TextItems for one page of a scanned PDF,
	// scaled to page pixels at the given viewport scale. Page numbers are
	// 1-based.
	PageWords(ctx context.Context, pdfData io.Reader, pageNum int, scale float64) ([]models.TextItem, error)

	// Close releases the underlying client connection.
	Close() error
}
