// Package docintel provides EOB layout analysis using Google Document AI.
//
// The package consumes a Document AI layout/form processor as a black box and
// converts its response into the shared Layout model: pages, tables,
// key-value pairs and paragraphs, each with a bounding box and an EOB section
// bucket.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT: Google Cloud project ID
//   - GOOGLE_CLOUD_LOCATION: Processing location (e.g., "us", "eu")
//   - DOCUMENT_AI_PROCESSOR_ID: Document AI processor ID
//
// Document AI API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Processing time: typically 5-15 seconds per document
//   - Quota limits apply (check Google Cloud Console)
package docintel

import (
	"context"
	"io"
	"time"

	"eobtools/pkg/models"
)

// LayoutProcessor defines the interface for document layout analysis.
type LayoutProcessor interface {
	// ProcessLayout extracts pages, tables, key-value pairs and paragraphs
	// with bounding regions from a PDF document.
	ProcessLayout(ctx context.Context, pdfData io.Reader) (*models.Layout, error)

	// Close releases the underlying client connection.
	Close() error
}

// ProcessorConfig holds configuration for Google Document AI processing.
type ProcessorConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu"). Should match
	// where the processor is created.
	Location string

	// ProcessorID is the Document AI processor ID.
	ProcessorID string

	// ProcessorVersion specifies a particular processor version. If empty,
	// uses the default version.
	ProcessorVersion string

	// Timeout is the maximum time to wait for processing. Default: 60
	// seconds.
	Timeout time.Duration
}

// DefaultConfig returns a ProcessorConfig with sensible defaults.
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		Location: "us",
		Timeout:  60 * time.Second,
	}
}
