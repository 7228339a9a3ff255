package ocr_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"eobtools/internal/ocr"
)

// Example demonstrates basic usage of the OCR service.
func Example() {
	// Create context with timeout for OCR processing
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create service - credentials handled internally from environment
	ocrService, err := ocr.NewGoogleVisionService(ctx)
	if err != nil {
		log.Fatalf("Failed to create OCR service: %v", err)
	}
	defer ocrService.Close()

	// Open PDF file
	pdfFile, err := os.Open("scanned_eob.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	// Extract the full text, pages separated by form feeds
	text, err := ocrService.ProcessPDF(ctx, pdfFile)
	if err != nil {
		log.Fatalf("Failed to process PDF: %v", err)
	}

	fmt.Printf("Extracted text (%d characters):\n%s\n", len(text), text)
}

// Example_pageWords demonstrates extracting word boxes for a single page, the
// shape the segmentation pipeline consumes when a scanned page has no
// embedded text layer.
func Example_pageWords() {
	ctx := context.Background()

	ocrService, err := ocr.NewGoogleVisionService(ctx)
	if err != nil {
		log.Fatalf("Failed to create OCR service: %v", err)
	}
	defer ocrService.Close()

	pdfFile, err := os.Open("scanned_eob.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	// Word boxes for page 1 at the presentation viewport scale
	items, err := ocrService.PageWords(ctx, pdfFile, 1, 1.5)
	if err != nil {
		log.Fatalf("Failed to extract word boxes: %v", err)
	}

	for _, item := range items {
		fmt.Printf("%q at (%.0f, %.0f) size %.0fx%.0f\n",
			item.Text, item.X, item.Y, item.Width, item.Height)
	}
}
