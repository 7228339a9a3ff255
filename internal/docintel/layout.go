package docintel

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"eobtools/internal/logger"
	"eobtools/internal/segment"
	"eobtools/pkg/models"
)

// MaxDocumentSizeBytes is the maximum document size for synchronous
// processing (20MB).
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// DocumentAILayoutProcessor implements LayoutProcessor using Google Document
// AI.
type DocumentAILayoutProcessor struct {
	client *documentai.DocumentProcessorClient
	config ProcessorConfig
	log    zerolog.Logger
}

// NewDocumentAILayoutProcessor creates a processor with credentials from the
// environment.
func NewDocumentAILayoutProcessor(ctx context.Context) (LayoutProcessor, error) {
	const op = "NewDocumentAILayoutProcessor"

	config := ProcessorConfig{
		ProjectID:        getEnvVar("GOOGLE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		Location:         getEnvVar("GOOGLE_LOCATION", "GOOGLE_CLOUD_LOCATION"),
		ProcessorID:      getEnvVar("GOOGLE_PROCESSOR_ID", "DOCUMENT_AI_PROCESSOR_ID"),
		ProcessorVersion: os.Getenv("DOCUMENT_AI_PROCESSOR_VERSION"),
		Timeout:          60 * time.Second,
	}

	if config.ProjectID == "" {
		return nil, WrapLayoutError(op, ErrInvalidConfiguration, "GOOGLE_PROJECT_ID or GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapLayoutError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapLayoutError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapLayoutError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAILayoutProcessor{
		client: client,
		config: config,
		log:    logger.WithComponent("docintel"),
	}, nil
}

// NewDocumentAILayoutProcessorWithConfig creates a processor with an explicit
// config and client (for testing).
func NewDocumentAILayoutProcessorWithConfig(config ProcessorConfig, client *documentai.DocumentProcessorClient) LayoutProcessor {
	return &DocumentAILayoutProcessor{
		client: client,
		config: config,
		log:    logger.WithComponent("docintel"),
	}
}

// ProcessLayout sends the PDF to the layout processor and converts the
// response into the shared Layout model.
func (p *DocumentAILayoutProcessor) ProcessLayout(ctx context.Context, pdfData io.Reader) (*models.Layout, error) {
	const op = "ProcessLayout"

	pdfBytes, err := io.ReadAll(pdfData)
	if err != nil {
		return nil, WrapLayoutError(op, err, "failed to read PDF data")
	}
	if len(pdfBytes) > MaxDocumentSizeBytes {
		return nil, WrapLayoutError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(pdfBytes)))
	}
	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return nil, WrapLayoutError(op, ErrInvalidPDF, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: p.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
	}

	resp, err := p.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, p.handleProcessingError(op, err)
	}
	if resp.Document == nil {
		return nil, WrapLayoutError(op, ErrProcessingFailed, "no document in response")
	}

	layout := p.extractLayout(resp.Document)

	p.log.Info().
		Int("pages", len(layout.Pages)).
		Int("tables", len(layout.Tables)).
		Int("key_value_pairs", len(layout.KeyValuePairs)).
		Int("paragraphs", len(layout.Paragraphs)).
		Msg("Document AI layout extraction completed")

	return layout, nil
}

// processorName constructs the full processor resource name.
func (p *DocumentAILayoutProcessor) processorName() string {
	if p.config.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			p.config.ProjectID, p.config.Location, p.config.ProcessorID, p.config.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		p.config.ProjectID, p.config.Location, p.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to sentinel errors.
func (p *DocumentAILayoutProcessor) handleProcessingError(op string, err error) error {
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return WrapLayoutError(op, ErrInvalidCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "QUOTA_EXCEEDED"):
		return WrapLayoutError(op, ErrQuotaExceeded, "Document AI API quota exceeded")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapLayoutError(op, ErrProcessorNotFound, fmt.Sprintf("processor not found: %s", p.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return WrapLayoutError(op, ErrInvalidPDF, "document format not supported or corrupted")
	case strings.Contains(errStr, "DeadlineExceeded") || strings.Contains(errStr, "context deadline exceeded"):
		return WrapLayoutError(op, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "Canceled") || strings.Contains(errStr, "context canceled"):
		return WrapLayoutError(op, ErrContextCanceled, "processing was canceled")
	default:
		return WrapLayoutError(op, ErrProcessingFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// extractLayout converts a Document AI document into the shared Layout model.
// Tables default to serviceDetails and form fields to patientInfo when no
// section pattern matches; paragraphs stay unclassified.
func (p *DocumentAILayoutProcessor) extractLayout(doc *documentaipb.Document) *models.Layout {
	layout := &models.Layout{}

	for _, page := range doc.GetPages() {
		pageNum := int(page.GetPageNumber())
		var pageW, pageH float64
		if dim := page.GetDimension(); dim != nil {
			pageW, pageH = float64(dim.GetWidth()), float64(dim.GetHeight())
			layout.Pages = append(layout.Pages, models.LayoutPage{
				Number: pageNum,
				Width:  pageW,
				Height: pageH,
				Unit:   dim.GetUnit(),
			})
		} else {
			layout.Pages = append(layout.Pages, models.LayoutPage{Number: pageNum})
		}

		for _, table := range page.GetTables() {
			t := models.LayoutTable{
				PageNumber: pageNum,
				HeaderRows: p.tableRows(doc, table.GetHeaderRows()),
				BodyRows:   p.tableRows(doc, table.GetBodyRows()),
				Box:        boundingBox(table.GetLayout().GetBoundingPoly(), pageW, pageH),
			}
			t.Section = segment.ClassifyOrDefault(flattenRows(t.HeaderRows)+" "+flattenRows(t.BodyRows), models.SectionServiceDetails)
			layout.Tables = append(layout.Tables, t)
		}

		for _, field := range page.GetFormFields() {
			key := anchorText(doc, field.GetFieldName())
			value := anchorText(doc, field.GetFieldValue())
			kv := models.KeyValuePair{
				PageNumber: pageNum,
				Key:        strings.TrimSpace(key),
				Value:      strings.TrimSpace(value),
				Confidence: field.GetFieldName().GetConfidence(),
				Box:        boundingBox(field.GetFieldName().GetBoundingPoly(), pageW, pageH),
			}
			kv.Section = segment.ClassifyOrDefault(kv.Key+" "+kv.Value, models.SectionPatientInfo)
			layout.KeyValuePairs = append(layout.KeyValuePairs, kv)
		}

		for _, para := range page.GetParagraphs() {
			text := strings.TrimSpace(anchorText(doc, para.GetLayout()))
			if text == "" {
				continue
			}
			pg := models.Paragraph{
				PageNumber: pageNum,
				Text:       text,
				Box:        boundingBox(para.GetLayout().GetBoundingPoly(), pageW, pageH),
			}
			if key, ok := segment.Classify(text); ok {
				pg.Section = key
			}
			layout.Paragraphs = append(layout.Paragraphs, pg)
		}
	}

	return layout
}

// tableRows resolves cell text for a set of table rows.
func (p *DocumentAILayoutProcessor) tableRows(doc *documentaipb.Document, rows []*documentaipb.Document_Page_Table_TableRow) [][]string {
	var out [][]string
	for _, row := range rows {
		var cells []string
		for _, cell := range row.GetCells() {
			cells = append(cells, strings.TrimSpace(anchorText(doc, cell.GetLayout())))
		}
		out = append(out, cells)
	}
	return out
}

// anchorText resolves a layout's text anchor against the document's full
// text.
func anchorText(doc *documentaipb.Document, layout *documentaipb.Document_Page_Layout) string {
	anchor := layout.GetTextAnchor()
	if anchor == nil {
		return ""
	}
	if anchor.GetContent() != "" {
		return anchor.GetContent()
	}
	text := doc.GetText()
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start, end := seg.GetStartIndex(), seg.GetEndIndex()
		if start < 0 || end > int64(len(text)) || start >= end {
			continue
		}
		b.WriteString(text[start:end])
	}
	return b.String()
}

// boundingBox converts a bounding polygon to an axis-aligned rectangle,
// preferring normalized vertices scaled by the page dimension.
func boundingBox(poly *documentaipb.BoundingPoly, pageW, pageH float64) models.BoundingBox {
	if poly == nil {
		return models.BoundingBox{}
	}

	var xs, ys []float64
	if nv := poly.GetNormalizedVertices(); len(nv) > 0 && pageW > 0 && pageH > 0 {
		for _, v := range nv {
			xs = append(xs, float64(v.GetX())*pageW)
			ys = append(ys, float64(v.GetY())*pageH)
		}
	} else {
		for _, v := range poly.GetVertices() {
			xs = append(xs, float64(v.GetX()))
			ys = append(ys, float64(v.GetY()))
		}
	}
	if len(xs) == 0 {
		return models.BoundingBox{}
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < len(xs); i++ {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	return models.BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func flattenRows(rows [][]string) string {
	var parts []string
	for _, row := range rows {
		parts = append(parts, strings.Join(row, " "))
	}
	return strings.Join(parts, " ")
}

// getEnvVar tries multiple environment variable names and returns the first
// non-empty value.
func getEnvVar(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}

// Close closes the underlying Document AI client.
func (p *DocumentAILayoutProcessor) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
