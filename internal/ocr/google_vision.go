package ocr

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"eobtools/internal/logger"
	"eobtools/pkg/models"
)

const (
	// MaxFileSizeBytes is the maximum file size for synchronous processing (20MB)
	MaxFileSizeBytes = 20 * 1024 * 1024

	// MaxPagesSync is the maximum number of pages for synchronous processing
	MaxPagesSync = 5
)

// GoogleVisionService implements Service using Google Cloud Vision API.
type GoogleVisionService struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewGoogleVisionService creates an OCR service with credentials from the
// environment. It expects either GOOGLE_APPLICATION_CREDENTIALS path or
// GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionService(ctx context.Context) (Service, error) {
	const op = "NewGoogleVisionService"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionService{
		client: client,
		log:    logger.WithComponent("ocr"),
	}, nil
}

// NewGoogleVisionServiceWithClient creates an OCR service with an explicit
// client (for testing).
func NewGoogleVisionServiceWithClient(client *vision.ImageAnnotatorClient) Service {
	return &GoogleVisionService{
		client: client,
		log:    logger.WithComponent("ocr"),
	}
}

// ProcessPDF extracts text from a PDF document.
func (g *GoogleVisionService) ProcessPDF(ctx context.Context, pdfData io.Reader) (string, error) {
	const op = "ProcessPDF"

	fileResp, err := g.annotate(ctx, op, pdfData, nil)
	if err != nil {
		return "", err
	}

	var allText strings.Builder
	for pageIdx, page := range fileResp.Responses {
		if page.Error != nil {
			return "", WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("error processing page %d: %s", pageIdx+1, page.Error.Message))
		}
		if page.FullTextAnnotation == nil {
			continue
		}
		if pageIdx > 0 {
			allText.WriteString("\f")
		}
		allText.WriteString(page.FullTextAnnotation.Text)
	}

	text := allText.String()
	if strings.TrimSpace(text) == "" {
		return "", WrapOCRError(op, ErrEmptyDocument, "")
	}
	return text, nil
}

// PageWords extracts word-level TextItems for one page of a scanned PDF.
// Vision returns bounding boxes for PDFs as vertices in page coordinates (or
// normalized ones, depending on the input); both are converted to top-down
// page pixels at the given scale.
func (g *GoogleVisionService) PageWords(ctx context.Context, pdfData io.Reader, pageNum int, scale float64) ([]models.TextItem, error) {
	const op = "PageWords"

	if pageNum < 1 {
		return nil, WrapOCRError(op, ErrPageNotFound, fmt.Sprintf("page %d", pageNum))
	}
	if scale <= 0 {
		scale = 1.5
	}

	fileResp, err := g.annotate(ctx, op, pdfData, []int32{int32(pageNum)})
	if err != nil {
		return nil, err
	}
	if len(fileResp.Responses) == 0 {
		return nil, WrapOCRError(op, ErrPageNotFound, fmt.Sprintf("page %d", pageNum))
	}

	resp := fileResp.Responses[0]
	if resp.Error != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", resp.Error.Message))
	}
	annotation := resp.GetFullTextAnnotation()
	if annotation == nil || len(annotation.GetPages()) == 0 {
		return nil, WrapOCRError(op, ErrEmptyDocument, fmt.Sprintf("page %d", pageNum))
	}

	page := annotation.GetPages()[0]
	pageW, pageH := float64(page.GetWidth()), float64(page.GetHeight())

	var items []models.TextItem
	for _, block := range page.GetBlocks() {
		for _, paragraph := range block.GetParagraphs() {
			for _, word := range paragraph.GetWords() {
				text := wordText(word)
				if text == "" {
					continue
				}
				box, ok := wordBox(word.GetBoundingBox(), pageW, pageH, scale)
				if !ok {
					continue
				}
				items = append(items, models.TextItem{
					Text:   text,
					X:      box.X,
					Y:      box.Y,
					Width:  box.Width,
					Height: box.Height,
				})
			}
		}
	}

	g.log.Debug().
		Int("page", pageNum).
		Int("words", len(items)).
		Float64("scale", scale).
		Msg("Synthesized text items from OCR word boxes")

	return items, nil
}

// annotate runs synchronous document text detection over inline PDF bytes.
func (g *GoogleVisionService) annotate(ctx context.Context, op string, pdfData io.Reader, pages []int32) (*visionpb.AnnotateFileResponse, error) {
	pdfBytes, err := io.ReadAll(pdfData)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to read PDF data")
	}
	if len(pdfBytes) > MaxFileSizeBytes {
		return nil, WrapOCRError(op, ErrPDFTooLarge, fmt.Sprintf("file size: %d bytes", len(pdfBytes)))
	}
	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return nil, WrapOCRError(op, ErrInvalidPDF, "missing PDF header")
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  pdfBytes,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				Pages: pages,
			},
		},
	}

	resp, err := g.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, WrapOCRError(op, ErrOCRFailed, "no response from Vision API")
	}

	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}
	if len(fileResp.Responses) > MaxPagesSync {
		return nil, WrapOCRError(op, ErrTooManyPages, fmt.Sprintf("document has %d pages", len(fileResp.Responses)))
	}
	return fileResp, nil
}

// wordText concatenates a word's symbols.
func wordText(word *visionpb.Word) string {
	var b strings.Builder
	for _, symbol := range word.GetSymbols() {
		b.WriteString(symbol.GetText())
	}
	return strings.TrimSpace(b.String())
}

// wordBox converts a word bounding polygon to a top-down rectangle in page
// pixels. Vision's y axis is already top-down.
func wordBox(poly *visionpb.BoundingPoly, pageW, pageH, scale float64) (models.BoundingBox, bool) {
	if poly == nil {
		return models.BoundingBox{}, false
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
	if len(xs) < 2 {
		return models.BoundingBox{}, false
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
	return models.BoundingBox{
		X:      minX * scale,
		Y:      minY * scale,
		Width:  (maxX - minX) * scale,
		Height: (maxY - minY) * scale,
	}, true
}

// Close closes the underlying Vision client.
func (g *GoogleVisionService) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
