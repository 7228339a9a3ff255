// Package models contains the shared data model for EOB document processing.
//
// Coordinates follow the page-pixel convention: origin at the top-left corner
// of the page, y growing downward, scaled by the extraction viewport scale.
// PDF-native bottom-up coordinates are converted at the extraction boundary
// and never leak past it.
package models

// TextItem is one glyph run from a rendered PDF page. Items are immutable and
// scoped to a single page extraction.
type TextItem struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontName string  `json:"font_name,omitempty"`
}

// TextBlock is a merged group of spatially adjacent TextItems treated as one
// semantic unit. Blocks are never mutated after segmentation except for Step,
// which is assigned after importance-based reordering, and Section, which is
// filled in by classification.
type TextBlock struct {
	ID         string     `json:"id"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Text       string     `json:"text"`
	FontSize   float64    `json:"font_size"`
	FontFamily string     `json:"font_family,omitempty"`
	Importance float64    `json:"importance"`
	Step       int        `json:"step"`
	Section    SectionKey `json:"section,omitempty"`
}

// PageText is the result of extracting one page of a PDF.
type PageText struct {
	PageNumber int        `json:"page_number"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Scale      float64    `json:"scale"`
	Items      []TextItem `json:"items"`
}

// SectionKey identifies one of the six fixed EOB document sections.
type SectionKey string

const (
	SectionDocumentHeader   SectionKey = "documentHeader"
	SectionPatientInfo      SectionKey = "patientInfo"
	SectionServiceDetails   SectionKey = "serviceDetails"
	SectionFinancialSummary SectionKey = "financialSummary"
	SectionPaymentInfo      SectionKey = "paymentInfo"
	SectionNotes            SectionKey = "notes"
)

// BoundingBox is an axis-aligned rectangle in page-pixel coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout is the structured result of Document AI layout processing for one
// document: pages plus the tables, key-value pairs and paragraphs found on
// them, each located by a bounding box and bucketed into an EOB section.
type Layout struct {
	Pages         []LayoutPage   `json:"pages"`
	Tables        []LayoutTable  `json:"tables"`
	KeyValuePairs []KeyValuePair `json:"key_value_pairs"`
	Paragraphs    []Paragraph    `json:"paragraphs"`
}

// LayoutPage describes one page of the analyzed document.
type LayoutPage struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit,omitempty"`
}

// LayoutTable is a table detected on a page, with header and body cell text in
// row-major order.
type LayoutTable struct {
	PageNumber int         `json:"page_number"`
	HeaderRows [][]string  `json:"header_rows"`
	BodyRows   [][]string  `json:"body_rows"`
	Box        BoundingBox `json:"box"`
	Section    SectionKey  `json:"section"`
}

// KeyValuePair is a labeled form field detected on a page.
type KeyValuePair struct {
	PageNumber int         `json:"page_number"`
	Key        string      `json:"key"`
	Value      string      `json:"value"`
	Confidence float32     `json:"confidence"`
	Box        BoundingBox `json:"box"`
	Section    SectionKey  `json:"section"`
}

// Paragraph is a free-text paragraph detected on a page. Section is empty when
// no bucket matched.
type Paragraph struct {
	PageNumber int         `json:"page_number"`
	Text       string      `json:"text"`
	Box        BoundingBox `json:"box"`
	Section    SectionKey  `json:"section,omitempty"`
}

// NarrationStep is one unit of a generated walkthrough script, paired with the
// page text it should highlight. Duration is in seconds.
type NarrationStep struct {
	StepNumber    int     `json:"stepNumber"`
	Title         string  `json:"title"`
	Narrative     string  `json:"narrative"`
	HighlightText string  `json:"highlightText"`
	Duration      float64 `json:"duration"`
}

// Script is a complete narration script for one document page.
type Script struct {
	Title        string          `json:"title"`
	Introduction string          `json:"introduction"`
	Steps        []NarrationStep `json:"steps"`
	Conclusion   string          `json:"conclusion"`
}

// AlignedHighlight is the result of matching one NarrationStep against the
// page's TextBlocks. NeedsReview marks steps for which no block cleared the
// similarity threshold; such highlights carry a synthesized fallback box so
// playback is never missing a step.
type AlignedHighlight struct {
	Step        int        `json:"step"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	Text        string     `json:"text"`
	NeedsReview bool       `json:"needs_review"`
	Section     SectionKey `json:"section,omitempty"`
}
