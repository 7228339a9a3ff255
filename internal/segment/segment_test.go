package segment

import (
	"testing"

	"eobtools/internal/heuristics"
	"eobtools/pkg/models"
)

func TestSegment_MergesAdjacentItems(t *testing.T) {
	s := NewSegmenter(heuristics.Default())
	items := []models.TextItem{
		{Text: "Amount", X: 10, Y: 10, Width: 50, Height: 12},
		{Text: "Billed", X: 62, Y: 10, Width: 40, Height: 12},
	}

	blocks := s.Segment(items)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Text != "Amount Billed" {
		t.Errorf("expected merged text %q, got %q", "Amount Billed", b.Text)
	}
	if b.X != 10 || b.Y != 10 {
		t.Errorf("expected block origin (10,10), got (%v,%v)", b.X, b.Y)
	}
	if b.Width != 92 {
		t.Errorf("expected union width 92, got %v", b.Width)
	}
}

func TestSegment_SplitsOnVerticalGap(t *testing.T) {
	s := NewSegmenter(heuristics.Default())
	items := []models.TextItem{
		{Text: "Claim Summary", X: 10, Y: 10, Width: 120, Height: 12},
		{Text: "Customer Service", X: 10, Y: 200, Width: 140, Height: 12},
	}

	blocks := s.Segment(items)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Text != "Claim Summary" || blocks[1].Text != "Customer Service" {
		t.Errorf("unexpected block texts: %q, %q", blocks[0].Text, blocks[1].Text)
	}
}

func TestSegment_SplitsOnHorizontalGap(t *testing.T) {
	s := NewSegmenter(heuristics.Default())
	// Gap of 100 between items of height 12 exceeds 12 * 3.
	items := []models.TextItem{
		{Text: "Provider", X: 10, Y: 50, Width: 60, Height: 12},
		{Text: "$406.60", X: 170, Y: 50, Width: 55, Height: 12},
	}

	blocks := s.Segment(items)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
}

func TestSegment_SortsBeforeGrouping(t *testing.T) {
	s := NewSegmenter(heuristics.Default())
	// Same two lines as above, delivered out of reading order.
	items := []models.TextItem{
		{Text: "Service", X: 10, Y: 300, Width: 60, Height: 12},
		{Text: "Patient Name", X: 10, Y: 10, Width: 100, Height: 12},
		{Text: "Details", X: 74, Y: 300, Width: 55, Height: 12},
	}

	blocks := s.Segment(items)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Text != "Patient Name" {
		t.Errorf("expected topmost block first, got %q", blocks[0].Text)
	}
	if blocks[1].Text != "Service Details" {
		t.Errorf("expected same-line items merged, got %q", blocks[1].Text)
	}
}

func TestSegment_EmptyAndBlankInput(t *testing.T) {
	s := NewSegmenter(heuristics.Default())

	if got := s.Segment(nil); len(got) != 0 {
		t.Errorf("expected no blocks for nil input, got %d", len(got))
	}
	blank := []models.TextItem{
		{Text: "   ", X: 10, Y: 10, Width: 20, Height: 12},
		{Text: "", X: 40, Y: 10, Width: 0, Height: 12},
	}
	if got := s.Segment(blank); len(got) != 0 {
		t.Errorf("expected no blocks for blank input, got %d", len(got))
	}
}

func TestSegment_AssignsUniqueIDs(t *testing.T) {
	s := NewSegmenter(heuristics.Default())
	items := []models.TextItem{
		{Text: "Claim details", X: 10, Y: 10, Width: 100, Height: 12},
		{Text: "Claim details", X: 10, Y: 200, Width: 100, Height: 12},
	}

	blocks := s.Segment(items)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].ID == "" || blocks[1].ID == "" {
		t.Fatal("expected non-empty block IDs")
	}
	if blocks[0].ID == blocks[1].ID {
		t.Errorf("expected distinct IDs for identical text, both were %q", blocks[0].ID)
	}
}

func TestAssignSteps_OrdersByImportanceThenPosition(t *testing.T) {
	blocks := []models.TextBlock{
		{Text: "footer", Y: 700, Importance: 0.2},
		{Text: "total", Y: 400, Importance: 0.9},
		{Text: "header", Y: 10, Importance: 0.2},
	}

	ordered := AssignSteps(blocks)
	if len(ordered) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(ordered))
	}
	wantTexts := []string{"total", "header", "footer"}
	for i, want := range wantTexts {
		if ordered[i].Text != want {
			t.Errorf("position %d: expected %q, got %q", i, want, ordered[i].Text)
		}
		if ordered[i].Step != i+1 {
			t.Errorf("position %d: expected step %d, got %d", i, i+1, ordered[i].Step)
		}
	}
	// Input order is preserved.
	if blocks[0].Text != "footer" || blocks[0].Step != 0 {
		t.Error("expected input slice to be unmodified")
	}
}
