package segment

import (
	"testing"

	"eobtools/internal/heuristics"
)

func TestScore_EmptyTextScoresZero(t *testing.T) {
	s := NewScorer(heuristics.Default())
	for _, text := range []string{"", "   ", "\n\t"} {
		if got := s.Score(text); got != 0 {
			t.Errorf("Score(%q): expected 0, got %v", text, got)
		}
	}
}

func TestScore_StaysInRange(t *testing.T) {
	s := NewScorer(heuristics.Default())
	texts := []string{
		"THIS IS NOT A BILL",
		"Total Claim Cost $406.60",
		"Call 1-800-555-1234 with questions",
		"ordinary body text with nothing notable",
		"Total amount billed deductible coinsurance copay claim payment balance benefit $12.00",
	}
	for _, text := range texts {
		got := s.Score(text)
		if got < 0 || got > 1 {
			t.Errorf("Score(%q) = %v, outside [0,1]", text, got)
		}
	}
}

func TestScore_RanksKeyContentAboveFiller(t *testing.T) {
	s := NewScorer(heuristics.Default())

	total := s.Score("Total Claim Cost $406.60")
	filler := s.Score("see reverse side for details")
	if total <= filler {
		t.Errorf("expected financial line (%v) to outrank filler (%v)", total, filler)
	}

	notABill := s.Score("THIS IS NOT A BILL")
	if notABill <= filler {
		t.Errorf("expected disclaimer (%v) to outrank filler (%v)", notABill, filler)
	}
}

func TestScore_ClampsStackedSignals(t *testing.T) {
	s := NewScorer(heuristics.Default())
	stacked := "Total amount billed deductible coinsurance copay claim payment balance benefit $12.00 call 800-555-1234"
	if got := s.Score(stacked); got != 1 {
		t.Errorf("expected stacked signals to clamp at 1, got %v", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer(heuristics.Default())
	const text = "Plan Paid $350.00"
	first := s.Score(text)
	for i := 0; i < 5; i++ {
		if got := s.Score(text); got != first {
			t.Fatalf("Score not deterministic: %v then %v", first, got)
		}
	}
}

func TestIsHeading(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"CLAIM SUMMARY", true},
		{"THIS IS NOT A BILL", true},
		{"Claim Summary", false},
		{"ABC", false},       // too short
		{"$1,234.00", false}, // no letters
		{"EOB 2024", true},
	}
	for _, c := range cases {
		if got := isHeading(c.text); got != c.want {
			t.Errorf("isHeading(%q): expected %v, got %v", c.text, c.want, got)
		}
	}
}
