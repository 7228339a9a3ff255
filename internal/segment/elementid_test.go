package segment

import "testing"

func TestElementID_RuleOrder(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", "empty"},
		{"   ", "empty"},
		{"1. Office visit copay applies", "item-1"},
		{"2) Lab work", "item-2"},
		{"CLAIM SUMMARY", "heading-claim-summary"},
		{"THIS IS NOT A BILL", "heading-this-is-not-a"},
		{"$406.60 billed to plan", "amount-406-60-billed-to"},
		{"Service rendered 03/14/2024", "service-date"},
		{"Call (800) 555-1234", "contact-info"},
		{"support@insurer.example.com for help", "contact-info"},
		{"Office visit   $120.00   $95.00", "amount-office-visit-120-00"},
		{"an ordinary sentence of text", "content-an-ordinary-sentence"},
	}
	for _, c := range cases {
		if got := ElementID(c.text); got != c.want {
			t.Errorf("ElementID(%q): expected %q, got %q", c.text, c.want, got)
		}
	}
}

func TestSlug(t *testing.T) {
	if got := slug("Total Claim Cost For March", 3); got != "total-claim-cost" {
		t.Errorf("expected %q, got %q", "total-claim-cost", got)
	}
	if got := slug("$$ %%", 3); got != "block" {
		t.Errorf("expected fallback %q, got %q", "block", got)
	}
}
