package store

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to QuoteStatus }{
		{QuoteStatusPending, QuoteStatusConfirmed},
		{QuoteStatusPending, QuoteStatusCancelled},
		{QuoteStatusConfirmed, QuoteStatusCompleted},
		{QuoteStatusConfirmed, QuoteStatusCancelled},
		{QuoteStatusCancelled, QuoteStatusPending}, // reactivation
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be permitted", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to QuoteStatus }{
		{QuoteStatusPending, QuoteStatusCompleted},
		{QuoteStatusCompleted, QuoteStatusCancelled},
		{QuoteStatusCompleted, QuoteStatusPending},
		{QuoteStatusCancelled, QuoteStatusConfirmed},
		{QuoteStatusCancelled, QuoteStatusCompleted},
		{QuoteStatusConfirmed, QuoteStatusPending},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestParseQuoteStatus(t *testing.T) {
	if status, ok := ParseQuoteStatus("confirmed"); !ok || status != QuoteStatusConfirmed {
		t.Fatalf("expected confirmed to parse, got %q ok=%v", status, ok)
	}
	if _, ok := ParseQuoteStatus("archived"); ok {
		t.Fatal("unknown status must not parse")
	}
	if _, ok := ParseQuoteStatus(""); ok {
		t.Fatal("empty status must not parse")
	}
}

func TestParseFormType(t *testing.T) {
	for _, raw := range []string{"house", "office", "post-construction", "contact"} {
		if _, ok := ParseFormType(raw); !ok {
			t.Fatalf("expected form type %q to parse", raw)
		}
	}
	if _, ok := ParseFormType("apartment"); ok {
		t.Fatal("unknown form type must not parse")
	}
}
