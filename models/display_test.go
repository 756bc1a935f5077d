// ABOUTME: Tests for display derivations
// ABOUTME: Covers urgency buckets, card classes, and note icon classification
package models

import "testing"

func TestUrgencyForStaleness(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, UrgencyLow},
		{2, UrgencyLow},
		{3, UrgencyMedium},
		{6, UrgencyMedium},
		{7, UrgencyHigh},
		{13, UrgencyHigh},
		{14, UrgencyCritical},
		{45, UrgencyCritical},
	}

	for _, tt := range tests {
		if got := UrgencyForStaleness(tt.days); got != tt.want {
			t.Errorf("UrgencyForStaleness(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestDeriveUrgency(t *testing.T) {
	// Quote-phase job ages against the quote date
	job := &Job{Status: StatusQuoteSent, DaysSinceContact: 1, DaysSinceQuote: 15}
	if got := job.DeriveUrgency(); got != UrgencyCritical {
		t.Errorf("expected critical for 15-day-old quote, got %s", got)
	}

	// Work-order job ages against last contact
	job = &Job{Status: StatusProduction, DaysSinceContact: 8, DaysSinceQuote: 30}
	if got := job.DeriveUrgency(); got != UrgencyHigh {
		t.Errorf("expected high for 8 days since contact, got %s", got)
	}

	// Quote-phase job with no quote sent yet falls back to contact recency
	job = &Job{Status: StatusNewLead, DaysSinceContact: 4}
	if got := job.DeriveUrgency(); got != UrgencyMedium {
		t.Errorf("expected medium, got %s", got)
	}
}

func TestCardClassPhasePrecedence(t *testing.T) {
	// Phase wins over urgency: won jobs get the work-order class even when stale
	if got := CardClass(StatusWon); got != "card-work-order" {
		t.Errorf("expected card-work-order for won, got %s", got)
	}
	if got := CardClass(StatusQuoteSent); got != "card-quote" {
		t.Errorf("expected card-quote for quote_sent, got %s", got)
	}
	if got := CardClass(StatusCompleted); got != "card-completed" {
		t.Errorf("expected card-completed, got %s", got)
	}
}

func TestUrgencyRing(t *testing.T) {
	if got := UrgencyRing(UrgencyCritical); got != "ring-critical" {
		t.Errorf("expected ring-critical, got %s", got)
	}
	if got := UrgencyRing("unknown"); got != "ring-low" {
		t.Errorf("expected ring-low fallback, got %s", got)
	}
}

func TestNoteKind(t *testing.T) {
	tests := []struct {
		method   string
		noteType string
		want     string
	}{
		{"Email", "", NoteKindEmail},
		{"EMAIL (sent)", "", NoteKindEmail},
		{"SMS", "", NoteKindSMS},
		{"sms outbound", "", NoteKindSMS},
		{"Call", "", NoteKindCall},
		{"Phone", "", NoteKindCall},
		{"", "email reply", NoteKindEmail},
		{"", "Call log", NoteKindCall},
		{"", "", NoteKindGeneric},
		{"fax", "memo", NoteKindGeneric},
		// Email wins over a call-typed note per the priority order
		{"call back", "email", NoteKindEmail},
	}

	for _, tt := range tests {
		if got := NoteKind(tt.method, tt.noteType); got != tt.want {
			t.Errorf("NoteKind(%q, %q) = %s, want %s", tt.method, tt.noteType, got, tt.want)
		}
	}
}

func TestJobNoteKind(t *testing.T) {
	note := &JobNote{EntryMethod: "SMS"}
	if note.Kind() != NoteKindSMS {
		t.Errorf("expected sms kind, got %s", note.Kind())
	}
}
