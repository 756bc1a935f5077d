// ABOUTME: Pure display derivations for job cards
// ABOUTME: Maps staleness to urgency, status to card class, and notes to icons
package models

import "strings"

// UrgencyForStaleness buckets days-since into an urgency level.
func UrgencyForStaleness(days int) string {
	switch {
	case days >= 14:
		return UrgencyCritical
	case days >= 7:
		return UrgencyHigh
	case days >= 3:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// DeriveUrgency computes display urgency from contact recency. Quote-phase
// jobs age against the quote sent date, everything else against last contact.
func (j *Job) DeriveUrgency() string {
	if PhaseForStatus(j.Status) == PhaseQuote && j.DaysSinceQuote > 0 {
		return UrgencyForStaleness(j.DaysSinceQuote)
	}
	return UrgencyForStaleness(j.DaysSinceContact)
}

// CardClass returns the background/border class for a job card.
// Lifecycle phase takes visual precedence over urgency: a won job is green
// no matter how stale it is. Urgency only drives the ring (UrgencyRing).
func CardClass(status string) string {
	switch status {
	case StatusWon, StatusProduction, StatusScheduling:
		return "card-work-order"
	case StatusCompleted:
		return "card-completed"
	default:
		if PhaseForStatus(status) == PhaseQuote {
			return "card-quote"
		}
		return "card-work-order"
	}
}

// UrgencyRing returns the secondary ring class for an urgency level.
func UrgencyRing(urgency string) string {
	switch urgency {
	case UrgencyCritical:
		return "ring-critical"
	case UrgencyHigh:
		return "ring-high"
	case UrgencyMedium:
		return "ring-medium"
	default:
		return "ring-low"
	}
}

// Note kind constants used for history icons.
const (
	NoteKindEmail   = "email"
	NoteKindSMS     = "sms"
	NoteKindCall    = "call"
	NoteKindGeneric = "note"
)

// NoteKind classifies a note by entry method or type for icon display.
// Case-insensitive prefix match, first match wins in email > sms > call
// priority order; anything unrecognized is a plain note.
func NoteKind(entryMethod, noteType string) string {
	method := strings.ToLower(entryMethod)
	kind := strings.ToLower(noteType)

	hasPrefix := func(prefix string) bool {
		return strings.HasPrefix(method, prefix) || strings.HasPrefix(kind, prefix)
	}

	switch {
	case hasPrefix("email"):
		return NoteKindEmail
	case hasPrefix("sms"):
		return NoteKindSMS
	case hasPrefix("call"), hasPrefix("phone"):
		return NoteKindCall
	default:
		return NoteKindGeneric
	}
}

// Kind returns the icon classification for this note.
func (n *JobNote) Kind() string {
	return NoteKind(n.EntryMethod, n.NoteType)
}
