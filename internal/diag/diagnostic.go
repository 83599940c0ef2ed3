package diag

import "polyc/internal/source"

// Severity of a diagnostic. Only errors make the reporting goal fail.
type Severity uint8

const (
	SevInfo Severity = iota // reports such as pass timings
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// FailsGoal reports whether a diagnostic of this severity fails the pass
// that reported it.
func (s Severity) FailsGoal() bool { return s >= SevError }

type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the text under Span with NewText. A non-empty OldText
// must match the current text for the edit to apply.
type FixEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
