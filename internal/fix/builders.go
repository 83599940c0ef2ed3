package fix

import (
	"polyc/internal/diag"
	"polyc/internal/source"
)

// ReplaceSpan creates fix that replaces the text under sp. A non-empty guard
// must match the current text.
func ReplaceSpan(title string, sp source.Span, newText, guard string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: sp, NewText: newText, OldText: guard}},
	}
}

// InsertText creates fix that inserts text at at.Start.
func InsertText(title string, at source.Span, text string) diag.Fix {
	at.End = at.Start
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: at, NewText: text}},
	}
}

// DeleteSpan creates fix that removes the text under sp.
func DeleteSpan(title string, sp source.Span, guard string) diag.Fix {
	return ReplaceSpan(title, sp, "", guard)
}
