package diagfmt

import (
	"strings"

	"polyc/internal/diag"
	"polyc/internal/source"
)

// editPreview is the block of whole lines an edit touches, before and after
// it is applied. first is the number of the block's first line.
type editPreview struct {
	first  uint32
	before []string
	after  []string
}

// previewEdit applies e to the lines it covers. Edits that --fix would
// refuse (span outside the file, OldText no longer matching) get no preview.
func previewEdit(fs *source.FileSet, e diag.FixEdit) (editPreview, bool) {
	if !located(fs, e.Span) {
		return editPreview{}, false
	}
	f := fs.Get(e.Span.File)
	if e.Span.Start > e.Span.End || int(e.Span.End) > len(f.Content) {
		return editPreview{}, false
	}
	if e.OldText != "" && string(f.Content[e.Span.Start:e.Span.End]) != e.OldText {
		return editPreview{}, false
	}

	start, end := fs.Resolve(e.Span)
	pv := editPreview{first: start.Line}
	for ln := start.Line; ln <= max(end.Line, start.Line); ln++ {
		pv.before = append(pv.before, f.Line(ln))
	}

	// block начинается с начала строки start.Line
	block := strings.Join(pv.before, "\n")
	from := int(start.Col) - 1
	to := from + int(e.Span.End-e.Span.Start)
	to = min(to, len(block))
	pv.after = strings.Split(block[:from]+e.NewText+block[to:], "\n")
	return pv, true
}
