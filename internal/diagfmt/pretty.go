package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"polyc/internal/diag"
	"polyc/internal/source"
)

// PrettyOpts configures the human readable form. Context is the number of
// source lines shown around the primary line.
type PrettyOpts struct {
	Color       bool
	Context     int8
	PathMode    PathMode
	Width       uint8 // 0 - без ограничения
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

type palette struct {
	err, warn, info, code, loc, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		loc:    mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := &printer{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for _, d := range bag.Items() {
		p.diagnostic(&d)
	}
}

func (p *printer) location(sp source.Span) string {
	f := p.fs.Get(sp.File)
	start, _ := p.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(p.fs, f, p.opts.PathMode), start.Line, start.Col)
}

func (p *printer) diagnostic(d *diag.Diagnostic) {
	head := p.pal.severity(d.Severity).Sprint(d.Severity.String()) + " " + p.pal.code.Sprint(d.Code.ID()) + ": " + d.Message
	if located(p.fs, d.Primary) {
		fmt.Fprintf(p.w, "%s: %s\n", p.pal.loc.Sprint(p.location(d.Primary)), head)
		p.snippet(d.Primary)
	} else {
		fmt.Fprintln(p.w, head)
	}

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			if located(p.fs, n.Span) {
				fmt.Fprintf(p.w, "  %s %s: %s\n", p.pal.note.Sprint("note:"), p.location(n.Span), n.Msg)
			} else {
				fmt.Fprintf(p.w, "  %s %s\n", p.pal.note.Sprint("note:"), n.Msg)
			}
		}
	}
	if p.opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(p.w, "  fix #%d: %s\n", i+1, fix.Title)
			for _, e := range fix.Edits {
				if !located(p.fs, e.Span) {
					continue
				}
				fmt.Fprintf(p.w, "    %s apply=%q\n", p.location(e.Span), e.NewText)
				if p.opts.ShowPreview {
					p.preview(e)
				}
			}
		}
	}
}

// snippet prints the primary line with opts.Context lines around it and a
// caret line under the span.
func (p *printer) snippet(sp source.Span) {
	f := p.fs.Get(sp.File)
	start, end := p.fs.Resolve(sp)
	first := start.Line
	if ctx := uint32(max(p.opts.Context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + uint32(max(p.opts.Context, 0))
	gw := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		if ln > start.Line && int(ln-2) >= len(f.LineIdx) {
			break
		}
		text := f.Line(ln)
		if p.opts.Width > 0 {
			text = runewidth.Truncate(text, int(p.opts.Width), "…")
		}
		fmt.Fprintf(p.w, "%s %s\n", p.pal.gutter.Sprintf("%*d |", gw, ln), text)
		if ln != start.Line {
			continue
		}
		line := f.Line(ln)
		from := int(start.Col) - 1
		to := len(line)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		from = min(max(from, 0), len(line))
		to = min(max(to, from), len(line))
		fmt.Fprintf(p.w, "%s %s%s\n", p.pal.gutter.Sprintf("%*s |", gw, ""), pad(line[:from]), p.pal.caret.Sprint(underline(line[from:to])))
	}
}

// pad reproduces the visual width of prefix, keeping tabs as tabs.
func pad(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func underline(text string) string {
	w := runewidth.StringWidth(text)
	if w <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", w-1)
}

func (p *printer) preview(e diag.FixEdit) {
	pv, ok := previewEdit(p.fs, e)
	if !ok {
		return
	}
	last := pv.first + uint32(max(len(pv.before), len(pv.after))) - 1 // #nosec G115
	gw := len(fmt.Sprint(last))
	fmt.Fprintln(p.w, "    preview:")
	for i, l := range pv.before {
		fmt.Fprintf(p.w, "      %s - %s\n", p.pal.gutter.Sprintf("%*d", gw, pv.first+uint32(i)), l) // #nosec G115
	}
	for i, l := range pv.after {
		fmt.Fprintf(p.w, "      %s + %s\n", p.pal.gutter.Sprintf("%*d", gw, pv.first+uint32(i)), l) // #nosec G115
	}
}
