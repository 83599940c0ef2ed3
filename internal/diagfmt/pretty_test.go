package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"polyc/internal/diag"
	"polyc/internal/source"
)

func render(bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) string {
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, opts)
	return buf.String()
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("class A { String s = \"unterminated; }\n")
	fileID := fs.AddVirtual("/home/user/project/src/p/A.jl", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 21, End: 37}, "Unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/p/A.jl:1:22"},
		{"relative", PathModeRelative, "src/p/A.jl:1:22"},
		{"basename", PathModeBasename, "A.jl:1:22"},
		{"auto under base", PathModeAuto, "src/p/A.jl:1:22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			for _, want := range []string{tt.contains, "ERROR", "LEX1002", "Unterminated string literal"} {
				if !strings.Contains(out, want) {
					t.Fatalf("output lacks %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestPathModeAutoOutsideBase(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	fileID := fs.AddVirtual("/very/long/absolute/path/to/B.jl", []byte("class B { }\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SemaError, source.Span{File: fileID, Start: 6, End: 7}, "careful"))

	out := render(bag, fs, PrettyOpts{})
	if !strings.HasPrefix(out, "B.jl:1:7: WARNING SEM3001: careful\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
}

func TestPrettySnippetCaret(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("class A {\n\tvoid m() { return x; }\n}\n")
	fileID := fs.AddVirtual("A.jl", content)
	start := uint32(strings.Index(string(content), "x;"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SemaUnresolvedName, source.Span{File: fileID, Start: start, End: start + 1}, `Could not find "x".`))

	out := render(bag, fs, PrettyOpts{Context: 1})
	want := strings.Join([]string{
		"A.jl:2:20: ERROR SEM3003: Could not find \"x\".",
		"1 | class A {",
		"2 | \tvoid m() { return x; }",
		"  | \t                  ^",
		"3 | }",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestPrettyWideRunesAndTruncation(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte(`String s = "日本" + y;`)
	fileID := fs.AddVirtual("W.jl", content)
	start := uint32(strings.Index(string(content), "y"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SemaUnresolvedName, source.Span{File: fileID, Start: start, End: start + 1}, "y"))

	out := render(bag, fs, PrettyOpts{})
	lines := strings.Split(out, "\n")
	// "String s = " is 11 columns, the literal "日本" 6 more, " + " 3 more
	if want := "  | " + strings.Repeat(" ", 20) + "^"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}

	out = render(bag, fs, PrettyOpts{Width: 8})
	if !strings.Contains(out, "1 | String …\n") {
		t.Fatalf("line not truncated:\n%s", out)
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.ProjMissingSource, source.Span{}, "cannot read source file X.jl"))
	out := render(bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(out, "PRJ5002") || !strings.Contains(out, "cannot read source file X.jl") {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("color requested but no escape codes:\n%q", out)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("import p.A\n")
	fileID := fs.AddVirtual("test.jl", content)

	primary := source.Span{File: fileID, Start: 7, End: 10}
	d := diag.New(diag.SevWarning, diag.SynExpectSemicolon, primary, "expected ';'")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 6}, "import starts here")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: source.Span{File: fileID, Start: 10, End: 10}, NewText: ";"})
	bag := diag.NewBag(4)
	bag.Add(d)

	out := render(bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true, ShowPreview: true})
	for _, want := range []string{
		"note: test.jl:1:1: import starts here",
		"fix #1: insert semicolon",
		`test.jl:1:11 apply=";"`,
		"preview:",
		"- import p.A",
		"+ import p.A;",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}

	out = render(bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(out, "note:") || strings.Contains(out, "fix #1") {
		t.Fatalf("notes and fixes must be opt-in:\n%s", out)
	}
}

func TestPreviewEdit(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("P.jl", []byte("class P {\n  int a;\n  int b;\n}\n"))

	tests := []struct {
		name   string
		edit   diag.FixEdit
		ok     bool
		first  uint32
		before []string
		after  []string
	}{
		{
			name:   "single line",
			edit:   diag.FixEdit{Span: source.Span{File: id, Start: 16, End: 17}, NewText: "x", OldText: "a"},
			ok:     true,
			first:  2,
			before: []string{"  int a;"},
			after:  []string{"  int x;"},
		},
		{
			name:   "joins lines",
			edit:   diag.FixEdit{Span: source.Span{File: id, Start: 18, End: 21}, NewText: " "},
			ok:     true,
			first:  2,
			before: []string{"  int a;", "  int b;"},
			after:  []string{"  int a; int b;"},
		},
		{
			name: "stale old text",
			edit: diag.FixEdit{Span: source.Span{File: id, Start: 16, End: 17}, NewText: "x", OldText: "b"},
		},
		{
			name: "span past end",
			edit: diag.FixEdit{Span: source.Span{File: id, Start: 30, End: 90}, NewText: "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pv, ok := previewEdit(fs, tt.edit)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if pv.first != tt.first || strings.Join(pv.before, "|") != strings.Join(tt.before, "|") || strings.Join(pv.after, "|") != strings.Join(tt.after, "|") {
				t.Fatalf("preview = %d %q / %q", pv.first, pv.before, pv.after)
			}
		})
	}
}
