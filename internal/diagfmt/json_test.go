package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"polyc/internal/diag"
	"polyc/internal/source"
)

func decode(t *testing.T, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	t.Helper()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	return out
}

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.jl", []byte("class A {\n  int x = y;\n}\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SemaUnresolvedName, source.Span{File: fileID, Start: 20, End: 21}, `Could not find "y".`))

	out := decode(t, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3003" || d.Message != `Could not find "y".` {
		t.Fatalf("diagnostic = %+v", d)
	}
	want := LocationJSON{File: "test.jl", StartByte: 20, EndByte: 21, StartLine: 2, StartCol: 11, EndLine: 2, EndCol: 12}
	if d.Location == nil || *d.Location != want {
		t.Fatalf("location = %+v, want %+v", d.Location, want)
	}
}

func TestJSONOptions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/src/p/A.jl", []byte("import p.A\n"))
	d := diag.New(diag.SevWarning, diag.SynExpectSemicolon, source.Span{File: fileID, Start: 7, End: 10}, "expected ';'")
	d = d.WithNote(source.Span{}, "while parsing imports")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: source.Span{File: fileID, Start: 7, End: 10}, NewText: "A;"})
	bag := diag.NewBag(0)
	bag.Add(d)
	bag.Add(diag.NewError(diag.ProjMissingSource, source.Span{}, "cannot read source file B.jl"))

	tests := []struct {
		name  string
		opts  JSONOpts
		check func(t *testing.T, out DiagnosticsOutput)
	}{
		{
			name: "defaults drop extras",
			opts: JSONOpts{},
			check: func(t *testing.T, out DiagnosticsOutput) {
				d := out.Diagnostics[0]
				if d.Notes != nil || d.Fixes != nil || d.Location.StartLine != 0 {
					t.Fatalf("extras present: %+v", d)
				}
				if out.Diagnostics[1].Location != nil {
					t.Fatalf("project diagnostic has a location: %+v", out.Diagnostics[1].Location)
				}
			},
		},
		{
			name: "max",
			opts: JSONOpts{Max: 1},
			check: func(t *testing.T, out DiagnosticsOutput) {
				if out.Count != 1 {
					t.Fatalf("count = %d", out.Count)
				}
			},
		},
		{
			name: "notes fixes previews",
			opts: JSONOpts{IncludeNotes: true, IncludeFixes: true, IncludePreviews: true, PathMode: PathModeAbsolute},
			check: func(t *testing.T, out DiagnosticsOutput) {
				d := out.Diagnostics[0]
				if len(d.Notes) != 1 || d.Notes[0].Location != nil || d.Notes[0].Message != "while parsing imports" {
					t.Fatalf("notes = %+v", d.Notes)
				}
				if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
					t.Fatalf("fixes = %+v", d.Fixes)
				}
				e := d.Fixes[0].Edits[0]
				if e.OldText != "p.A" || e.NewText != "A;" || e.Location.File != "/src/p/A.jl" {
					t.Fatalf("edit = %+v", e)
				}
				if len(e.BeforeLines) != 1 || e.BeforeLines[0] != "import p.A" || e.AfterLines[0] != "import A;" {
					t.Fatalf("preview = %v / %v", e.BeforeLines, e.AfterLines)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, decode(t, bag, fs, tt.opts))
		})
	}
}

func TestJSONTimingsKeepNotes(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").WithNote(source.Span{}, `{"total_ms":1}`))
	out := decode(t, bag, fs, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing notes dropped: %+v", out.Diagnostics[0])
	}
}
