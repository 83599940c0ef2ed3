package diag

import (
	"testing"

	"polyc/internal/source"
)

func TestLimitReporterStopsAtLimit(t *testing.T) {
	bag := NewBag(0)
	lim := NewLimitReporter(BagReporter{Bag: bag}, 2)
	for i := 0; i < 5; i++ {
		lim.Report(SemaError, SevError, source.Span{}, "boom", nil, nil)
	}
	lim.Report(SemaError, SevWarning, source.Span{}, "careful", nil, nil)
	if !lim.Exceeded() {
		t.Fatalf("expected limit to be exceeded")
	}
	if lim.Errors() != 2 || lim.Dropped() != 3 {
		t.Fatalf("errors=%d dropped=%d", lim.Errors(), lim.Dropped())
	}
	if bag.Len() != 3 {
		t.Fatalf("bag has %d items, want 3", bag.Len())
	}
}

func TestLimitReporterUnlimited(t *testing.T) {
	lim := NewLimitReporter(nil, 0)
	for i := 0; i < 100; i++ {
		lim.Report(SemaError, SevError, source.Span{}, "x", nil, nil)
	}
	if lim.Exceeded() {
		t.Fatalf("limit 0 must be unlimited")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 2, End: 3}
	r.Report(SemaMultiplyDefined, SevError, sp, "dup", nil, nil)
	r.Report(SemaMultiplyDefined, SevError, sp, "dup", nil, nil)
	r.Report(SemaMultiplyDefined, SevError, sp, "other", nil, nil)
	if bag.Len() != 2 || r.Suppressed() != 1 {
		t.Fatalf("bag has %d items, suppressed %d; want 2, 1", bag.Len(), r.Suppressed())
	}
}

func TestDedupForwardsEscalation(t *testing.T) {
	bag := NewBag(0)
	lim := NewLimitReporter(BagReporter{Bag: bag}, 0)
	r := NewDedupReporter(lim)
	sp := source.Span{File: 1, Start: 4, End: 9}
	r.Report(SemaTypeMismatch, SevWarning, sp, "lossy", nil, nil)
	r.Report(SemaTypeMismatch, SevError, sp, "lossy", nil, nil)
	r.Report(SemaTypeMismatch, SevWarning, sp, "lossy", nil, nil)
	if lim.Errors() != 1 {
		t.Fatalf("error behind a warning was swallowed: errors = %d", lim.Errors())
	}
	if bag.Len() != 2 || r.Suppressed() != 1 {
		t.Fatalf("bag = %d, suppressed = %d", bag.Len(), r.Suppressed())
	}
}

func TestSeverityString(t *testing.T) {
	for sev, want := range map[Severity]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR", 7: "UNKNOWN"} {
		if got := sev.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", sev, got, want)
		}
	}
	if SevWarning.FailsGoal() || !SevError.FailsGoal() {
		t.Fatalf("only errors fail a goal")
	}
}

func TestCodeIDRanges(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynExpectSemicolon, "SYN2002"},
		{SemaUndeclaredException, "SEM3008"},
		{IOLoadFileError, "IO4001"},
		{SchedGoalCycle, "SCH6001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Fatalf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("p/A.jl", []byte("a\nb\n"))

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaError,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		NewError(SynUnexpectedToken, source.Span{File: file, Start: 0, End: 1}, "first line\nsecond").
			WithNote(source.Span{File: file, Start: 2, End: 3}, "note line"),
	}

	expected := "error SYN2001 p/A.jl:1:1 first line second\n" +
		"note SYN2001 p/A.jl:2:1 note line\n" +
		"warning SEM3001 p/A.jl:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
