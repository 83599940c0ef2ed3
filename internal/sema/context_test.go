package sema

import (
	"slices"
	"testing"

	"polyc/internal/types"
)

func TestContextLookupInnermostFirst(t *testing.T) {
	ctx := NewContext()
	ctx.Push(ClassScope(types.NoTypeID))
	mi := &types.MethodInstance{Name: "m"}
	ctx.Push(CodeScope(mi, false))
	outer := &types.LocalInstance{Name: "x"}
	ctx.AddLocal(outer)
	ctx.Push(BlockScope())
	inner := &types.LocalInstance{Name: "x"}
	ctx.AddLocal(inner)
	ctx.AddLocal(&types.LocalInstance{Name: "y"})

	if li, ok := ctx.FindLocal("x"); !ok || li != inner {
		t.Fatalf("FindLocal(x) = %v, %v; want inner", li, ok)
	}
	if got := ctx.LocalNames(); !slices.Equal(got, []string{"x", "y", "x"}) {
		t.Fatalf("LocalNames = %v", got)
	}
	if ctx.CurrentCode() != mi {
		t.Fatalf("CurrentCode lost the method")
	}

	ctx.Pop()
	if li, ok := ctx.FindLocal("x"); !ok || li != outer {
		t.Fatalf("after pop FindLocal(x) = %v, %v; want outer", li, ok)
	}
	if _, ok := ctx.FindLocal("y"); ok {
		t.Fatalf("y is visible after its block was popped")
	}
	if ctx.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", ctx.Depth())
	}
}

func TestContextStaticAndClass(t *testing.T) {
	ctx := NewContext()
	if ctx.CurrentClass() != types.NoTypeID || ctx.CurrentCode() != nil || ctx.InStaticContext() {
		t.Fatalf("empty context reports a scope")
	}
	ct := types.TypeID(42)
	ctx.Push(ClassScope(ct))
	ctx.Push(CodeScope(nil, true))
	ctx.Push(BlockScope())
	if !ctx.InStaticContext() {
		t.Fatalf("static code scope not seen through a block")
	}
	if ctx.CurrentClass() != ct {
		t.Fatalf("CurrentClass = %v, want %v", ctx.CurrentClass(), ct)
	}
	if ctx.CurrentCode() != nil {
		t.Fatalf("field initializer scope has a method")
	}
}

func TestContextPopEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Pop on empty stack did not panic")
		}
	}()
	NewContext().Pop()
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		target string
		cands  []string
		want   string
	}{
		{"totl", []string{"total", "count"}, "total"},
		{"cuont", []string{"total", "count"}, "count"},
		{"x", []string{"x"}, ""},
		{"abc", nil, ""},
		{"zzzzzz", []string{"total"}, ""},
	}
	for _, tt := range tests {
		if got := suggest(tt.target, tt.cands); got != tt.want {
			t.Fatalf("suggest(%q, %v) = %q, want %q", tt.target, tt.cands, got, tt.want)
		}
	}
}
