package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"class", KwClass},
		{"throws", KwThrows},
		{"Class", Ident},
		{"x", Ident},
	}
	for _, tt := range tests {
		if got := LookupKeyword(tt.in); got != tt.want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindClassification(t *testing.T) {
	if !KwAbstract.IsModifier() || KwClass.IsModifier() {
		t.Fatalf("modifier range broken")
	}
	if !KwVoid.IsPrimitiveType() || !KwDouble.IsPrimitiveType() || KwIf.IsPrimitiveType() {
		t.Fatalf("primitive range broken")
	}
	if KwNative.String() != "native" || Ushr.String() != ">>>" {
		t.Fatalf("String() = %q, %q", KwNative.String(), Ushr.String())
	}
}
