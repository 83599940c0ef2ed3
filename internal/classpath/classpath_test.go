package classpath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"polyc/internal/types"
)

func TestWriteThenFind(t *testing.T) {
	dir := t.TempDir()
	sig := &types.ClassSig{
		Name:  "p.q.Box",
		Flags: types.FlagPublic,
		Super: "java.lang.Object",
		Fields: []types.MemberSig{
			{Name: "size", Flags: types.FlagPublic, Type: "int"},
		},
		Methods: []types.MemberSig{
			{Name: "get", Flags: types.FlagPublic, Type: "java.lang.Object", Params: []string{"int"}, Throws: []string{"java.io.IOException"}},
		},
	}
	p, err := Write(dir, sig)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(dir, "p", "q", "Box.sig"); p != want {
		t.Fatalf("path = %s, want %s", p, want)
	}

	l := New(t.TempDir(), dir)
	got, err := l.FindClass("p.q.Box")
	if err != nil || got == nil {
		t.Fatalf("FindClass = %v, %v", got, err)
	}
	if got.Super != "java.lang.Object" || len(got.Methods) != 1 || got.Methods[0].Throws[0] != "java.io.IOException" {
		t.Fatalf("loaded %+v", got)
	}

	if got, err := l.FindClass("p.q.Missing"); got != nil || err != nil {
		t.Fatalf("missing class = %v, %v; want nil, nil", got, err)
	}
}

func TestLoaderFeedsTypeSystem(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, &types.ClassSig{
		Name:    "lib.Counter",
		Flags:   types.FlagPublic,
		Super:   "java.lang.Object",
		Methods: []types.MemberSig{{Name: "next", Flags: types.FlagPublic, Type: "int"}},
	}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	sys := types.NewSystem(types.NewInterner(), New(dir))
	id, ok := sys.Resolve("lib.Counter")
	if !ok {
		t.Fatalf("lib.Counter not resolved through the class path")
	}
	if ms := sys.ClassInfo(id).MethodsNamed("next"); len(ms) != 1 {
		t.Fatalf("methods = %v", ms)
	}
	if _, ok := sys.Resolve("lib.Nothing"); ok {
		t.Fatalf("resolved a class that is not on the class path")
	}
	if err := sys.LoadErr(); err != nil {
		t.Fatalf("LoadErr = %v", err)
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "Old.sig")
	data, err := msgpack.Marshal(&sigFile{Schema: schemaVersion + 1, Class: types.ClassSig{Name: "Old"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(old, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(old); !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}

	junk := filepath.Join(dir, "Junk.sig")
	if err := os.WriteFile(junk, []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(junk); err == nil {
		t.Fatalf("decoded junk")
	}

	// a file whose content names another class
	if _, err := Write(dir, &types.ClassSig{Name: "Real"}); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(filepath.Join(dir, "Real.sig"), filepath.Join(dir, "Fake.sig")); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir).FindClass("Fake"); err == nil {
		t.Fatalf("misnamed signature accepted")
	}
}
