package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB

var builtinSeeds = []string{
	"",
	"class A { }",
	"package p; import q.R; import s.*; public class A extends B implements I, J { }",
	"class A { int x = 1; static final String s = \"a\\tb\\u0041\"; char c = '\\n'; }",
	"class A { int f(int a, int b) { return a * (b + 3) % 7 << 2; } }",
	"class A { void m() throws Exception { try { throw new Exception(); } catch (Exception e) { } finally { } } }",
	"class A { void m() { for (int i = 0; i < 10; i++) { if (i == 3) break; else continue; } } }",
	"class A { void m() { int[] xs = new int[3]; xs[0] = xs.length; while (true) { } } }",
	"interface I { void f(); } abstract class B implements I { abstract int g(); }",
	"class A { Integer f(Integer a) { return a + 1; } }",
	"class A { void m() { int x = ; } }",
	"class A { void m() { x = (int) 3.5e2f + 0x1F + 0777 + 10L; } }",
	"class A { boolean b = !true && false || 1 >= 2 ? true : false; }",
	"class { { { (",
	"/* unterminated",
	"\"unterminated",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds добавляет *.jl файлы из testdata, если каталог есть.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".jl" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
