package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourcePath maps fully qualified class names to source files under a list
// of roots: class p.q.A lives in <root>/p/q/A<ext>.
type SourcePath struct {
	Roots []string
	Ext   string
}

// CheckRoot validates one source or class path root.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("invalid path root %q: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid path root %q: not a directory", root)
	}
	return nil
}

// Find returns the first existing source file for the class.
func (sp SourcePath) Find(class string) (string, bool) {
	if !IsValidQualifiedName(class) {
		return "", false
	}
	rel := filepath.FromSlash(strings.ReplaceAll(class, ".", "/")) + sp.Ext
	for _, root := range sp.Roots {
		p := filepath.Join(root, rel)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// ClassName maps a file under one of the roots back to the class it is
// expected to declare. The longest matching root wins.
func (sp SourcePath) ClassName(path string) (string, bool) {
	clean := filepath.Clean(path)
	bestRoot := ""
	for _, root := range sp.Roots {
		if root != "" && pathWithin(root, clean) && len(root) > len(bestRoot) {
			bestRoot = root
		}
	}
	if bestRoot == "" {
		return "", false
	}
	rel, err := filepath.Rel(bestRoot, clean)
	if err != nil || !strings.HasSuffix(rel, sp.Ext) {
		return "", false
	}
	name := strings.ReplaceAll(filepath.ToSlash(strings.TrimSuffix(rel, sp.Ext)), "/", ".")
	if !IsValidQualifiedName(name) {
		return "", false
	}
	return name, true
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..") && rel != ".."
}
