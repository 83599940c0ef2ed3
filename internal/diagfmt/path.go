package diagfmt

import (
	"path/filepath"
	"strings"

	"polyc/internal/source"
)

// PathMode says how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto: файлы под базовым каталогом относительно него, остальные по имени.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// located reports whether sp points into a file of fs. Project level
// diagnostics carry the zero span.
func located(fs *source.FileSet, sp source.Span) bool {
	return fs != nil && sp != (source.Span{}) && fs.Get(sp.File) != nil
}

func displayPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(filepath.FromSlash(f.Path)); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return fs.RelPath(f.ID)
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		rel := fs.RelPath(f.ID)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return filepath.Base(f.Path)
		}
		return rel
	}
}
