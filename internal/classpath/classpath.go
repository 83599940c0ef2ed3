// Package classpath loads class signatures for classes outside the source
// set. Each class lives in <dir>/<package path>/<Name>.sig as a msgpack
// encoded record.
package classpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"polyc/internal/types"
)

// Текущая версия формата; увеличивать при изменении sigFile.
const schemaVersion uint16 = 1

const Ext = ".sig"

var ErrSchema = errors.New("signature schema mismatch")

type sigFile struct {
	Schema uint16
	Class  types.ClassSig
}

// Loader searches its directories in order. Results, misses included, are
// cached for the loader's lifetime.
type Loader struct {
	mu    sync.Mutex
	dirs  []string
	cache map[string]*types.ClassSig
}

func New(dirs ...string) *Loader {
	return &Loader{dirs: dirs, cache: make(map[string]*types.ClassSig)}
}

// PathFor is where the signature of the fully qualified class name lives under dir.
func PathFor(dir, name string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))+Ext)
}

// FindClass implements types.ClassLoader.
func (l *Loader) FindClass(name string) (*types.ClassSig, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sig, ok := l.cache[name]; ok {
		return sig, nil
	}
	for _, dir := range l.dirs {
		sig, err := Read(PathFor(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if sig.Name != name {
			return nil, fmt.Errorf("%s: holds class %q, want %q", PathFor(dir, name), sig.Name, name)
		}
		l.cache[name] = sig
		return sig, nil
	}
	l.cache[name] = nil
	return nil, nil
}

// Read decodes one signature file.
func Read(path string) (*types.ClassSig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out sigFile
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if out.Schema != schemaVersion {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", path, ErrSchema, out.Schema, schemaVersion)
	}
	return &out.Class, nil
}

// Write stores sig under dir and returns the file path. The file is
// replaced atomically.
func Write(dir string, sig *types.ClassSig) (string, error) {
	p := PathFor(dir, sig.Name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("write signature: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return "", fmt.Errorf("write signature: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(&sigFile{Schema: schemaVersion, Class: *sig}); err != nil {
		f.Close()
		return "", fmt.Errorf("encode %s: %w", sig.Name, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	// атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		return "", err
	}
	return p, nil
}
