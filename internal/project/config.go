package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Compiler is the [compiler] section of polyc.toml. Relative paths are
// resolved against the project root by Resolve.
type Compiler struct {
	Extension    string   `toml:"extension"`
	ErrorLimit   int      `toml:"error_limit"`
	SourcePath   []string `toml:"source_path"`
	ClassPath    []string `toml:"class_path"`
	OutputDir    string   `toml:"output_dir"`
	OutputExt    string   `toml:"output_ext"`
	SignatureDir string   `toml:"signature_dir"`
	SourceExt    string   `toml:"source_ext"`
	Jobs         int      `toml:"jobs"`
}

// Config is the decoded project file.
type Config struct {
	// Root is the directory of the project file; "" for defaults.
	Root     string
	Compiler Compiler
}

var (
	// ErrCompilerSectionMissing indicates that [compiler] is missing in polyc.toml.
	ErrCompilerSectionMissing = errors.New("missing [compiler]")
	// ErrUnknownKey is returned for keys the compiler does not understand.
	ErrUnknownKey = errors.New("unknown key")
)

const (
	DefaultExtension  = "jl"
	DefaultErrorLimit = 100
	DefaultOutputExt  = "java"
	DefaultSourceExt  = ".jl"
)

// Default is the configuration used without a project file.
func Default() Config {
	return Config{Compiler: Compiler{
		Extension:  DefaultExtension,
		ErrorLimit: DefaultErrorLimit,
		OutputExt:  DefaultOutputExt,
		SourceExt:  DefaultSourceExt,
		SourcePath: []string{"."},
	}}
}

type configFile struct {
	Compiler Compiler `toml:"compiler"`
}

// LoadConfig parses polyc.toml at path. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	file := configFile{Compiler: Default().Compiler}
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("compiler") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrCompilerSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	cfg := Config{Root: filepath.Dir(path), Compiler: file.Compiler}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the decoder accepts but the compiler cannot use.
func (c *Config) Validate() error {
	cc := &c.Compiler
	cc.Extension = strings.TrimSpace(cc.Extension)
	if cc.Extension == "" {
		return errors.New("[compiler].extension is empty")
	}
	if cc.ErrorLimit < 0 {
		return fmt.Errorf("[compiler].error_limit must not be negative, got %d", cc.ErrorLimit)
	}
	if cc.Jobs < 0 {
		return fmt.Errorf("[compiler].jobs must not be negative, got %d", cc.Jobs)
	}
	cc.OutputExt = strings.TrimPrefix(strings.TrimSpace(cc.OutputExt), ".")
	if cc.OutputExt == "" {
		return errors.New("[compiler].output_ext is empty")
	}
	if cc.SourceExt != "" && !strings.HasPrefix(cc.SourceExt, ".") {
		cc.SourceExt = "." + cc.SourceExt
	}
	if slices.Contains(cc.SourcePath, "") {
		return errors.New("[compiler].source_path has an empty entry")
	}
	return nil
}

// Resolve makes every configured path absolute against the project root.
func (c Config) Resolve() Config {
	if c.Root == "" {
		return c
	}
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Root, filepath.FromSlash(p))
	}
	out := c
	cc := &out.Compiler
	cc.SourcePath = mapPaths(c.Compiler.SourcePath, abs)
	cc.ClassPath = mapPaths(c.Compiler.ClassPath, abs)
	cc.OutputDir = abs(cc.OutputDir)
	cc.SignatureDir = abs(cc.SignatureDir)
	return out
}

func mapPaths(in []string, fn func(string) string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = fn(p)
	}
	return out
}
