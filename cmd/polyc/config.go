package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"polyc/internal/project"
)

// loadProjectConfig читает --config или ищет polyc.toml вверх от рабочей
// директории. Без файла проектом считается рабочая директория с настройками по умолчанию.
// Возвращает уже разрешённый конфиг и путь к файлу ("" если файла нет).
func loadProjectConfig(cmd *cobra.Command) (project.Config, string, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if path == "" {
		found, ok, err := project.FindConfig(wd)
		if err != nil {
			return project.Config{}, "", err
		}
		if !ok {
			cfg := project.Default()
			cfg.Root = wd
			return cfg.Resolve(), "", nil
		}
		path = found
	}
	cfg, err := project.LoadConfig(path)
	if err != nil {
		return project.Config{}, path, err
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(wd, cfg.Root)
	}
	return cfg.Resolve(), path, nil
}

// compileFlags are the [compiler] keys that the compile command can override.
type compileFlags struct {
	extension    string
	errorLimit   int
	jobs         int
	outputDir    string
	outputExt    string
	signatureDir string
	sourcePath   []string
	classPath    []string
}

func registerCompileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("extension", "x", "", "language extension (jl|jl5|jl7)")
	f.String("ext", "", "alias for --extension")
	f.Int("error-limit", 0, "abort after this many errors (0 = no limit)")
	f.Int("jobs", 0, "max parallel parse workers (0=auto)")
	f.StringP("out", "d", "", "directory for translated sources")
	f.String("output-ext", "", "file extension of translated sources")
	f.String("sigs", "", "directory for exported class signatures")
	f.StringSlice("sourcepath", nil, "roots searched for referenced classes")
	f.StringSlice("classpath", nil, "directories with class signature files")
	_ = f.MarkHidden("ext")
}

func readCompileFlags(cmd *cobra.Command) (compileFlags, error) {
	var out compileFlags
	var err error
	f := cmd.Flags()
	if out.extension, err = f.GetString("extension"); err != nil {
		return out, fmt.Errorf("failed to get extension flag: %w", err)
	}
	if alias, _ := f.GetString("ext"); alias != "" && out.extension == "" {
		out.extension = alias
	}
	if out.errorLimit, err = f.GetInt("error-limit"); err != nil {
		return out, fmt.Errorf("failed to get error-limit flag: %w", err)
	}
	if out.jobs, err = f.GetInt("jobs"); err != nil {
		return out, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if out.outputDir, err = f.GetString("out"); err != nil {
		return out, fmt.Errorf("failed to get out flag: %w", err)
	}
	if out.outputExt, err = f.GetString("output-ext"); err != nil {
		return out, fmt.Errorf("failed to get output-ext flag: %w", err)
	}
	if out.signatureDir, err = f.GetString("sigs"); err != nil {
		return out, fmt.Errorf("failed to get sigs flag: %w", err)
	}
	if out.sourcePath, err = f.GetStringSlice("sourcepath"); err != nil {
		return out, fmt.Errorf("failed to get sourcepath flag: %w", err)
	}
	if out.classPath, err = f.GetStringSlice("classpath"); err != nil {
		return out, fmt.Errorf("failed to get classpath flag: %w", err)
	}
	return out, nil
}

// apply накладывает флаги поверх конфига. Пути из флагов берутся
// относительно рабочей директории, а не корня проекта.
func (fl compileFlags) apply(cfg project.Config, changed func(string) bool) (project.Config, error) {
	cc := &cfg.Compiler
	if fl.extension != "" {
		cc.Extension = fl.extension
	}
	if changed("error-limit") {
		cc.ErrorLimit = fl.errorLimit
	}
	if changed("jobs") {
		cc.Jobs = fl.jobs
	}
	if fl.outputExt != "" {
		cc.OutputExt = fl.outputExt
	}
	if fl.outputDir != "" {
		cc.OutputDir = absPath(fl.outputDir)
	}
	if fl.signatureDir != "" {
		cc.SignatureDir = absPath(fl.signatureDir)
	}
	if len(fl.sourcePath) > 0 {
		cc.SourcePath = mapAbs(fl.sourcePath)
	}
	if len(fl.classPath) > 0 {
		cc.ClassPath = mapAbs(fl.classPath)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func mapAbs(in []string) []string {
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = absPath(p)
	}
	return out
}
