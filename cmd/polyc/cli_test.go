package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"polyc/internal/project"
)

func TestReadToggle(t *testing.T) {
	tests := []struct {
		in      string
		want    toggle
		wantErr bool
	}{
		{"", toggleAuto, false},
		{"AUTO", toggleAuto, false},
		{"on", toggleOn, false},
		{"never", toggleOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readToggle("color", tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("readToggle(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestCompileFlagsApply(t *testing.T) {
	cfg := project.Default()
	cfg.Root = "/proj"
	cfg.Compiler.ErrorLimit = 50

	fl := compileFlags{
		extension:  "jl7",
		errorLimit: 0,
		jobs:       4,
		outputExt:  ".txt",
		outputDir:  "out",
		sourcePath: []string{"src", "lib"},
	}
	changed := func(name string) bool { return name == "error-limit" || name == "jobs" }
	got, err := fl.apply(cfg, changed)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	cc := got.Compiler
	if cc.Extension != "jl7" || cc.ErrorLimit != 0 || cc.Jobs != 4 || cc.OutputExt != "txt" {
		t.Fatalf("compiler = %+v", cc)
	}
	wd, _ := os.Getwd()
	if cc.OutputDir != filepath.Join(wd, "out") {
		t.Fatalf("output dir = %q, want relative to the working directory", cc.OutputDir)
	}
	if len(cc.SourcePath) != 2 || cc.SourcePath[1] != filepath.Join(wd, "lib") {
		t.Fatalf("source path = %v", cc.SourcePath)
	}

	// флаги без Changed не трогают конфиг
	got, err = compileFlags{}.apply(cfg, func(string) bool { return false })
	if err != nil || got.Compiler.ErrorLimit != 50 {
		t.Fatalf("untouched apply = %+v, %v", got.Compiler, err)
	}

	if _, err := (compileFlags{jobs: -1}).apply(cfg, changed); err == nil {
		t.Fatalf("negative jobs accepted")
	}
}

func TestLoadProjectConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ConfigName)
	body := "[compiler]\nextension = \"jl5\"\nsource_path = [\"src\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := rootCmd.PersistentFlags().Set("config", path); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("config", "") })

	cfg, got, err := loadProjectConfig(checkConfigCmd)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if got != path || cfg.Compiler.Extension != "jl5" {
		t.Fatalf("cfg = %+v from %q", cfg, got)
	}
	if want := filepath.Join(dir, "src"); len(cfg.Compiler.SourcePath) != 1 || cfg.Compiler.SourcePath[0] != want {
		t.Fatalf("source path = %v, want [%s]", cfg.Compiler.SourcePath, want)
	}
}

func TestCheckConfigRejectsUnknownLanguage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ConfigName)
	if err := os.WriteFile(path, []byte("[compiler]\nextension = \"jl9\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := rootCmd.PersistentFlags().Set("config", path); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("config", "") })

	var out bytes.Buffer
	checkConfigCmd.SetOut(&out)
	err := runCheckConfig(checkConfigCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "jl9") {
		t.Fatalf("err = %v, want unknown language", err)
	}
}

func TestDescribeConfig(t *testing.T) {
	cfg := project.Default()
	cfg.Root = "/proj"
	out := describeConfig(cfg)
	for _, want := range []string{"root", "/proj", "extension", "jl", "output_ext", "java"} {
		if !strings.Contains(out, want) {
			t.Fatalf("describeConfig lacks %q:\n%s", want, out)
		}
	}
}
