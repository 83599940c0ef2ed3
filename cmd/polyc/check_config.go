package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"polyc/internal/driver"
	"polyc/internal/project"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate polyc.toml and print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runCheckConfig,
}

func runCheckConfig(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	// driver.New проверяет язык и class path так же, как при компиляции
	if _, err := driver.New(driver.Options{Config: cfg}); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if path == "" {
		fmt.Fprintf(out, "no %s found, using defaults\n", project.ConfigName)
	} else {
		fmt.Fprintf(out, "%s: ok\n", path)
	}
	fmt.Fprint(out, describeConfig(cfg))
	return nil
}

func describeConfig(cfg project.Config) string {
	cc := cfg.Compiler
	var b strings.Builder
	row := func(key string, value any) {
		fmt.Fprintf(&b, "  %-14s %v\n", key, value)
	}
	row("root", cfg.Root)
	row("extension", cc.Extension)
	row("error_limit", cc.ErrorLimit)
	row("jobs", cc.Jobs)
	row("source_path", strings.Join(cc.SourcePath, ", "))
	row("source_ext", cc.SourceExt)
	row("class_path", strings.Join(cc.ClassPath, ", "))
	row("output_dir", cc.OutputDir)
	row("output_ext", cc.OutputExt)
	row("signature_dir", cc.SignatureDir)
	return b.String()
}
