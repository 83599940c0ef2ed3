package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"polyc/internal/diag"
	"polyc/internal/diagfmt"
	"polyc/internal/driver"
	"polyc/internal/fix"
	"polyc/internal/observ"
	"polyc/internal/sched"
	"polyc/internal/source"
	"polyc/internal/ui"
)

// errCompileFailed означает, что диагностики уже напечатаны и нужен только
// ненулевой код выхода.
var errCompileFailed = errors.New("compilation failed")

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file>...",
	Short: "Compile source files to the terminal goal",
	Long: `Compile parses, builds types, resolves names, type checks and exception
checks every file, translating them when an output directory is configured.
Classes referenced but not listed are looked up on the source path.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	registerCompileFlags(compileCmd)
	compileCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json)")
	compileCmd.Flags().String("progress", "auto", "show goal progress (auto|on|off)")
	compileCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	compileCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	compileCmd.Flags().Bool("preview", false, "preview fix suggestions")
	compileCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	compileCmd.Flags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = all)")
	compileCmd.Flags().Bool("fix", false, "apply suggested fixes to the source files")
}

type compileOutcome struct {
	result *driver.Result
	err    error
}

func runCompile(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
	progressValue, err := cmd.Flags().GetString("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}
	progressMode, err := readToggle("progress", progressValue)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	applyFixes, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return fmt.Errorf("failed to get fix flag: %w", err)
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	cfg, _, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	overrides, err := readCompileFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err = overrides.apply(cfg, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}
	bag := diag.NewBag(0)
	opts := driver.Options{
		Config: cfg,
		Sink:   diag.BagReporter{Bag: bag},
		Tracer: tracer,
		Timer:  timer,
	}

	// прогресс только в pretty-режиме: JSON должен остаться чистым
	withUI := format == "pretty" && progressMode.resolve(os.Stdout)
	var events chan sched.Event
	if withUI {
		events = make(chan sched.Event, 256)
		opts.Observer = func(ev sched.Event) { events <- ev }
	}

	c, err := driver.New(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var res *driver.Result
	if withUI {
		res, err = compileWithUI(ctx, c, args, events)
	} else {
		res, err = c.Compile(ctx, args)
	}
	dumpRingOnInternalError(cmd.ErrOrStderr(), tracer, err)

	if timer != nil {
		if format == "json" {
			addTimingsDiagnostic(bag, timer)
		} else {
			fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
		}
	}
	if printErr := printDiagnostics(cmd, bag, c.Files(), format, colored); printErr != nil {
		return printErr
	}
	if format == "pretty" {
		printSummary(cmd.ErrOrStderr(), res, colored)
	}
	if applyFixes {
		if fixErr := runFixes(cmd.ErrOrStderr(), bag, c.Files()); fixErr != nil {
			return fixErr
		}
	}

	if err != nil {
		if errors.Is(err, sched.ErrErrorLimit) {
			return errCompileFailed
		}
		return err
	}
	if res == nil || !res.OK {
		return errCompileFailed
	}
	return nil
}

// compileWithUI компилирует в отдельной горутине, а прогресс рисует в текущей.
func compileWithUI(ctx context.Context, c *driver.Compiler, paths []string, events chan sched.Event) (*driver.Result, error) {
	outcomeCh := make(chan compileOutcome, 1)
	go func() {
		res, err := c.Compile(ctx, paths)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(os.Stdout, "polyc compile", paths, c.Scheduler().Kinds(), events)
	if uiErr != nil {
		// дочитываем канал, чтобы компиляция не заблокировалась на наблюдателе
		for range events {
		}
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, format string, colored bool) error {
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	bag.Sort()
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              maxDiagnostics,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest,
			IncludePreviews:  preview,
		})
	default:
		if maxDiagnostics > 0 && bag.Len() > maxDiagnostics {
			trimmed := diag.NewBag(maxDiagnostics)
			for _, d := range bag.Items() {
				trimmed.Add(d)
			}
			bag = trimmed
		}
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:       colored,
			Context:     1,
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   suggest,
			ShowPreview: preview,
		})
		return nil
	}
}

// runFixes применяет первый fix каждой диагностики и печатает итог.
func runFixes(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	res, err := fix.Apply(fs, bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(w, "fix: nothing to apply")
		return nil
	}
	for _, a := range res.Applied {
		fmt.Fprintf(w, "fix: %s: %s\n", a.PrimaryPath, a.Title)
	}
	for _, s := range res.Skipped {
		if s.Title != "" {
			fmt.Fprintf(w, "fix: skipped %s: %s\n", s.Title, s.Reason)
		}
	}
	for _, ch := range res.FileChanges {
		fmt.Fprintf(w, "fix: wrote %s (%d edit(s))\n", ch.Path, ch.EditCount)
	}
	return err
}

func addTimingsDiagnostic(bag *diag.Bag, timer *observ.Timer) {
	payload, err := json.Marshal(timer.Report())
	if err != nil {
		return
	}
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "pipeline timings").
		WithNote(source.Span{}, string(payload)))
}

func printSummary(w io.Writer, res *driver.Result, colored bool) {
	if res == nil {
		return
	}
	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	for _, c := range []*color.Color{ok, bad} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	failed := 0
	for _, u := range res.Units {
		if !u.OK {
			failed++
		}
	}
	if res.OK {
		fmt.Fprintf(w, "%s %d unit(s)\n", ok.Sprint("compiled"), len(res.Units))
		return
	}
	fmt.Fprintf(w, "%s %d of %d unit(s), %d error(s)", bad.Sprint("failed"), failed, len(res.Units), res.Errors)
	if res.Dropped > 0 {
		fmt.Fprintf(w, ", %d more suppressed by the error limit", res.Dropped)
	}
	fmt.Fprintln(w)
}
