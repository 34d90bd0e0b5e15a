package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/scohen/ex-format/format"
	"github.com/scohen/ex-format/loader"
	"github.com/scohen/ex-format/output"
	"github.com/scohen/ex-format/telemetry"
)

type CheckCmd struct {
	Paths []string `help:"Files or directories to check." arg:"" optional:"" default:"."`
	Width int      `help:"Maximum line width." default:"80"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	files, loadErrs := loadTargets(runCtx, cmd.Paths)
	if len(loadErrs) > 0 {
		for _, err := range loadErrs {
			renderParseFailure(ctx.Stderr, err)
		}
		printError(ctx.Stderr, fmt.Sprintf("%d file(s) failed to parse", len(loadErrs)))
		return NewCommandError(1)
	}

	fmtr := format.New(format.WithMaxWidth(cmd.Width))

	type pending struct {
		file      *loader.File
		formatted []byte
	}
	var stale []pending

	for _, file := range files {
		formatted, err := renderFile(runCtx, fmtr, file)
		if err != nil {
			return err
		}
		if !bytes.Equal(formatted, file.Source) {
			stale = append(stale, pending{file: file, formatted: formatted})
			printInfof(ctx.Stdout, "%s is not formatted", pathStyle.Render(file.Path))
		}
	}

	if len(stale) == 0 {
		printSuccess(ctx.Stdout, fmt.Sprintf("%d file(s) formatted", len(files)))
		return nil
	}

	rewrite, err := promptYesNo(fmt.Sprintf("Rewrite %d file(s) now?", len(stale)))
	if err != nil {
		return err
	}
	if !rewrite {
		printError(ctx.Stderr, fmt.Sprintf("%d file(s) need formatting", len(stale)))
		return NewCommandError(1)
	}

	for _, p := range stale {
		if err := os.WriteFile(p.file.Path, p.formatted, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.file.Path, err)
		}
		printSuccess(ctx.Stdout, pathStyle.Render(p.file.Path))
	}

	return nil
}
