package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-multierror"

	"github.com/scohen/ex-format/format"
	"github.com/scohen/ex-format/loader"
	"github.com/scohen/ex-format/output"
	"github.com/scohen/ex-format/parser"
	"github.com/scohen/ex-format/telemetry"
)

type FormatCmd struct {
	Paths []string `help:"Files or directories to format (reads stdin when omitted)." arg:"" optional:""`
	Write bool     `help:"Rewrite files in place instead of printing to stdout." short:"w"`
	Width int      `help:"Maximum line width." default:"80"`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
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

	fmtr := format.New(format.WithMaxWidth(cmd.Width))

	if len(cmd.Paths) == 0 {
		return cmd.formatStdin(runCtx, ctx, fmtr)
	}

	files, loadErrs := loadTargets(runCtx, cmd.Paths)
	if len(loadErrs) > 0 {
		for _, err := range loadErrs {
			renderParseFailure(ctx.Stderr, err)
		}
		printError(ctx.Stderr, fmt.Sprintf("%d file(s) failed to parse", len(loadErrs)))
		return NewCommandError(1)
	}

	if !cmd.Write && len(files) > 1 {
		return fmt.Errorf("formatting multiple files requires --write")
	}

	for _, file := range files {
		formatted, err := renderFile(runCtx, fmtr, file)
		if err != nil {
			return err
		}

		if !cmd.Write {
			_, _ = ctx.Stdout.Write(formatted)
			continue
		}

		if bytes.Equal(formatted, file.Source) {
			continue
		}
		if err := os.WriteFile(file.Path, formatted, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
		printSuccess(ctx.Stdout, pathStyle.Render(file.Path))
	}

	return nil
}

func (cmd *FormatCmd) formatStdin(runCtx context.Context, ctx *kong.Context, fmtr *format.Formatter) error {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}

	tree, err := parser.ParseBytesWithFilename(runCtx, "<stdin>", source)
	if err != nil {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	return fmtr.Format(runCtx, tree, source, ctx.Stdout)
}

// renderFile runs the formatter over one loaded file and returns the
// canonical output.
func renderFile(ctx context.Context, fmtr *format.Formatter, file *loader.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := fmtr.Format(ctx, file.Tree, file.Source, &buf); err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", file.Path, err)
	}
	return buf.Bytes(), nil
}

// loadTargets loads each path, descending into directories, and returns
// the parsed files alongside any load failures.
func loadTargets(ctx context.Context, paths []string) ([]*loader.File, []error) {
	ldr := loader.New()

	var files []*loader.File
	var errs []error

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if info.IsDir() {
			loaded, err := ldr.LoadDir(ctx, path)
			files = append(files, loaded...)
			if err != nil {
				errs = append(errs, flattenErrors(err)...)
			}
			continue
		}

		file, err := ldr.LoadFile(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, file)
	}

	return files, errs
}

// flattenErrors unwraps an aggregated error into its parts.
func flattenErrors(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Errors
	}
	return []error{err}
}

// renderParseFailure prints one load failure, with source context when
// the file is still readable.
func renderParseFailure(w io.Writer, err error) {
	var source []byte
	if e, ok := err.(*parser.ParseError); ok && e.Pos.Filename != "" {
		source, _ = os.ReadFile(e.Pos.Filename)
	}
	renderer := NewErrorRenderer(source)
	_, _ = fmt.Fprintln(w, renderer.Render(err))
}
