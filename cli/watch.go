package cli

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/scohen/ex-format/format"
	"github.com/scohen/ex-format/loader"
)

type WatchCmd struct {
	Dir   string `help:"Directory to watch." arg:"" optional:"" default:"."`
	Width int    `help:"Maximum line width." default:"80"`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchTree(watcher, cmd.Dir); err != nil {
		return err
	}

	printInfof(ctx.Stdout, "watching %s", pathStyle.Render(cmd.Dir))

	runCtx := context.Background()
	fmtr := format.New(format.WithMaxWidth(cmd.Width))
	ldr := loader.New()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			cmd.handleEvent(runCtx, ctx, watcher, fmtr, ldr, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, err.Error())
		}
	}
}

func (cmd *WatchCmd) handleEvent(runCtx context.Context, ctx *kong.Context, watcher *fsnotify.Watcher, fmtr *format.Formatter, ldr *loader.Loader, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	// New directories join the watch; new and changed source files get
	// reformatted in place.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !skippedDir(filepath.Base(event.Name)) {
			_ = watcher.Add(event.Name)
		}
		return
	}

	if !formattableFile(event.Name) {
		return
	}

	file, err := ldr.LoadFile(runCtx, event.Name)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	formatted, err := renderFile(runCtx, fmtr, file)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	if bytes.Equal(formatted, file.Source) {
		return
	}
	if err := os.WriteFile(file.Path, formatted, 0o644); err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}
	printSuccess(ctx.Stdout, pathStyle.Render(file.Path))
}

// watchTree registers dir and every non-skipped subdirectory.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skippedDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func skippedDir(name string) bool {
	for _, skip := range loader.DefaultSkipDirs {
		if name == skip {
			return true
		}
	}
	return false
}

func formattableFile(name string) bool {
	ext := filepath.Ext(name)
	for _, want := range loader.DefaultExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
