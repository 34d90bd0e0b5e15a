// Package loader provides functionality for discovering and parsing
// source files. It can load a single file or walk a directory tree,
// collecting every formattable source file while skipping build output
// and dependency directories.
//
// Example usage:
//
//	// Load and parse a single file
//	loader := loader.New()
//	file, err := loader.LoadFile(ctx, "lib/foo.ex")
//
//	// Load everything under a directory
//	files, err := loader.LoadDir(ctx, "lib")
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/scohen/ex-format/ast"
	"github.com/scohen/ex-format/parser"
)

// DefaultExtensions are the file extensions treated as formattable
// source.
var DefaultExtensions = []string{".ex", ".exs"}

// DefaultSkipDirs are directory names never descended into during
// discovery: build output, fetched dependencies, and VCS metadata.
var DefaultSkipDirs = []string{"_build", "deps", ".git"}

// File is one loaded source file: its path, raw content, and parse tree.
type File struct {
	Path   string
	Source []byte
	Tree   *ast.Block
}

// Loader discovers and parses source files.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithExtensions(".ex"))
type Loader struct {
	// Extensions are the file extensions considered during directory
	// discovery.
	Extensions []string

	// SkipDirs are directory names excluded from discovery.
	SkipDirs []string
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithExtensions replaces the set of file extensions discovered in
// directories.
func WithExtensions(exts ...string) Option {
	return func(l *Loader) {
		l.Extensions = exts
	}
}

// WithSkipDirs replaces the set of directory names excluded from
// discovery.
func WithSkipDirs(dirs ...string) Option {
	return func(l *Loader) {
		l.SkipDirs = dirs
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		Extensions: DefaultExtensions,
		SkipDirs:   DefaultSkipDirs,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoadFile reads and parses a single source file.
func (l *Loader) LoadFile(ctx context.Context, filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	tree, err := parser.ParseBytesWithFilename(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	return &File{Path: filename, Source: data, Tree: tree}, nil
}

// LoadDir discovers and parses every source file under dir. Files that
// fail to parse are skipped; their errors are aggregated and returned
// alongside the files that did load.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*File, error) {
	paths, err := l.Discover(dir)
	if err != nil {
		return nil, err
	}

	var files []*File
	var errs *multierror.Error

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return files, ctx.Err()
		default:
		}

		file, err := l.LoadFile(ctx, path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		files = append(files, file)
	}

	return files, errs.ErrorOrNil()
}

// Discover walks dir and returns the paths of all formattable source
// files, in walk order.
func (l *Loader) Discover(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && l.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if l.matches(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	return paths, nil
}

func (l *Loader) skipDir(name string) bool {
	for _, skip := range l.SkipDirs {
		if name == skip {
			return true
		}
	}
	return false
}

func (l *Loader) matches(name string) bool {
	ext := filepath.Ext(name)
	for _, want := range l.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
