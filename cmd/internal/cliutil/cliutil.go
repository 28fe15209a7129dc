// Package cliutil provides shared CLI utilities for gordl command-line tools.
package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golangrdl/gordl"
)

// Sources builds one source from command-line arguments. Directories are
// walked recursively for description documents; anything else is loaded
// as a single document regardless of extension.
func Sources(args []string) (gordl.Source, error) {
	if len(args) == 0 {
		return nil, gordl.ErrNoSources
	}
	var sources []gordl.Source
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			src, err := gordl.DirTree(p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
			continue
		}
		sources = append(sources, gordl.Files(p))
	}
	return gordl.Multi(sources...), nil
}

// Logger returns a text logger on w for the given verbosity: 0 disables
// logging, 1 logs at debug level, 2 and above at trace level.
func Logger(verbose int, w io.Writer) *slog.Logger {
	if verbose <= 0 {
		return nil
	}
	level := slog.LevelDebug
	if verbose >= 2 {
		level = gordl.LevelTrace
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// GetOutput opens the output file, or returns fallback when outputFile
// is empty.
func GetOutput(outputFile string, fallback io.Writer) (io.Writer, func() error, error) {
	if outputFile == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// PrintError writes a formatted error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}

// PrintDiagnostic writes one diagnostic line to w.
func PrintDiagnostic(w io.Writer, d gordl.Diagnostic) {
	fmt.Fprintf(w, "%s (%s)\n", d, d.Code)
}
