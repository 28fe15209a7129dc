package gordl

import (
	"context"
	"errors"
	"log/slog"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/elaborator"
	"github.com/golangrdl/gordl/internal/types"
)

// ErrNoSources is returned when Load is called without a source.
var ErrNoSources = errors.New("no description sources provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-node logging (instances, offsets, bit ranges).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Option configures Elaborate and Load.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	parallelism int
	rangePolicy RangePolicy
	noHeuristic bool
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithParallelism elaborates up to n top-level descriptions concurrently.
// Results and errors are the same as for sequential elaboration.
func WithParallelism(n int) Option {
	return func(c *config) { c.parallelism = n }
}

// WithRangePolicy selects how field ranges with msb < lsb are handled.
// The default rejects them.
func WithRangePolicy(p RangePolicy) Option {
	return func(c *config) { c.rangePolicy = p }
}

// WithNoHeuristic makes Load decode every listed document, including
// files that do not look like description documents.
func WithNoHeuristic() Option {
	return func(c *config) { c.noHeuristic = true }
}

// Elaborate builds the register model for root. Elaboration stops at the
// first error; no partial result is returned.
//
// Example:
//
//	root, err := gordl.Elaborate(tree,
//	    gordl.WithLogger(slog.Default()),
//	    gordl.WithParallelism(runtime.NumCPU()),
//	)
func Elaborate(root *ast.Root, opts ...Option) (*Root, error) {
	return newConfig(opts).elaborate(root)
}

func (c config) elaborate(root *ast.Root) (*Root, error) {
	return elaborator.Elaborate(root, elaborator.Config{
		Logger:      c.logger,
		Parallelism: c.parallelism,
		RangePolicy: c.rangePolicy,
	})
}

// logEnabled returns true if logging is enabled at the given level.
func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
