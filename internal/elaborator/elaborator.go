// Package elaborator walks a description AST and builds the elaborated
// register model.
//
// # Order of work
//
// For every component body the elaborator:
//
//  1. resolves all property assignments in declaration order, so the
//     node's local and default maps are complete before anything reads
//     them;
//  2. lays out the node's own offset (or bit range for fields);
//  3. elaborates nested component definitions in declaration order with
//     the node's defaults pushed onto the scope chain.
//
// Address maps and register files take their size from their children,
// so their first element's children are elaborated before the
// declarator is placed. Child offsets are relative to the parent, so
// they do not depend on where the parent lands.
//
// Elaboration is fail-fast: the first error aborts the call and no
// partial result is returned.
package elaborator

import (
	"log/slog"
	"sync/atomic"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/expand"
	"github.com/golangrdl/gordl/internal/types"
	"github.com/golangrdl/gordl/rdl"
	"golang.org/x/sync/errgroup"
)

// Config controls an elaboration run.
type Config struct {
	// Logger receives debug and trace output. Nil disables logging.
	Logger *slog.Logger
	// Parallelism is the number of top-level descriptions elaborated
	// concurrently. Values below 2 elaborate sequentially.
	Parallelism int
	// RangePolicy selects how fields with msb < lsb are handled.
	RangePolicy expand.RangePolicy
}

type elaborator struct {
	types.Logger
	policy expand.RangePolicy
}

// result holds the output of one top-level description.
type result struct {
	nodes []rdl.Node
	diags []rdl.Diagnostic
}

// Elaborate builds the elaborated model for root.
func Elaborate(root *ast.Root, cfg Config) (*rdl.Root, error) {
	e := &elaborator{
		Logger: types.Logger{L: types.Component(cfg.Logger, "elaborator")},
		policy: cfg.RangePolicy,
	}
	if root == nil {
		return rdl.NewRoot(nil, nil), nil
	}
	descs := root.Descriptions

	e.Log(slog.LevelDebug, "elaborating",
		slog.Int("descriptions", len(descs)),
		slog.Int("parallelism", max(cfg.Parallelism, 1)),
		slog.String("range_policy", cfg.RangePolicy.String()))

	var results []result
	var err error
	if cfg.Parallelism > 1 && len(descs) > 1 {
		results, err = e.parallel(descs, cfg.Parallelism)
	} else {
		results, err = e.sequential(descs)
	}
	if err != nil {
		e.Log(slog.LevelDebug, "elaboration failed", slog.String("error", err.Error()))
		return nil, err
	}

	var nodes []rdl.Node
	var diags []rdl.Diagnostic
	for _, r := range results {
		nodes = append(nodes, r.nodes...)
		diags = append(diags, r.diags...)
	}
	if err := uniqueNames(nodes, ""); err != nil {
		return nil, err
	}

	out := rdl.NewRoot(nodes, diags)
	e.Log(slog.LevelDebug, "elaboration complete",
		slog.Int("top_level", out.Len()),
		slog.Int("diagnostics", len(diags)))
	return out, nil
}

func (e *elaborator) sequential(descs []ast.Description) ([]result, error) {
	results := make([]result, len(descs))
	for i, d := range descs {
		r, err := e.topLevel(d)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	return results, nil
}

// parallel elaborates descriptions concurrently and re-joins the results in
// declaration order. A task is skipped only when a description before it
// has already failed, so the earliest failing description always runs and
// its error is the one reported, as in sequential elaboration.
func (e *elaborator) parallel(descs []ast.Description, limit int) ([]result, error) {
	results := make([]result, len(descs))
	errs := make([]error, len(descs))
	var failed atomic.Int64
	failed.Store(int64(len(descs)))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, d := range descs {
		g.Go(func() error {
			if failed.Load() < int64(i) {
				return nil
			}
			results[i], errs[i] = e.topLevel(d)
			if errs[i] != nil {
				for {
					cur := failed.Load()
					if cur <= int64(i) || failed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// uniqueNames rejects sibling declarators sharing a name. The elements of
// one array are contiguous and the first has all-zero subscripts. Parent
// pointers are not set yet, so the path is built from parent.
func uniqueNames(nodes []rdl.Node, parent string) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if !firstElement(n.Index()) {
			continue
		}
		if _, dup := seen[n.BaseName()]; dup {
			return rdl.Invalid(n.Span(), "duplicate instance name %q", n.BaseName()).AtPath(joinPath(parent, n.Name()))
		}
		seen[n.BaseName()] = struct{}{}
	}
	return nil
}

func firstElement(index []int) bool {
	for _, i := range index {
		if i != 0 {
			return false
		}
	}
	return true
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
