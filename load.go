package gordl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/astyaml"
	"github.com/golangrdl/gordl/internal/types"
)

// Load decodes every document listed by src, concatenates their
// descriptions in document order, and elaborates the result.
//
// Documents are decoded in parallel. If several fail, the error of the
// earliest document is returned. Documents rejected by the content
// heuristic are skipped unless WithNoHeuristic is given.
func Load(ctx context.Context, src Source, opts ...Option) (*Root, error) {
	if src == nil {
		return nil, ErrNoSources
	}
	cfg := newConfig(opts)
	tree, err := cfg.decodeAll(ctx, src)
	if err != nil {
		return nil, err
	}
	return cfg.elaborate(tree)
}

// LoadFile loads a single description document.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Root, error) {
	return Load(ctx, Files(path), opts...)
}

// Decode parses one YAML description document without elaborating it.
// name identifies the document in spans and errors.
func Decode(data []byte, name string) (*ast.Root, error) {
	return astyaml.Decode(data, name)
}

// Encode renders tree as a YAML description document that Decode reads
// back to an equivalent tree.
func Encode(tree *ast.Root) ([]byte, error) {
	return astyaml.Encode(tree)
}

func (c config) decodeAll(ctx context.Context, src Source) (*ast.Root, error) {
	logger := types.Component(c.logger, "loader")

	docs, err := src.Documents()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "decoding documents",
			slog.Int("documents", len(docs)))
	}

	heuristic := defaultHeuristic()
	if c.noHeuristic {
		heuristic.enabled = false
	}

	trees := make([]*ast.Root, len(docs))
	errs := make([]error, len(docs))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tree, err := heuristic.decode(doc)
			if err != nil {
				errs[i] = err
				return err
			}
			if tree == nil && logEnabled(logger, slog.LevelDebug) {
				logger.LogAttrs(ctx, slog.LevelDebug, "content rejected by heuristic",
					slog.String("document", doc.Name))
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Every document ran, so the lowest index is the earliest failure.
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, err
	}

	out := &ast.Root{}
	for _, t := range trees {
		if t != nil {
			out.Descriptions = append(out.Descriptions, t.Descriptions...)
		}
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "decoding complete",
			slog.Int("descriptions", len(out.Descriptions)))
	}
	return out, nil
}

var sigDescriptions = []byte("descriptions")

type heuristicConfig struct {
	enabled         bool
	binaryCheckSize int
	maxProbeSize    int
}

func defaultHeuristic() heuristicConfig {
	return heuristicConfig{
		enabled:         true,
		binaryCheckSize: 1024,
		maxProbeSize:    128 * 1024,
	}
}

// decode reads and decodes doc. It returns a nil tree when the content is
// rejected by the heuristic.
func (h heuristicConfig) decode(doc Document) (*ast.Root, error) {
	rc, err := doc.Open()
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return nil, err
	}
	if !h.looksLikeDescription(content) {
		return nil, nil
	}
	return astyaml.Decode(content, doc.Name)
}

func (h heuristicConfig) looksLikeDescription(content []byte) bool {
	if !h.enabled {
		return true
	}
	if len(content) == 0 {
		return false
	}

	checkLen := min(h.binaryCheckSize, len(content))
	if bytes.IndexByte(content[:checkLen], 0) >= 0 {
		return false
	}

	probe := content[:min(h.maxProbeSize, len(content))]
	if bytes.IndexByte(probe, 0) >= 0 {
		return false
	}
	return bytes.Contains(probe, sigDescriptions)
}
