package gordl

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions recognized as description
// documents. Matching is by suffix, so ".yaml" also covers ".rdl.yaml".
var DefaultExtensions = []string{".yaml", ".yml"}

// Document is one description document listed by a Source.
type Document struct {
	// Name identifies the document in spans and errors.
	Name string
	// Open returns the document content.
	Open func() (io.ReadCloser, error)
}

// Source lists description documents.
type Source interface {
	// Documents returns the documents in load order.
	Documents() ([]Document, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig(opts []SourceOption) sourceConfig {
	cfg := sourceConfig{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- Dir Source (single directory) ---

type dirSource struct {
	path   string
	config sourceConfig
}

// Dir creates a Source for the documents directly inside a directory,
// in lexical order. Subdirectories are ignored.
func Dir(path string, opts ...SourceOption) (Source, error) {
	if err := checkDir(path); err != nil {
		return nil, err
	}
	return &dirSource{path: path, config: defaultSourceConfig(opts)}, nil
}

// MustDir is like Dir but panics on error.
func MustDir(path string, opts ...SourceOption) Source {
	src, err := Dir(path, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *dirSource) Documents() ([]Document, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p := filepath.Join(s.path, entry.Name())
		if hasExtension(p, s.config.extensions) {
			docs = append(docs, osDocument(p))
		}
	}
	return docs, nil
}

// --- DirTree Source (recursive directory) ---

type treeSource struct {
	root   string
	config sourceConfig
}

// DirTree creates a Source for every document below root, in lexical
// path order. Unreadable subdirectories are skipped.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	if err := checkDir(root); err != nil {
		return nil, err
	}
	return &treeSource{root: root, config: defaultSourceConfig(opts)}, nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *treeSource) Documents() ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && hasExtension(p, s.config.extensions) {
			docs = append(docs, osDocument(p))
		}
		return nil
	})
	return docs, err
}

// --- FS Source (for embed.FS, testing) ---

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig
}

// FS creates a Source for every document in fsys (e.g., embed.FS), in
// lexical path order. Document names are prefixed with name.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	return &fsSource{name: name, fsys: fsys, config: defaultSourceConfig(opts)}
}

func (s *fsSource) Documents() ([]Document, error) {
	var docs []Document
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasExtension(p, s.config.extensions) {
			return nil
		}
		docs = append(docs, Document{
			Name: s.name + ":" + p,
			Open: func() (io.ReadCloser, error) { return s.fsys.Open(p) },
		})
		return nil
	})
	return docs, err
}

// --- Files Source (explicit list) ---

type filesSource struct {
	paths []string
}

// Files creates a Source for the given paths, in the given order,
// regardless of their extensions.
func Files(paths ...string) Source {
	return &filesSource{paths: slices.Clone(paths)}
}

func (s *filesSource) Documents() ([]Document, error) {
	docs := make([]Document, len(s.paths))
	for i, p := range s.paths {
		docs[i] = osDocument(p)
	}
	return docs, nil
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
}

// Multi combines sources; their documents are loaded in source order.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Documents() ([]Document, error) {
	var docs []Document
	for _, src := range s.sources {
		d, err := src.Documents()
		if err != nil {
			return nil, err
		}
		docs = append(docs, d...)
	}
	return docs, nil
}

// --- Helpers ---

func checkDir(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "open", Path: p, Err: os.ErrInvalid}
	}
	return nil
}

func osDocument(p string) Document {
	return Document{
		Name: p,
		Open: func() (io.ReadCloser, error) { return os.Open(p) },
	}
}

func hasExtension(p string, exts []string) bool {
	base := strings.ToLower(path.Base(filepath.ToSlash(p)))
	for _, ext := range exts {
		if strings.HasSuffix(base, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
