package gordl

import (
	"io"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docNames(t *testing.T, src Source) []string {
	t.Helper()
	docs, err := src.Documents()
	require.NoError(t, err)
	var out []string
	for _, d := range docs {
		out = append(out, filepath.ToSlash(d.Name))
	}
	return out
}

func TestDirErrors(t *testing.T) {
	_, err := Dir("/this/path/does/not/exist/at/all")
	assert.Error(t, err)

	_, err = Dir("testdata/soc/01_timer.yaml")
	assert.Error(t, err, "a file is not a directory")

	_, err = DirTree("testdata/soc/01_timer.yaml")
	assert.Error(t, err)

	assert.Panics(t, func() { MustDir("/this/path/does/not/exist") })
	assert.Panics(t, func() { MustDirTree("/this/path/does/not/exist") })
}

func TestDirDocuments(t *testing.T) {
	assert.Equal(t, []string{
		"testdata/soc/01_timer.yaml",
		"testdata/soc/02_gpio.rdl.yaml",
		"testdata/soc/notes.yaml",
	}, docNames(t, MustDir("testdata/soc")))
}

func TestDirTreeDocuments(t *testing.T) {
	assert.Equal(t, []string{
		"testdata/soc/01_timer.yaml",
		"testdata/soc/02_gpio.rdl.yaml",
		"testdata/soc/nested/03_dma.yml",
		"testdata/soc/notes.yaml",
	}, docNames(t, MustDirTree("testdata/soc")))
}

func TestWithExtensions(t *testing.T) {
	assert.Equal(t, []string{"testdata/soc/README.txt"},
		docNames(t, MustDir("testdata/soc", WithExtensions(".TXT"))))
	assert.Equal(t, []string{"testdata/soc/02_gpio.rdl.yaml"},
		docNames(t, MustDirTree("testdata/soc", WithExtensions(".rdl.yaml"))))
}

func TestFSDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"z.yml":        {Data: []byte("descriptions: []")},
		"sub/a.yaml":   {Data: []byte("descriptions: []")},
		"ignored.json": {Data: []byte("{}")},
	}
	src := FS("pack", fsys)
	assert.Equal(t, []string{"pack:sub/a.yaml", "pack:z.yml"}, docNames(t, src))

	docs, err := src.Documents()
	require.NoError(t, err)
	rc, err := docs[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "descriptions: []", string(data))
}

func TestFilesKeepsOrder(t *testing.T) {
	paths := []string{"b.txt", "a.yaml"}
	src := Files(paths...)
	paths[0] = "changed"
	assert.Equal(t, []string{"b.txt", "a.yaml"}, docNames(t, src))

	docs, err := src.Documents()
	require.NoError(t, err)
	_, err = docs[0].Open()
	assert.Error(t, err)
}

func TestMultiPropagatesErrors(t *testing.T) {
	src := Multi(Files("x.yaml"), errSource{})
	_, err := src.Documents()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

type errSource struct{}

func (errSource) Documents() ([]Document, error) { return nil, io.ErrUnexpectedEOF }

func TestHeuristic(t *testing.T) {
	h := defaultHeuristic()
	assert.True(t, h.looksLikeDescription([]byte("descriptions:\n  - addrmap: {name: a}\n")))
	assert.False(t, h.looksLikeDescription(nil))
	assert.False(t, h.looksLikeDescription([]byte("title: notes\n")))
	assert.False(t, h.looksLikeDescription([]byte("descriptions:\x00\x01")))

	h.enabled = false
	assert.True(t, h.looksLikeDescription([]byte("title: notes\n")))
}
