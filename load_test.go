package gordl_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangrdl/gordl"
)

func names(root *gordl.Root) []string {
	var out []string
	for _, n := range root.Nodes() {
		out = append(out, n.Name())
	}
	return out
}

func TestLoadDir(t *testing.T) {
	root, err := gordl.Load(context.Background(), gordl.MustDir("testdata/soc"))
	require.NoError(t, err)

	// notes.yaml is skipped by the content heuristic, README.txt by extension.
	assert.Equal(t, []string{"timer", "gpio"}, names(root))

	load, ok := root.Find("timer.load[1]").(*gordl.Register)
	require.True(t, ok)
	assert.Equal(t, uint64(8), load.Offset())
	assert.Equal(t, uint64(12), root.Node("timer").(*gordl.AddrMap).Size())

	count, ok := root.Find("timer.ctrl.count").(*gordl.Field)
	require.True(t, ok)
	assert.Equal(t, "r", count.SWAccess().String())
	assert.Equal(t, "w", count.HWAccess().String())
	en, ok := root.Find("timer.ctrl.en").(*gordl.Field)
	require.True(t, ok)
	assert.Equal(t, "r", en.HWAccess().String())

	dir, ok := root.Find("gpio.dir").(*gordl.Register)
	require.True(t, ok)
	assert.Equal(t, uint64(2), dir.Offset())
	assert.Equal(t, "testdata/soc/02_gpio.rdl.yaml", dir.Span().File)
}

func TestLoadDirTree(t *testing.T) {
	root, err := gordl.Load(context.Background(), gordl.MustDirTree("testdata/soc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"timer", "gpio", "dma"}, names(root))
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml": {Data: []byte("descriptions:\n  - addrmap: {name: second, body: [{reg: {body: [{field: {insts: [f]}}], insts: [r]}}]}\n")},
		"a.yaml": {Data: []byte("descriptions:\n  - addrmap: {name: first, body: [{reg: {body: [{field: {insts: [f]}}], insts: [r]}}]}\n")},
		"x.bin":  {Data: []byte{0, 1, 2}},
	}
	root, err := gordl.Load(context.Background(), gordl.FS("mem", fsys))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, names(root))
	assert.Equal(t, "mem:a.yaml", root.Node("first").Span().File)
}

func TestLoadFilesAndMulti(t *testing.T) {
	src := gordl.Multi(
		gordl.Files("testdata/soc/nested/03_dma.yml"),
		gordl.MustDir("testdata/soc"),
	)
	root, err := gordl.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"dma", "timer", "gpio"}, names(root))
}

func TestLoadFile(t *testing.T) {
	root, err := gordl.LoadFile(context.Background(), "testdata/soc/02_gpio.rdl.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"gpio"}, names(root))
}

func TestLoadEarliestError(t *testing.T) {
	for range 10 {
		_, err := gordl.Load(context.Background(), gordl.MustDir("testdata/broken"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "b_bad.yaml:4:")
		assert.Contains(t, err.Error(), `"bogus"`)
	}
}

func TestLoadNoHeuristic(t *testing.T) {
	_, err := gordl.Load(context.Background(), gordl.MustDir("testdata/soc"), gordl.WithNoHeuristic())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes.yaml")
	assert.Contains(t, err.Error(), `"title"`)
}

func TestLoadErrors(t *testing.T) {
	_, err := gordl.Load(context.Background(), nil)
	assert.ErrorIs(t, err, gordl.ErrNoSources)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gordl.Load(ctx, gordl.MustDir("testdata/soc"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = gordl.LoadFile(context.Background(), "testdata/soc/missing.yaml")
	assert.Error(t, err)
}

func TestLoadElaborationError(t *testing.T) {
	fsys := fstest.MapFS{
		"dup.yaml": {Data: []byte("descriptions:\n  - addrmap: {name: top, body: [{prop: {sw: rw}}, {prop: {sw: r}}]}\n")},
	}
	_, err := gordl.Load(context.Background(), gordl.FS("mem", fsys))
	assert.ErrorIs(t, err, gordl.ErrDuplicateProperty)
}

func TestLoadLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := gordl.Load(context.Background(), gordl.MustDir("testdata/soc"), gordl.WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "component=loader")
	assert.Contains(t, out, "documents=3")
	assert.Contains(t, out, "content rejected by heuristic")
	assert.Contains(t, out, "notes.yaml")
}

func TestDecodeEncode(t *testing.T) {
	data, err := os.ReadFile("testdata/soc/01_timer.yaml")
	require.NoError(t, err)

	tree, err := gordl.Decode(data, "timer.yaml")
	require.NoError(t, err)
	require.Len(t, tree.Descriptions, 1)

	out, err := gordl.Encode(tree)
	require.NoError(t, err)
	again, err := gordl.Decode(out, "timer.yaml")
	require.NoError(t, err)

	a, err := gordl.Elaborate(tree)
	require.NoError(t, err)
	b, err := gordl.Elaborate(again)
	require.NoError(t, err)
	assert.Equal(t, a.Count(), b.Count())
	assert.Equal(t, a.Node("timer").(*gordl.AddrMap).Size(), b.Node("timer").(*gordl.AddrMap).Size())

	_, err = gordl.Decode([]byte("descriptions: [{bogus: {}}]"), "x.yaml")
	assert.ErrorContains(t, err, "x.yaml:1:")
}
