package sitefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	fsys := fstest.MapFS{
		"b.md":               {Data: []byte("b")},
		"a/nested.md":        {Data: []byte("nested")},
		"a.md":               {Data: []byte("a")},
		"UPPER.MD":           {Data: []byte("upper")},
		"notes.txt":          {Data: []byte("ignored")},
		".hidden.md":         {Data: []byte("hidden")},
		".drafts/secret.md":  {Data: []byte("hidden dir")},
		"img/pic.png":        {Data: []byte{0x89}},
		"deep/er/still/x.md": {Data: []byte("x")},
	}

	docs, err := Discover(context.Background(), fsys)
	require.NoError(t, err)

	var paths []string
	for _, d := range docs {
		paths = append(paths, d.RelPath)
	}
	assert.Equal(t, []string{"UPPER.MD", "a.md", "a/nested.md", "b.md", "deep/er/still/x.md"}, paths)
	assert.Equal(t, "nested", string(docs[2].Raw))
}

func TestDiscover_Empty(t *testing.T) {
	docs, err := Discover(context.Background(), fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(context.Background(), os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestDiscover_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Discover(ctx, fstest.MapFS{"a.md": {Data: []byte("a")}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSink_Write(t *testing.T) {
	root := t.TempDir()
	sink := NewDirSink(root)

	require.NoError(t, sink.Write(context.Background(), "2024/post/index.html", []byte("<p>hi</p>")))

	b, err := os.ReadFile(filepath.Join(root, "2024", "post", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(b))
	assert.Equal(t, root, sink.Root())
}

func TestDirSink_RejectsEscapes(t *testing.T) {
	sink := NewDirSink(t.TempDir())
	for _, p := range []string{"../x.html", "/abs.html", ""} {
		err := sink.Write(context.Background(), p, []byte("x"))
		require.Error(t, err, p)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation), p)
	}
}

func TestCopyStatic(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "css", "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "favicon.ico"), []byte("ico"), 0o644))

	dst := t.TempDir()
	copied, err := CopyStatic(context.Background(), src, dst)
	require.NoError(t, err)
	assert.True(t, copied)

	b, err := os.ReadFile(filepath.Join(dst, "css", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(b))
	assert.FileExists(t, filepath.Join(dst, "favicon.ico"))
}

func TestCopyStatic_MissingSourceIsSkipped(t *testing.T) {
	copied, err := CopyStatic(context.Background(), filepath.Join(t.TempDir(), "public"), t.TempDir())
	require.NoError(t, err)
	assert.False(t, copied)
}

func TestCopyStatic_FileSource(t *testing.T) {
	src := filepath.Join(t.TempDir(), "public")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	_, err := CopyStatic(context.Background(), src, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
