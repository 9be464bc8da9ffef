package fshelper

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte("data"), 0o644))
}

func writeZip(t *testing.T, name string, entries ...string) {
	t.Helper()
	f, err := os.Create(name)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e)
		require.NoError(t, err)
		_, err = w.Write([]byte("data"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestListImages(t *testing.T) {
	fsys := fstest.MapFS{
		"b.JPG":             {},
		"a.jpg":             {},
		"a.jpg.xmp":         {},
		"notes.txt":         {},
		"sub/c.tif":         {},
		".thumbs/d.jpg":     {},
		"__MACOSX/._a.jpg":  {},
		"sub/.hidden.jpeg":  {},
		"sub/deeper/e.heic": {},
	}

	files, err := ListImages(fsys)
	require.NoError(t, err)

	want := []string{"a.jpg", "b.JPG", "sub/c.tif", "sub/deeper/e.heic"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("ListImages() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("x/photo.JPEG"))
	assert.True(t, IsImageFile("raw.dng"))
	assert.False(t, IsImageFile("photo.xmp"))
	assert.False(t, IsImageFile("movie.mp4"))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "album", "one.jpg"))
	writeFile(t, filepath.Join(root, "album", "two.txt"))
	writeFile(t, filepath.Join(root, "single.bin"))
	writeZip(t, filepath.Join(root, "takeout.zip"), "Photos/three.jpg", "Photos/three.json")

	sources, err := Discover([]string{
		filepath.Join(root, "album"),
		filepath.Join(root, "*.zip"),
		filepath.Join(root, "single.bin"),
	})
	require.NoError(t, err)
	defer CloseAll(sources)
	require.Len(t, sources, 3)

	assert.Equal(t, "album", sources[0].FS.Name())
	assert.Equal(t, []string{"one.jpg"}, sources[0].Files)

	assert.Equal(t, "takeout.zip", sources[1].FS.Name())
	assert.Equal(t, []string{"Photos/three.jpg"}, sources[1].Files)
	_, isZip := sources[1].FS.(*ZipFS)
	assert.True(t, isZip)

	assert.Equal(t, []string{"single.bin"}, sources[2].Files)
	data, err := sources[2].FS.Open("single.bin")
	require.NoError(t, err)
	data.Close()
}

func TestDiscoverMissing(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "nope")})
	assert.ErrorContains(t, err, "path does not exist")
}

func TestOpenZipInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "broken.zip")
	writeFile(t, name)

	_, err := OpenZip(name)
	assert.Error(t, err)
}
