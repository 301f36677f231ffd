package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListEnumeratesMediaFilesOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.MP4", "notes.txt", ".hidden.png", "c.webm"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.jpg"), 0755)) // a directory, not a file

	listing, err := List(dir)
	require.NoError(t, err)
	require.Positive(t, listing.Mtime)

	names := make(map[string]string, len(listing.Files))
	for _, f := range listing.Files {
		names[f.Name] = f.Type
	}
	require.Equal(t, map[string]string{
		"a.jpg": "image",
		"b.MP4": "video",
		"c.webm": "video",
	}, names)
	for _, f := range listing.Files {
		require.Positive(t, f.Mtime)
		require.EqualValues(t, 1, f.Size)
	}
}

func TestListEncodesFilenames(t *testing.T) {
	dir := t.TempDir()
	raw := "caf\xe9.jpg"
	require.NoError(t, os.WriteFile(filepath.Join(dir, raw), []byte("x"), 0644))

	listing, err := List(dir)
	require.NoError(t, err)
	require.Len(t, listing.Files, 1)
	require.Equal(t, "~~OSPATH~~caf~E9.jpg", listing.Files[0].Name)
}

func TestListMissingDirectory(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "gone"))
	require.True(t, os.IsNotExist(err))
}

func TestListEmptyDirectoryHasEmptyFiles(t *testing.T) {
	listing, err := List(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, listing.Files)
	require.Empty(t, listing.Files)
}

func TestMediaTypeTables(t *testing.T) {
	require.True(t, IsImage("photo.JPG"))
	require.True(t, IsImage("photo.jpeg"))
	require.True(t, IsImage("anim.gif"))
	require.True(t, IsVideo("clip.mkv"))
	require.True(t, IsVideo("clip.MOV"))
	require.False(t, IsImage("clip.mp4"))
	require.False(t, IsVideo("photo.png"))
	require.False(t, IsImage("noext"))
}

func TestTreeRecursesAndSkipsDotDirs(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "pics")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "album", "2024"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".thumbs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.jpg"), []byte("x"), 0644))

	lib, err := New([]string{root})
	require.NoError(t, err)

	tree := lib.Tree()
	require.Len(t, tree, 1)
	require.Equal(t, "pics", tree[0].Name)
	require.Len(t, tree[0].Dirs, 1)
	require.Equal(t, "album", tree[0].Dirs[0].Name)
	require.Len(t, tree[0].Dirs[0].Dirs, 1)
	require.Equal(t, "2024", tree[0].Dirs[0].Dirs[0].Name)
	require.Empty(t, tree[0].Dirs[0].Dirs[0].Dirs)
}

func TestTreeRootsKeepRegistrationOrder(t *testing.T) {
	base := t.TempDir()
	zebra := filepath.Join(base, "zebra")
	alpha := filepath.Join(base, "alpha")
	require.NoError(t, os.MkdirAll(zebra, 0755))
	require.NoError(t, os.MkdirAll(alpha, 0755))

	lib, err := New([]string{zebra, alpha})
	require.NoError(t, err)

	tree := lib.Tree()
	require.Len(t, tree, 2)
	require.Equal(t, "zebra", tree[0].Name)
	require.Equal(t, "alpha", tree[1].Name)
}
