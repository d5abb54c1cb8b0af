// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "b10.JPG", "b9.jpg", "a.webp", "notes.txt", ".hidden.jpg")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.jpg"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeImages(t, filepath.Join(dir, "nested"), "b1.jpg")

	files, err := Discover(dir, []string{".jpg"})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
		assert.True(t, filepath.IsAbs(f.Path))
		assert.Equal(t, ".jpg", f.Ext)
	}
	assert.Equal(t, []string{".hidden.jpg", "b9.jpg", "b10.JPG"}, names)
}

func TestDiscover_FollowsSymlinkedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.jpg")
	require.NoError(t, os.WriteFile(target, []byte("image"), 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link1.jpg")))
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(dir, "dirlink.jpg")))

	files, err := Discover(dir, []string{"jpg"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "link1.jpg", files[0].Name)
}

func TestDiscover_Errors(t *testing.T) {
	_, err := Discover(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrDiscovery)

	_, err = Discover(filepath.Join(t.TempDir(), "missing"), []string{".jpg"})
	assert.ErrorIs(t, err, ErrDiscovery)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIntermediateName(t *testing.T) {
	assert.Equal(t, "temp_0.pdf", IntermediateName(0))
	assert.Equal(t, "temp_12.pdf", IntermediateName(12))
}
