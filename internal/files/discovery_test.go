package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscovery_FindCSVFiles(t *testing.T) {
	dir := writeFiles(t, "b.csv", "a.CSV", "notes.txt", "growth.xlsx")
	d := NewDiscovery(dir)

	files, err := d.FindCSVFiles(".")
	require.NoError(t, err)
	require.Len(t, files, 2)
	// Sorted by name, case-insensitive extension match.
	assert.Equal(t, "a.CSV", files[0].Name)
	assert.Equal(t, "b.csv", files[1].Name)
}

func TestDiscovery_FirstWorkbook(t *testing.T) {
	t.Run("first in sorted order", func(t *testing.T) {
		dir := writeFiles(t, "z_results.xlsx", "a_results.xlsx", "env.csv")
		d := NewDiscovery(dir)

		book, ok, err := d.FirstWorkbook(".")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "a_results.xlsx", book.Name)
	})

	t.Run("no workbook present", func(t *testing.T) {
		dir := writeFiles(t, "env.csv")
		d := NewDiscovery(dir)

		_, ok, err := d.FirstWorkbook(".")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing directory errors", func(t *testing.T) {
		d := NewDiscovery(t.TempDir())
		_, _, err := d.FirstWorkbook("absent")
		assert.Error(t, err)
	})
}

func TestDiscovery_AbsolutePath(t *testing.T) {
	dir := writeFiles(t, "a.csv")
	d := NewDiscovery(filepath.Join(dir, "unused-base"))

	files, err := d.FindCSVFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "a.csv"), files[0].Path)
	info, err := os.Stat(files[0].Path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), files[0].Size)
}
