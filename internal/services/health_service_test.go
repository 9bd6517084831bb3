package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthService_Check(t *testing.T) {
	t.Run("healthy with data files", func(t *testing.T) {
		dir := writeDataDir(t)
		svc := NewHealthService(dir, testLogger())

		status := svc.Check(context.Background())

		assert.Equal(t, "healthy", status.Status)
		assert.True(t, status.DataDirExists)
		assert.Equal(t, 4, status.CSVFiles)
		assert.Equal(t, 1, status.Workbooks)
		assert.NotEmpty(t, status.Version)
	})

	t.Run("healthy with empty directory", func(t *testing.T) {
		svc := NewHealthService(t.TempDir(), testLogger())

		status := svc.Check(context.Background())

		assert.Equal(t, "healthy", status.Status)
		assert.True(t, status.DataDirExists)
		assert.Zero(t, status.CSVFiles)
	})

	t.Run("degraded when directory missing", func(t *testing.T) {
		svc := NewHealthService(filepath.Join(t.TempDir(), "gone"), testLogger())

		status := svc.Check(context.Background())

		assert.Equal(t, "degraded", status.Status)
		assert.False(t, status.DataDirExists)
	})
}
