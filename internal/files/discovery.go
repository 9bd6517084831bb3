package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/internal/config"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations over the data directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVFiles finds all CSV files in the specified directory, sorted by name
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.findByExtension(dir, config.EnvironmentFileExt)
}

// FindWorkbooks finds all xlsx workbooks in the specified directory, sorted by name
func (d *Discovery) FindWorkbooks(dir string) ([]FileInfo, error) {
	return d.findByExtension(dir, config.WorkbookFileExt)
}

// FirstWorkbook returns the first workbook in sorted name order, matching
// the "exactly one multi-sheet workbook" layout contract. The second
// return value is false when the directory holds no workbook.
func (d *Discovery) FirstWorkbook(dir string) (FileInfo, bool, error) {
	books, err := d.FindWorkbooks(dir)
	if err != nil {
		return FileInfo{}, false, err
	}
	if len(books) == 0 {
		return FileInfo{}, false, nil
	}
	return books[0], true, nil
}

func (d *Discovery) findByExtension(dir, ext string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", fullPath, ErrDirectoryMissing)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
