package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNotFound indicates no directory entry matched the target.
	ErrNotFound = errors.New("no matching file")

	// ErrDirectoryMissing indicates the directory itself does not exist.
	// Callers must be able to tell this apart from ErrNotFound.
	ErrDirectoryMissing = errors.New("directory does not exist")
)

// Match is a resolved directory entry.
type Match struct {
	Path string
	Name string
}

// Normalize returns s in canonical composition form (NFC), so that
// visually identical names with different code-point decompositions
// compare equal.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// SimplifyName normalizes s to NFC and strips spaces, underscores and
// hyphens. Case is preserved.
func SimplifyName(s string) string {
	s = Normalize(s)
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// ResolveExact finds the entry in dir whose NFC-normalized name equals
// the NFC-normalized target.
func ResolveExact(dir, target string) (Match, error) {
	names, err := sortedNames(dir)
	if err != nil {
		return Match{}, err
	}

	want := Normalize(target)
	for _, name := range names {
		if Normalize(name) == want {
			return Match{Path: filepath.Join(dir, name), Name: name}, nil
		}
	}
	return Match{}, fmt.Errorf("%q in %s: %w", target, dir, ErrNotFound)
}

// ResolveByKey finds the first entry (in sorted name order) whose
// simplified name contains the simplified key. Only entries with one of
// the given extensions are considered; extension comparison is
// case-insensitive, containment is not.
func ResolveByKey(dir, key string, exts ...string) (Match, error) {
	names, err := sortedNames(dir)
	if err != nil {
		return Match{}, err
	}

	want := SimplifyName(key)
	for _, name := range names {
		if !hasExtension(name, exts) {
			continue
		}
		if strings.Contains(SimplifyName(name), want) {
			return Match{Path: filepath.Join(dir, name), Name: name}, nil
		}
	}
	return Match{}, fmt.Errorf("key %q in %s: %w", key, dir, ErrNotFound)
}

// sortedNames lists the file names in dir in lexicographic order.
// Subdirectories are skipped.
func sortedNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrDirectoryMissing)
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func hasExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	got := filepath.Ext(name)
	for _, ext := range exts {
		if strings.EqualFold(got, ext) {
			return true
		}
	}
	return false
}
