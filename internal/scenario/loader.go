package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader reads scenario files from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a new scenario loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all scenario files. Files that fail
// to parse are skipped. Results are sorted by ID.
func (l *Loader) LoadAll() ([]*File, error) {
	var files []*File

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		f, err := l.LoadFile(path)
		if err != nil {
			return nil
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ID() < files[j].ID()
	})
	return files, nil
}

// LoadFile loads a single scenario file.
func (l *Loader) LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	if !isSupportedExtension(filepath.Ext(path)) {
		return nil, fmt.Errorf("unsupported extension: %s", filepath.Ext(path))
	}
	def, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}

	return &File{Def: def, Path: path}, nil
}

// LoadByID loads a specific scenario by ID.
func (l *Loader) LoadByID(id string) (*File, error) {
	files, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.ID() == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrUnknown, id, l.Root)
}

// ListIDs returns all scenario IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	files, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID()
	}
	return ids, nil
}

// RegisterDir adds every scenario file under root to the registry. A
// missing root is not an error. Files whose ID is already taken are
// skipped and reported in the returned error.
func RegisterDir(root string) (int, error) {
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}

	files, err := NewLoader(root).LoadAll()
	if err != nil {
		return 0, err
	}

	var errs []error
	added := 0
	for _, f := range files {
		if err := Add(f.ID(), func() Scenario { return f }); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Path, err))
			continue
		}
		added++
	}
	return added, errors.Join(errs...)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

func isSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
