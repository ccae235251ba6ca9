package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-staff-auth/employees"
)

// FileStorage reads and writes the employee list as a JSON file
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the data file location
func (f *FileStorage) Path() string {
	return f.path
}

// EnsureExists creates the data directory and an empty "[]" file when missing
func (f *FileStorage) EnsureExists() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat data file: %w", err)
	}

	return f.Save([]employees.Employee{})
}

// Load reads all employees from the file
func (f *FileStorage) Load() ([]employees.Employee, error) {
	if err := f.EnsureExists(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var items []employees.Employee
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode data file %s: %w", f.path, err)
	}

	return items, nil
}

// Save replaces the file contents with items. The write goes to a
// temporary file first and is renamed into place.
func (f *FileStorage) Save(items []employees.Employee) error {
	if items == nil {
		items = []employees.Employee{}
	}

	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode employees: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".employees-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	return nil
}
