// Package fsutil contains the file helpers the crash writer and the CLI
// share: scoped reads and writes whose handles are released on every path.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ReadFileScoped reads a file by opening a root at the file's directory.
// This scopes access to the intended directory and avoids path traversal.
func ReadFileScoped(path string) ([]byte, error) {
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file path: %q", path)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	file, err := root.Open(base)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// WriteScoped creates path, hands the open file to write and commits it.
// The handle is released on every exit path, including a failing write, and
// a failed write never leaves a partial file at path.
func WriteScoped(path string, perm os.FileMode, write func(w io.Writer) error) error {
	if write == nil {
		return fmt.Errorf("nil write function for %q", path)
	}
	return writeScoped(path, perm, write)
}

// Entry is a regular file found by ListFiles.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// ListFiles returns the regular files in dir whose names start with prefix
// and end with suffix, newest first.
func ListFiles(dir, prefix, suffix string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Name:    name,
			Path:    filepath.Join(dir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].Name > out[j].Name
		}
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}
