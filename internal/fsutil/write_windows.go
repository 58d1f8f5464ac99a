//go:build windows

package fsutil

import (
	"io"
	"os"
)

// renameio does not support Windows; write in place and remove the file if
// the write fails.
func writeScoped(path string, perm os.FileMode, write func(w io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err = write(f); err != nil {
		return err
	}
	return f.Sync()
}
