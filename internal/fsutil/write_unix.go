//go:build !windows

package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

func writeScoped(path string, perm os.FileMode, write func(w io.Writer) error) error {
	pf, err := renameio.NewPendingFile(path,
		renameio.WithPermissions(perm),
		renameio.WithTempDir(filepath.Dir(path)),
	)
	if err != nil {
		return err
	}
	// No-op once CloseAtomicallyReplace has succeeded.
	defer func() { _ = pf.Cleanup() }()

	if err := write(pf); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}
