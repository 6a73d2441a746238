package core

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// writeFileAtomic writes data to path such that a crash mid-write can never
// leave a torn file in place: it writes to a temporary file in the same
// directory (so the final rename is same-filesystem and thus atomic) and
// renames it into place, exactly the discipline the teacher's
// filesystem.WriteFileAtomic uses and that spec.md §4.1/§6 mandates ("write
// must be crash-safe").
func writeFileAtomic(path string, data []byte) error {
	dirname, basename := filepath.Split(path)
	temporary, err := os.CreateTemp(dirname, basename)
	if err != nil {
		return errors.Wrap(err, "unable to create temporary file")
	}

	if _, err = temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporary.Name())
		return errors.Wrap(err, "unable to write data to temporary file")
	}

	if err = temporary.Close(); err != nil {
		os.Remove(temporary.Name())
		return errors.Wrap(err, "unable to close temporary file")
	}

	if err = os.Rename(temporary.Name(), path); err != nil {
		os.Remove(temporary.Name())
		return errors.Wrap(err, "unable to rename file into place")
	}

	if err = postWriteFixup(path); err != nil {
		return errors.Wrap(err, "unable to finalize file permissions")
	}

	return nil
}
