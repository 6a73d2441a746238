package config

import (
	"os"

	"github.com/pkg/errors"
)

// Lock is an advisory, exclusive, whole-file lock used to prevent two
// instances of this module from synchronizing the same root concurrently.
// It's built on a dedicated lock file (root + ".fync.lock") rather than
// locking the root itself, mirroring the teacher's filesystem locker.
type Lock struct {
	file *os.File
}

// AcquireLock creates (if necessary) and locks the lock file for root. It
// blocks until the lock is available.
func AcquireLock(root string) (*Lock, error) {
	path := root + ".fync.lock"
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open lock file")
	}
	lock := &Lock{file: file}
	if err := lock.lock(); err != nil {
		file.Close()
		return nil, errors.Wrap(err, "unable to acquire lock")
	}
	return lock, nil
}

// Release unlocks and closes the lock file.
func (l *Lock) Release() error {
	if err := l.unlock(); err != nil {
		l.file.Close()
		return errors.Wrap(err, "unable to release lock")
	}
	return l.file.Close()
}
