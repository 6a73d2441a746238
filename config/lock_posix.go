//go:build !windows

package config

import "golang.org/x/sys/unix"

func (l *Lock) lock() error {
	spec := unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: 0,
		Start:  0,
		Len:    0,
	}
	return unix.FcntlFlock(l.file.Fd(), unix.F_SETLKW, &spec)
}

func (l *Lock) unlock() error {
	spec := unix.Flock_t{
		Type:   unix.F_UNLCK,
		Whence: 0,
		Start:  0,
		Len:    0,
	}
	return unix.FcntlFlock(l.file.Fd(), unix.F_SETLK, &spec)
}
