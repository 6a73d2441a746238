//go:build windows

package config

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32     = windows.NewLazySystemDLL("kernel32.dll")
	lockFileEx   = kernel32.NewProc("LockFileEx")
	unlockFileEx = kernel32.NewProc("UnlockFileEx")
)

const lockfileExclusiveLock = 2

func (l *Lock) lock() error {
	var overlapped syscall.Overlapped
	r1, _, errno := syscall.Syscall6(
		lockFileEx.Addr(), 6,
		uintptr(l.file.Fd()), uintptr(lockfileExclusiveLock), 0, 1, 0,
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if r1 == 0 {
		if errno != 0 {
			return errno
		}
		return syscall.EINVAL
	}
	return nil
}

func (l *Lock) unlock() error {
	var overlapped syscall.Overlapped
	r1, _, errno := syscall.Syscall6(
		unlockFileEx.Addr(), 5,
		uintptr(l.file.Fd()), 0, 1, 0, uintptr(unsafe.Pointer(&overlapped)), 0,
	)
	if r1 == 0 {
		if errno != 0 {
			return errno
		}
		return syscall.EINVAL
	}
	return nil
}
