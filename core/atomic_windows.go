//go:build windows

package core

import (
	"github.com/hectane/go-acl"
)

// postWriteFixup resets the inherited ACL on a freshly renamed file. On
// Windows, os.Rename can leave a file with the temporary file's restrictive
// ACL rather than one appropriate for its final location; go-acl's Chmod
// reapplies a standard, inheritance-respecting ACL, mirroring the teacher's
// filesystem/atomic_windows.go.
func postWriteFixup(path string) error {
	return acl.Chmod(path, 0o644)
}
