package platform

import (
	"os"
	"runtime"

	"github.com/go-git/go-billy/v5"
)

// Chmod sets the permission bits of name on fsys. It is a no-op on Windows
// and on filesystems that cannot change modes.
func Chmod(fsys billy.Filesystem, name string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	changer, ok := fsys.(billy.Change)
	if !ok {
		return nil
	}
	return changer.Chmod(name, mode.Perm())
}
