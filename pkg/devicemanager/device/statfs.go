package device

import (
	"errors"

	"golang.org/x/sys/unix"
)

// FilesystemUsage reports space of a mounted filesystem
type FilesystemUsage interface {
	// Usage returns used and total bytes of the filesystem mounted at mountPoint
	Usage(mountPoint string) (used, total uint64, err error)
}

type StatfsImplement struct{}

func (s *StatfsImplement) Usage(mountPoint string) (uint64, uint64, error) {
	var sfs unix.Statfs_t
	if err := statfs(mountPoint, &sfs); err != nil {
		return 0, 0, err
	}
	frsize := uint64(sfs.Frsize)
	return (sfs.Blocks - sfs.Bfree) * frsize, sfs.Blocks * frsize, nil
}

// statfs retries on EINTR, Go 1.14+ delivers preemption signals to blocked syscalls
func statfs(path string, buf *unix.Statfs_t) error {
	for {
		err := unix.Statfs(path, buf)
		if err == nil || !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
