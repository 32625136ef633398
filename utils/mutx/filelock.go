package mutx

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrLocked another session holds the lock
var ErrLocked = errors.New("locked by another session")

// FileLock advisory exclusive lock on an existing file. Edits of a shared
// configuration file need to be performed sequentially across consoles.
type FileLock struct {
	path string
	f    *os.File
}

// TryLock returns ErrLocked instead of waiting when the file is already locked
func TryLock(path string) (*FileLock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return &FileLock{path: path, f: f}, nil
}

// Release unlocks and closes, safe on a nil lock
func (l *FileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	defer func() { l.f = nil }()
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return fmt.Errorf("unlock %s: %w", l.path, err)
	}
	return l.f.Close()
}
