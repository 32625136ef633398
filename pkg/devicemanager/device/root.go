package device

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carina-io/nasconsole/utils/log"
	"k8s.io/mount-utils"
)

const rootMountPoint = "/"

// RootResolver finds the block device behind the root filesystem
type RootResolver interface {
	// RootDevice returns the kernel name of the device mounted on /, e.g. sda2 or dm-0
	RootDevice() (string, error)
}

type MountRootResolver struct {
	Mounter mount.Interface
}

func NewMountRootResolver() *MountRootResolver {
	return &MountRootResolver{Mounter: mount.New("")}
}

func (r *MountRootResolver) RootDevice() (string, error) {
	mps, err := r.Mounter.List()
	if err != nil {
		return "", fmt.Errorf("failed to list mount points: %w", err)
	}

	source := ""
	// the last mount over / is the one in effect
	for i := len(mps) - 1; i >= 0; i-- {
		if filepath.Clean(mps[i].Path) != rootMountPoint {
			continue
		}
		if strings.HasPrefix(mps[i].Device, "/dev/") {
			source = mps[i].Device
			break
		}
	}
	if source == "" {
		return "", errors.New("root filesystem is not backed by a block device")
	}

	resolved, err := filepath.EvalSymlinks(source)
	if err != nil {
		log.Debugf("cannot resolve %s: %v", source, err)
		resolved = source
	}
	return filepath.Base(resolved), nil
}
