package device

import (
	"strings"

	"github.com/carina-io/nasconsole/utils/exec"
)

const UdevadmCmd = "udevadm"

// HardwarePather resolves the persistent hardware path of a disk
type HardwarePather interface {
	HardwarePath(devicePath string) (string, error)
}

type UdevImplement struct {
	Executor exec.Executor
}

/*
# udevadm info --query=property --name=/dev/sda
DEVNAME=/dev/sda
DEVTYPE=disk
ID_PATH=pci-0000:00:1f.2-ata-1
ID_SERIAL=QEMU_HARDDISK_QM00001
*/
func (u *UdevImplement) HardwarePath(devicePath string) (string, error) {
	if _, err := u.Executor.LookPath(UdevadmCmd); err != nil {
		return "", err
	}
	out, err := u.Executor.ExecuteCommandWithOutput(UdevadmCmd, "info", "--query=property", "--name="+devicePath)
	if err != nil {
		return "", err
	}
	return parseUdevProperty(out, "ID_PATH"), nil
}

func parseUdevProperty(out, key string) string {
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if ok && k == key {
			return v
		}
	}
	return ""
}
