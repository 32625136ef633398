package device

import (
	"strings"

	"github.com/carina-io/nasconsole/utils/exec"
	"github.com/carina-io/nasconsole/utils/log"
)

const LsscsiCmd = "lsscsi"

// BusLocator maps device names to their SCSI host:channel:target:lun address
type BusLocator interface {
	BusLocations() (map[string]string, error)
}

type ScsiBusImplement struct {
	Executor exec.Executor
}

/*
# lsscsi
[0:0:0:0]    disk    ATA      QEMU HARDDISK    2.5+  /dev/sda
[2:0:1:0]    disk    SEAGATE  ST1000NM0033     0002  /dev/sdb
[N:0:1:1]    disk    Samsung SSD 970 EVO Plus 500GB__1          /dev/nvme0n1
*/
func (s *ScsiBusImplement) BusLocations() (map[string]string, error) {
	if _, err := s.Executor.LookPath(LsscsiCmd); err != nil {
		return nil, err
	}
	out, err := s.Executor.ExecuteCommandWithOutput(LsscsiCmd)
	if err != nil {
		log.Warnf("exec lsscsi failed %s", err.Error())
		return nil, err
	}
	return parseBusLocations(out), nil
}

func parseBusLocations(out string) map[string]string {
	resp := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		addr := fields[0]
		node := fields[len(fields)-1]
		if !strings.HasPrefix(addr, "[") || !strings.HasSuffix(addr, "]") || !strings.HasPrefix(node, "/dev/") {
			continue
		}
		resp[strings.TrimPrefix(node, "/dev/")] = strings.Trim(addr, "[]")
	}
	return resp
}
