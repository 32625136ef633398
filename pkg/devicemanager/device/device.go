/*
   Copyright @ 2021 bocloud <fushaosong@beyondcent.com>.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package device

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/carina-io/nasconsole/pkg/devicemanager/types"
	"github.com/carina-io/nasconsole/utils/exec"
	"github.com/carina-io/nasconsole/utils/log"
)

const LsblkCmd = "lsblk"

var lsblkColumns = "NAME,KNAME,TYPE,SIZE,MODEL,SERIAL,WWN,TRAN,PKNAME,MOUNTPOINT"

var pairRegexp = regexp.MustCompile(`([A-Za-z0-9:_-]+)="([^"]*)"`)

// BlockLister lists every block device known to the kernel
type BlockLister interface {
	ListBlockDevices() ([]*types.BlockDevice, error)
}

type LocalDeviceImplement struct {
	Executor exec.Executor
}

/*
# lsblk --pairs --bytes --output NAME,KNAME,TYPE,SIZE,MODEL,SERIAL,WWN,TRAN,PKNAME,MOUNTPOINT
NAME="sda" KNAME="sda" TYPE="disk" SIZE="85899345920" MODEL="QEMU HARDDISK" SERIAL="QM00001" WWN="" TRAN="sata" PKNAME="" MOUNTPOINT=""
NAME="sda1" KNAME="sda1" TYPE="part" SIZE="85897248768" MODEL="" SERIAL="" WWN="" TRAN="" PKNAME="sda" MOUNTPOINT="/"
NAME="sdb" KNAME="sdb" TYPE="disk" SIZE="107374182400" MODEL="ST1000NM0033" SERIAL="Z1W0" WWN="0x5000c500a1b2c3d4" TRAN="sas" PKNAME="" MOUNTPOINT=""
*/
func (ld *LocalDeviceImplement) ListBlockDevices() ([]*types.BlockDevice, error) {
	out, err := ld.Executor.ExecuteCommandWithOutput(LsblkCmd, "--pairs", "--bytes", "--output", lsblkColumns)
	if err != nil {
		log.Errorf("exec lsblk failed %s", err.Error())
		return nil, err
	}
	return parseBlockDevices(out)
}

func parseBlockDevices(out string) ([]*types.BlockDevice, error) {
	resp := []*types.BlockDevice{}
	if out == "" {
		return resp, nil
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		props := parseKeyValuePairString(line)
		if props["NAME"] == "" {
			return nil, fmt.Errorf("unexpected lsblk output line: %s", line)
		}
		tmp := types.BlockDevice{
			Name:       props["NAME"],
			KName:      props["KNAME"],
			Type:       props["TYPE"],
			Model:      strings.TrimSpace(props["MODEL"]),
			Serial:     strings.TrimSpace(props["SERIAL"]),
			WWN:        props["WWN"],
			Transport:  props["TRAN"],
			ParentName: props["PKNAME"],
			MountPoint: props["MOUNTPOINT"],
		}
		if props["SIZE"] != "" {
			size, err := strconv.ParseUint(props["SIZE"], 10, 64)
			if err != nil {
				log.Warnf("device %s: cannot parse size %q", tmp.Name, props["SIZE"])
			}
			tmp.Size = size
		}
		resp = append(resp, &tmp)
	}
	return resp, nil
}

// converts a raw key value pair string into a map of key value pairs
// example raw string of `foo="0" bar="1" baz="biz one"` is returned as:
// map[string]string{"foo":"0", "bar":"1", "baz":"biz one"}
func parseKeyValuePairString(propsRaw string) map[string]string {
	matches := pairRegexp.FindAllStringSubmatch(propsRaw, -1)
	propMap := make(map[string]string, len(matches))
	for _, m := range matches {
		propMap[m[1]] = m[2]
	}
	return propMap
}
