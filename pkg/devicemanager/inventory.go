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

package devicemanager

import (
	"strings"

	"github.com/carina-io/nasconsole/pkg/devicemanager/device"
	"github.com/carina-io/nasconsole/pkg/devicemanager/types"
	"github.com/carina-io/nasconsole/utils/exec"
	"github.com/carina-io/nasconsole/utils/log"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Inventory reconciles the block device listing, bus topology and SMART data
// into disk records. Nothing is cached, every call takes a fresh snapshot.
type Inventory struct {
	// 块设备列表
	Blocks device.BlockLister
	// 根文件系统所在设备
	Root device.RootResolver
	Bus  device.BusLocator
	// 温度
	Smart device.SmartQuerier
	Udev  device.HardwarePather
	// 分区文件系统用量
	Fs device.FilesystemUsage
}

func NewInventory(executor exec.Executor) *Inventory {
	return &Inventory{
		Blocks: &device.LocalDeviceImplement{Executor: executor},
		Root:   device.NewMountRootResolver(),
		Bus:    &device.ScsiBusImplement{Executor: executor},
		Smart:  &device.SmartImplement{Executor: executor},
		Udev:   &device.UdevImplement{Executor: executor},
		Fs:     &device.StatfsImplement{},
	}
}

// snapshot one consistent view of the block devices
type snapshot struct {
	devices []*types.BlockDevice
	// boot disk name, empty when it could not be resolved
	boot string
	// names of every device that is the parent of a partition
	partitioned sets.String
}

func (inv *Inventory) snapshot() (*snapshot, error) {
	devices, err := inv.Blocks.ListBlockDevices()
	if err != nil {
		return nil, err
	}

	s := &snapshot{devices: devices, partitioned: sets.NewString()}
	for _, d := range devices {
		if d.Type == types.PartType && d.ParentName != "" {
			s.partitioned.Insert(d.ParentName)
		}
	}

	root, err := inv.Root.RootDevice()
	if err != nil {
		log.Warnf("unable to resolve the boot disk, no disk is excluded: %s", err.Error())
		return s, nil
	}
	s.boot = bootDisk(devices, root)
	if s.boot == "" {
		log.Warnf("root device %s not found in the block device list, no disk is excluded", root)
	} else {
		log.Debugf("boot disk %s (root on %s)", s.boot, root)
	}
	return s, nil
}

// bootDisk walks from the root device up through its parents to the whole disk
func bootDisk(devices []*types.BlockDevice, root string) string {
	byName := make(map[string]*types.BlockDevice, len(devices))
	for _, d := range devices {
		byName[d.Name] = d
	}
	// lvm, crypt and multipath roots resolve to their dm-N kernel name
	for _, d := range devices {
		if strings.HasPrefix(d.KName, types.DeviceMapperPrefix) {
			if _, ok := byName[d.KName]; !ok {
				byName[d.KName] = d
			}
		}
	}

	visited := sets.NewString()
	name := root
	for !visited.Has(name) {
		visited.Insert(name)
		d, ok := byName[name]
		if !ok {
			return ""
		}
		if d.Type == types.DiskType || d.ParentName == "" {
			return d.Name
		}
		name = d.ParentName
	}
	return ""
}

// dataDisks whole disks in listing order, boot disk excluded
func (s *snapshot) dataDisks() []*types.BlockDevice {
	var disks []*types.BlockDevice
	for _, d := range s.devices {
		if d.Type != types.DiskType || d.Name == s.boot {
			continue
		}
		disks = append(disks, d)
	}
	return disks
}

func (s *snapshot) role(d *types.BlockDevice) types.Role {
	switch {
	case d.Name == s.boot:
		return types.RoleBoot
	case s.partitioned.Has(d.Name):
		return types.RoleDataInUse
	}
	return types.RoleDataUnused
}

func (s *snapshot) record(d *types.BlockDevice) *types.DiskRecord {
	return &types.DiskRecord{
		Name:      d.Name,
		WWN:       d.WWN,
		Model:     d.Model,
		Serial:    d.Serial,
		Size:      d.Size,
		Transport: d.Transport,
		Role:      s.role(d),
	}
}

// partitions of disk in listing order, usage filled for mounted ones
func (inv *Inventory) partitions(s *snapshot, disk string) []*types.PartitionRecord {
	var resp []*types.PartitionRecord
	for _, d := range s.devices {
		if d.Type != types.PartType || d.ParentName != disk {
			continue
		}
		p := &types.PartitionRecord{Name: d.Name, Size: d.Size, MountPoint: d.MountPoint}
		if p.MountPoint != "" {
			used, total, err := inv.Fs.Usage(p.MountPoint)
			if err != nil {
				log.Infof("usage of %s on %s unavailable: %s", d.Name, p.MountPoint, err.Error())
			} else {
				p.Used, p.Total = used, total
			}
		}
		resp = append(resp, p)
	}
	return resp
}

func (inv *Inventory) busLocations() map[string]string {
	locations, err := inv.Bus.BusLocations()
	if err != nil {
		log.Infof("bus locations unavailable: %s", err.Error())
		return map[string]string{}
	}
	return locations
}

// AllDisks every data disk with bus location and WWN
func (inv *Inventory) AllDisks() ([]*types.DiskRecord, error) {
	s, err := inv.snapshot()
	if err != nil {
		return nil, err
	}
	bus := inv.busLocations()

	resp := []*types.DiskRecord{}
	for _, d := range s.dataDisks() {
		r := s.record(d)
		r.BusLocation = bus[d.Name]
		resp = append(resp, r)
	}
	return resp, nil
}

// UnusedDisks data disks that are not the parent of any partition. A whole-disk
// pool member without a partition table is reported as unused.
func (inv *Inventory) UnusedDisks() ([]*types.DiskRecord, error) {
	s, err := inv.snapshot()
	if err != nil {
		return nil, err
	}

	resp := []*types.DiskRecord{}
	for _, d := range s.dataDisks() {
		if s.partitioned.Has(d.Name) {
			continue
		}
		resp = append(resp, s.record(d))
	}
	return resp, nil
}

// DiskDetails joins every source per disk, a failing source only blanks its field
func (inv *Inventory) DiskDetails() ([]*types.DiskRecord, error) {
	s, err := inv.snapshot()
	if err != nil {
		return nil, err
	}
	bus := inv.busLocations()

	resp := []*types.DiskRecord{}
	for _, d := range s.dataDisks() {
		r := s.record(d)
		r.BusLocation = bus[d.Name]

		if path, err := inv.Udev.HardwarePath(d.DevicePath()); err != nil {
			log.Infof("hardware path of %s unavailable: %s", d.Name, err.Error())
		} else {
			r.HardwarePath = path
		}

		if temp, err := inv.Smart.Temperature(d.DevicePath()); err != nil {
			log.Infof("temperature of %s unavailable: %s", d.Name, err.Error())
		} else {
			r.Temperature = temp
		}
		r.Partitions = inv.partitions(s, d.Name)
		resp = append(resp, r)
	}
	return resp, nil
}
