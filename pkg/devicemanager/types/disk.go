package types

import "strings"

// Role of a disk in the appliance
type Role string

const (
	RoleBoot       Role = "boot"
	RoleDataInUse  Role = "data-in-use"
	RoleDataUnused Role = "data-unused"
)

// BlockDevice one row of the block device listing
type BlockDevice struct {
	// Name is the device name
	Name string `json:"name"`
	// KName internal kernel name
	KName string `json:"kname"`
	// Type is disk type
	Type string `json:"type"`
	// Size is the device capacity in byte
	Size   uint64 `json:"size"`
	Model  string `json:"model"`
	Serial string `json:"serial"`
	WWN    string `json:"wwn"`
	// Transport sata, sas, nvme, usb ...
	Transport string `json:"transport"`
	// parent Name
	ParentName string `json:"parentName"`
	// MountPoint empty when not mounted
	MountPoint string `json:"mountPoint"`
}

// DevicePath node path under /dev
func (b *BlockDevice) DevicePath() string {
	if strings.HasPrefix(b.Name, DevPrefix) {
		return b.Name
	}
	return DevPrefix + b.Name
}

// DiskRecord the reconciled view of a single data disk. Every field besides Name
// may be empty when its source could not be queried.
type DiskRecord struct {
	Name string `json:"name"`
	// BusLocation SCSI host:channel:target:lun
	BusLocation string `json:"busLocation"`
	WWN         string `json:"wwn"`
	// HardwarePath udev ID_PATH
	HardwarePath string `json:"hardwarePath"`
	Model        string `json:"model"`
	Serial       string `json:"serial"`
	Size         uint64 `json:"size"`
	Transport    string `json:"transport"`
	// Temperature in celsius, nil when the health tool reports none
	Temperature *int `json:"temperature,omitempty"`
	Role        Role `json:"role"`
	// Partitions direct children of type part, listing order
	Partitions []*PartitionRecord `json:"partitions,omitempty"`
}

// PartitionRecord a partition of a data disk with the usage of its filesystem
type PartitionRecord struct {
	Name       string `json:"name"`
	Size       uint64 `json:"size"`
	MountPoint string `json:"mountPoint"`
	// Used and Total are zero when the partition is not mounted or statfs failed
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// UsagePercent rounded down, -1 without usage data
func (p *PartitionRecord) UsagePercent() int {
	if p.Total == 0 {
		return -1
	}
	return int(p.Used * 100 / p.Total)
}
