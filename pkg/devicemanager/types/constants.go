package types

const (
	// DiskType is a disk type
	DiskType = "disk"
	// PartType is a partition type
	PartType = "part"
	// DeviceMapperPrefix is the prefix of a LV from the device mapper interface
	DeviceMapperPrefix = "dm-"
	// DevPrefix device node directory
	DevPrefix = "/dev/"
)
