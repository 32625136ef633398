package hardware

import (
	"fmt"

	"github.com/prometheus/procfs"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Reader host CPU and memory facts from procfs
type Reader struct {
	fs procfs.FS
}

// NewReader mountPoint is usually procfs.DefaultMountPoint
func NewReader(mountPoint string) (*Reader, error) {
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("failed to open procfs at %s: %w", mountPoint, err)
	}
	return &Reader{fs: fs}, nil
}

type CPUSummary struct {
	ModelName string
	Vendor    string
	Sockets   int
	Cores     int
	Threads   int
	MHz       float64
	CacheSize string
}

// MemorySummary values in bytes
type MemorySummary struct {
	Total     uint64
	Free      uint64
	Available uint64
	Buffers   uint64
	Cached    uint64
	SwapTotal uint64
	SwapFree  uint64
}

func (m *MemorySummary) Used() uint64 {
	if m.Available > m.Total {
		return 0
	}
	return m.Total - m.Available
}

func (m *MemorySummary) SwapUsed() uint64 {
	if m.SwapFree > m.SwapTotal {
		return 0
	}
	return m.SwapTotal - m.SwapFree
}

func (r *Reader) CPU() (*CPUSummary, error) {
	infos, err := r.fs.CPUInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read cpuinfo: %w", err)
	}
	return SummarizeCPU(infos), nil
}

// SummarizeCPU collapses per-thread entries into one description
func SummarizeCPU(infos []procfs.CPUInfo) *CPUSummary {
	s := &CPUSummary{Threads: len(infos)}
	sockets := sets.NewString()
	cores := sets.NewString()
	for _, info := range infos {
		if s.ModelName == "" {
			s.ModelName = info.ModelName
			s.Vendor = info.VendorID
			s.CacheSize = info.CacheSize
		}
		if info.CPUMHz > s.MHz {
			s.MHz = info.CPUMHz
		}
		sockets.Insert(info.PhysicalID)
		cores.Insert(info.PhysicalID + "/" + info.CoreID)
	}
	s.Sockets = sockets.Len()
	s.Cores = cores.Len()
	// without topology every thread counts as a core
	if s.Cores <= 1 && s.Threads > 1 && cores.Has("/") {
		s.Cores = s.Threads
	}
	return s
}

func (r *Reader) Memory() (*MemorySummary, error) {
	mi, err := r.fs.Meminfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read meminfo: %w", err)
	}
	m := &MemorySummary{
		Total:     kib(mi.MemTotal),
		Free:      kib(mi.MemFree),
		Buffers:   kib(mi.Buffers),
		Cached:    kib(mi.Cached),
		SwapTotal: kib(mi.SwapTotal),
		SwapFree:  kib(mi.SwapFree),
	}
	if mi.MemAvailable != nil {
		m.Available = kib(mi.MemAvailable)
	} else {
		m.Available = m.Free + m.Buffers + m.Cached
	}
	return m, nil
}

func (r *Reader) LoadAverage() (*procfs.LoadAvg, error) {
	return r.fs.LoadAvg()
}

func kib(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v * 1024
}
