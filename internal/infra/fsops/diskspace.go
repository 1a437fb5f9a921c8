package fsops

import (
	"golang.org/x/sys/unix"
)

// DefaultMinFreeBytes is the free-space floor below which a volume is
// reported as insufficient.
const DefaultMinFreeBytes = 100 << 20 // 100 MiB

// DiskSpace describes the volume holding a path.
type DiskSpace struct {
	Path            string  `json:"path"`
	Accessible      bool    `json:"accessible"`
	SufficientSpace bool    `json:"sufficient_space"`
	TotalBytes      uint64  `json:"total_bytes,omitempty"`
	AvailableBytes  uint64  `json:"available_bytes,omitempty"`
	UsedPercent     float64 `json:"used_percent,omitempty"`
}

// CheckDiskSpace probes the volume holding path. An inaccessible path is
// reported rather than returned as an error. minFree of 0 uses
// DefaultMinFreeBytes.
func CheckDiskSpace(path string, minFree uint64) DiskSpace {
	if minFree == 0 {
		minFree = DefaultMinFreeBytes
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return DiskSpace{Path: path, Accessible: false}
	}

	total := stat.Blocks * uint64(stat.Bsize)
	avail := stat.Bavail * uint64(stat.Bsize)
	var usedPercent float64
	if total > 0 {
		usedPercent = float64(total-avail) / float64(total) * 100
	}

	return DiskSpace{
		Path:            path,
		Accessible:      true,
		SufficientSpace: avail >= minFree,
		TotalBytes:      total,
		AvailableBytes:  avail,
		UsedPercent:     usedPercent,
	}
}
