package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"video-gallery/pkg/listing"
	"video-gallery/pkg/timestamp"
)

// Library summarises the video directory and the host it lives on.
type Library struct {
	VideoCount    int       `json:"video_count"`
	VideoBytes    uint64    `json:"video_bytes"`
	VideoSize     string    `json:"video_size"`
	Newest        string    `json:"newest"`
	Oldest        string    `json:"oldest"`
	SkippedCount  int       `json:"skipped_entries"`
	Disk          Usage     `json:"disk"`
	Memory        Usage     `json:"memory"`
	CollectedAt   time.Time `json:"collected_at"`
	CollectErrors []string  `json:"collect_errors,omitempty"`
}

// Usage is a humanized used/total pair.
type Usage struct {
	Total       string  `json:"total"`
	Used        string  `json:"used"`
	Free        string  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

var unavailable = Usage{Total: "N/A", Used: "N/A", Free: "N/A"}

// Collect gathers library statistics for dir. Newest and Oldest are the
// display labels of the last and first regular files in ascending order.
// Failures of individual checks are reported in CollectErrors rather than
// aborting.
func Collect(dir string, loc *time.Location) Library {
	lib := Library{
		Newest:      "N/A",
		Oldest:      "N/A",
		Disk:        unavailable,
		Memory:      unavailable,
		CollectedAt: time.Now(),
	}

	l := listing.List(dir, false)
	if l.Err != nil {
		lib.CollectErrors = append(lib.CollectErrors, l.Err.Error())
	}
	lib.SkippedCount = len(l.Problems)

	var first, last string
	for _, name := range l.Names {
		info, err := os.Lstat(filepath.Join(dir, name))
		if err != nil {
			lib.SkippedCount++
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if lib.VideoCount == 0 {
			first = name
		}
		last = name
		lib.VideoCount++
		lib.VideoBytes += uint64(info.Size())
	}
	lib.VideoSize = humanize.IBytes(lib.VideoBytes)

	if lib.VideoCount > 0 {
		lib.Oldest = timestamp.Format(first, loc)
		lib.Newest = timestamp.Format(last, loc)
	}

	if u, err := disk.Usage(dir); err != nil {
		lib.CollectErrors = append(lib.CollectErrors, fmt.Sprintf("disk usage: %v", err))
	} else {
		lib.Disk = Usage{
			Total:       humanize.IBytes(u.Total),
			Used:        humanize.IBytes(u.Used),
			Free:        humanize.IBytes(u.Free),
			UsedPercent: u.UsedPercent,
		}
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		lib.CollectErrors = append(lib.CollectErrors, fmt.Sprintf("memory: %v", err))
	} else {
		lib.Memory = Usage{
			Total:       humanize.IBytes(vm.Total),
			Used:        humanize.IBytes(vm.Used),
			Free:        humanize.IBytes(vm.Available),
			UsedPercent: vm.UsedPercent,
		}
	}

	return lib
}
