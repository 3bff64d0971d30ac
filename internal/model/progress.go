package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// Progress is a single progress report for one file being downloaded
type Progress struct {
	Filename        string
	Status          ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64         // 0 if unknown
	Percent         float64       // 0 to 100
	SpeedBps        float64       // bytes per second, 0 if unknown
	ETA             time.Duration // 0 if unknown
}

// NewProgress builds a Progress and derives Percent from the byte counters
func NewProgress(filename string, status ProgressStatus, downloaded, total int64) Progress {
	p := Progress{
		Filename:        filename,
		Status:          status,
		DownloadedBytes: downloaded,
		TotalBytes:      total,
	}
	if total > 0 {
		p.Percent = float64(downloaded) / float64(total) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p
}

// ETAString returns ETA formatted as hh:mm:ss or mm:ss, or "—" if unknown
func (p Progress) ETAString() string {
	sec := int(p.ETA.Seconds())
	if sec <= 0 {
		return "—"
	}

	hours := sec / 3600
	minutes := (sec % 3600) / 60
	seconds := sec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// SpeedString returns the transfer speed in MB/s, or an empty string if unknown
func (p Progress) SpeedString() string {
	if p.SpeedBps <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1fMB/s", p.SpeedBps/1024/1024)
}

// DisplayName returns the base name of the file truncated to maxLen runes,
// or "Downloading" when the extractor has not reported a filename yet.
func (p Progress) DisplayName(maxLen int) string {
	name := filepath.Base(p.Filename)
	if p.Filename == "" || name == "." {
		name = "Downloading"
	}
	runes := []rune(name)
	if maxLen > 0 && len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return name
}
