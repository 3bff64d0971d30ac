package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var subtitleExts = []string{".srt", ".vtt"}

// BatchReport summarizes a batch merge
type BatchReport struct {
	Found   int
	Merged  int
	Skipped []string
	Failed  map[string]error
	Outputs []string
}

// Batch merges every video in dir whose name matches pattern with the
// subtitle sharing its stem. Subtitles are searched as <stem>.*.srt,
// <stem>.*.vtt, <stem>.srt, then <stem>.vtt. Outputs are written as
// <stem>_merged<ext>. A failed merge is recorded and the batch continues.
func (s *Service) Batch(ctx context.Context, dir, pattern string, hard, force bool) (*BatchReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	report := &BatchReport{Failed: make(map[string]error)}
	for _, name := range names {
		if ok, _ := filepath.Match(pattern, name); !ok {
			continue
		}
		report.Found++

		if err := ctx.Err(); err != nil {
			return report, err
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		subtitle := findSubtitle(names, stem)
		if subtitle == "" {
			s.logger.Info("Skipping video, no matching subtitle found", "video", name)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		s.logger.Info("Processing video", "video", name, "subtitle", subtitle)
		result, err := s.Merge(ctx, Request{
			VideoPath:    filepath.Join(dir, name),
			SubtitlePath: filepath.Join(dir, subtitle),
			OutputPath:   filepath.Join(dir, stem+MergedSuffix+filepath.Ext(name)),
			Hard:         hard,
			Codec:        CodecAuto,
			Force:        force,
		})
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			s.logger.Error("Merge failed", "video", name, "error", err)
			report.Failed[name] = err
			continue
		}
		report.Merged++
		report.Outputs = append(report.Outputs, result.OutputPath)
	}
	return report, nil
}

// findSubtitle picks the subtitle for stem among the sorted names.
// Language tagged files win over bare ones, SRT over VTT.
func findSubtitle(names []string, stem string) string {
	for _, ext := range subtitleExts {
		for _, name := range names {
			if isTaggedSubtitle(name, stem, ext) {
				return name
			}
		}
	}
	for _, ext := range subtitleExts {
		for _, name := range names {
			if name == stem+ext {
				return name
			}
		}
	}
	return ""
}

// isTaggedSubtitle matches <stem>.<anything><ext>
func isTaggedSubtitle(name, stem, ext string) bool {
	prefix := stem + "."
	return len(name) >= len(prefix)+len(ext) &&
		strings.HasPrefix(name, prefix) &&
		strings.HasSuffix(name, ext)
}
