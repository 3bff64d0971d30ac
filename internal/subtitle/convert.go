// Package subtitle converts WebVTT subtitle files to SubRip.
package subtitle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const timingArrow = " --> "

var (
	cueStartRe        = regexp.MustCompile(`^\d{2}:\d{2}:`)
	alignSettingRe    = regexp.MustCompile(`\s*align:.*$`)
	positionSettingRe = regexp.MustCompile(`\s*position:.*$`)
	tagRe             = regexp.MustCompile(`<[^>]+>`)
	inlineTimestampRe = regexp.MustCompile(`<\d{2}:\d{2}:\d{2}\.\d{3}>`)
)

// VTTToSRT converts WebVTT text to SubRip text. Header lines before the
// first timestamp are skipped, cue settings and markup are removed, and cues
// left without text are dropped without consuming an index.
func VTTToSRT(vtt string) string {
	lines := strings.Split(vtt, "\n")
	out := make([]string, 0, len(lines))

	i := 0
	for i < len(lines) && !cueStartRe.MatchString(lines[i]) {
		i++
	}

	index := 1
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" || !strings.Contains(line, timingArrow) {
			i++
			continue
		}

		timing := strings.ReplaceAll(line, ".", ",")
		timing = alignSettingRe.ReplaceAllString(timing, "")
		timing = positionSettingRe.ReplaceAllString(timing, "")

		i++
		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" && !strings.Contains(lines[i], timingArrow) {
			t := strings.TrimSpace(lines[i])
			t = tagRe.ReplaceAllString(t, "")
			t = inlineTimestampRe.ReplaceAllString(t, "")
			if t != "" {
				text = append(text, t)
			}
			i++
		}

		if len(text) == 0 {
			continue
		}
		out = append(out, strconv.Itoa(index), timing, strings.Join(text, "\n"), "")
		index++
	}

	return strings.Join(out, "\n")
}

// SRTPath returns path with its final extension replaced by .srt
func SRTPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".srt"
}

// ConvertFile converts the VTT file at vttPath and writes the result to
// srtPath, or next to the input when srtPath is empty. It returns the path
// written.
func ConvertFile(vttPath, srtPath string) (string, error) {
	if srtPath == "" {
		srtPath = SRTPath(vttPath)
	}

	data, err := os.ReadFile(vttPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", vttPath, err)
	}

	if err := os.WriteFile(srtPath, []byte(VTTToSRT(string(data))), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", srtPath, err)
	}
	return srtPath, nil
}

// BatchConvert converts every file in dir matching pattern. Files that fail
// are logged and skipped; only an invalid pattern is returned as an error.
func BatchConvert(dir, pattern string, logger *slog.Logger) ([]string, error) {
	if pattern == "" {
		pattern = "*.vtt"
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("match %q: %w", pattern, err)
	}

	var converted []string
	for _, vttPath := range matches {
		srtPath, err := ConvertFile(vttPath, "")
		if err != nil {
			if logger != nil {
				logger.Error("Failed to convert subtitle", "file", vttPath, "error", err)
			}
			continue
		}
		if logger != nil {
			logger.Info("Converted subtitle", "from", filepath.Base(vttPath), "to", filepath.Base(srtPath))
		}
		converted = append(converted, srtPath)
	}
	return converted, nil
}
