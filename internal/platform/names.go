package platform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// MaxFilenameLength is the longest name SanitizeFilename produces, in bytes
const MaxFilenameLength = 255

const invalidFilenameChars = `<>:"/\|?*`

var controlCharsRe = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

// SanitizeFilename replaces characters that are invalid on common file
// systems with "_", removes control characters and limits the length while
// keeping the extension.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return '_'
		}
		return r
	}, name)
	name = controlCharsRe.ReplaceAllString(name, "")

	if len(name) > MaxFilenameLength {
		stem, ext := name, ""
		if i := strings.LastIndex(name, "."); i >= 0 {
			stem, ext = name[:i], name[i+1:]
		}
		limit := MaxFilenameLength
		if ext != "" {
			limit -= len(ext) + 1
		}
		stem = truncateUTF8(stem, limit)
		if ext != "" {
			name = stem + "." + ext
		} else {
			name = stem
		}
	}

	return strings.TrimSpace(name)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// FormatBytes renders a byte count using binary units, e.g. "1.5 MiB"
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// FormatDuration renders seconds as "45s", "3m 7s" or "1h 2m 3s"
func FormatDuration(seconds int) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
	}
}
