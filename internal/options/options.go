// Package options merges configuration file values with command-line flags
// into the single option set consumed by the downloader.
package options

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrInvalidRateLimit     = errors.New("invalid rate limit")
	ErrInvalidPlaylistItems = errors.New("invalid playlist items")
)

// Option keys
const (
	KeyURL            = "url"
	KeyOutput         = "output"
	KeyFilename       = "filename"
	KeyFormat         = "format"
	KeyAudioOnly      = "audio_only"
	KeyAudioFormat    = "audio_format"
	KeyListFormats    = "list_formats"
	KeyListSubs       = "list_subs"
	KeyPlaylist       = "playlist"
	KeyPlaylistItems  = "playlist_items"
	KeySubtitles      = "subtitles"
	KeySubLangs       = "sub_langs"
	KeyWriteAutoSubs  = "write_auto_subs"
	KeySkipDownload   = "skip_download"
	KeyConvertSubs    = "convert_subs"
	KeyMetadata       = "metadata"
	KeyThumbnail      = "thumbnail"
	KeyLimitRate      = "limit_rate"
	KeyConcurrent     = "concurrent"
	KeyVerbose        = "verbose"
	KeyQuiet          = "quiet"
	KeyConfig         = "config"
	KeyUpdate         = "update"
	KeyNoProgress     = "no_progress"
	KeyArchive        = "archive"
	KeyCookies        = "cookies"
	KeyListExtractors = "list_extractors"
)

// configRename maps config file keys onto option keys, in application order
var configRename = []struct {
	from string
	to   string
}{
	{"default_output", KeyOutput},
	{"default_format", KeyFormat},
	{"audio_format", KeyAudioFormat},
	{"subtitles", KeySubtitles},
	{"metadata", KeyMetadata},
	{"concurrent_downloads", KeyConcurrent},
	{"rate_limit", KeyLimitRate},
}

// Options is the merged option set for one invocation
type Options map[string]any

// Merge starts from the renamed config values and overlays every flag value
// that is not nil. Unknown config keys are ignored.
func Merge(cfg map[string]any, flags map[string]any) Options {
	opts := make(Options, len(flags)+len(configRename))
	for _, r := range configRename {
		if v, ok := cfg[r.from]; ok {
			opts[r.to] = v
		}
	}
	for k, v := range flags {
		if v != nil {
			opts[k] = v
		}
	}
	return opts
}

// Has reports whether key is present with a non-nil value
func (o Options) Has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// String returns the value of key as a string, or "" if absent
func (o Options) String(key string) string {
	switch v := o[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// StringOr returns the value of key, or def when absent or empty
func (o Options) StringOr(key, def string) string {
	if s := o.String(key); s != "" {
		return s
	}
	return def
}

// Bool returns the truthiness of key
func (o Options) Bool(key string) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return strings.TrimSpace(v) != ""
		}
		return b
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// Int returns the value of key as an int, or 0 if absent or not numeric
func (o Options) Int(key string) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// ParseRateLimit converts a rate such as "50K", "4M" or "1024" to bytes per
// second. Suffixes are case-insensitive and only K and M are recognized.
func ParseRateLimit(rate string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(rate))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidRateLimit)
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1024
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"):
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	}

	if multiplier == 1 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRateLimit, rate)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRateLimit, rate)
	}
	return int64(f * multiplier), nil
}

// ParsePlaylistItems expands a specification such as "1-3,7,10-13" into a
// sorted list of unique 1-based indices. A reversed range contributes nothing.
func ParsePlaylistItems(spec string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty item in %q", ErrInvalidPlaylistItems, spec)
		}

		if start, end, ok := strings.Cut(part, "-"); ok {
			lo, err := strconv.Atoi(strings.TrimSpace(start))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPlaylistItems, part)
			}
			hi, err := strconv.Atoi(strings.TrimSpace(end))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPlaylistItems, part)
			}
			for i := lo; i <= hi; i++ {
				seen[i] = struct{}{}
			}
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlaylistItems, part)
		}
		seen[n] = struct{}{}
	}

	items := make([]int, 0, len(seen))
	for n := range seen {
		items = append(items, n)
	}
	sort.Ints(items)
	return items, nil
}
