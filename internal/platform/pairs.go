package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Recognized media extensions
var (
	VideoExtensions    = []string{".mp4", ".mkv", ".avi", ".mov", ".webm"}
	SubtitleExtensions = []string{".vtt", ".srt", ".ass", ".ssa"}
)

// SubtitlePair is a video file together with the subtitle files that share
// its name
type SubtitlePair struct {
	Video     string
	Subtitles []string
}

// LanguageOf returns the part of a subtitle stem that follows the video
// stem, e.g. "en" for "clip.en.vtt" next to "clip.mp4".
func (p SubtitlePair) LanguageOf(subtitle string) string {
	videoStem := stem(p.Video)
	subStem := stem(subtitle)
	return strings.Trim(strings.Replace(subStem, videoStem, "", 1), ".")
}

// FindSubtitlePairs lists videos in dir that have at least one subtitle file
// whose stem starts with the video's stem. Results are sorted by name.
func FindSubtitlePairs(dir string) ([]SubtitlePair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var videos, subs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		switch {
		case hasExtension(VideoExtensions, ext):
			videos = append(videos, e.Name())
		case hasExtension(SubtitleExtensions, ext):
			subs = append(subs, e.Name())
		}
	}
	sort.Strings(videos)
	sort.Strings(subs)

	var pairs []SubtitlePair
	for _, video := range videos {
		base := stem(video)
		var matched []string
		for _, sub := range subs {
			if strings.HasPrefix(stem(sub), base) {
				matched = append(matched, filepath.Join(dir, sub))
			}
		}
		if len(matched) > 0 {
			pairs = append(pairs, SubtitlePair{Video: filepath.Join(dir, video), Subtitles: matched})
		}
	}
	return pairs, nil
}

func stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func hasExtension(list []string, ext string) bool {
	for _, e := range list {
		if e == ext {
			return true
		}
	}
	return false
}
