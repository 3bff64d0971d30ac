package model

import (
	"fmt"
	"strings"
)

// SubtitleType distinguishes uploaded subtitles from generated captions
type SubtitleType string

const (
	SubtitleManual SubtitleType = "manual"
	SubtitleAuto   SubtitleType = "auto-generated"
)

// AutoSuffix is appended to language keys of automatic captions so they do
// not collide with manual subtitles of the same language.
const AutoSuffix = " (auto)"

// maxListedFormats is how many subtitle formats are shown before eliding
const maxListedFormats = 3

// Format is one downloadable stream variant reported by the extractor
type Format struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Height     int     `json:"height"`
	Filesize   int64   `json:"filesize"`
	TBR        float64 `json:"tbr"`
	FormatNote string  `json:"format_note"`
}

// String renders the format as a single listing line, e.g.
// "137 - mp4 1080p (120.5MB) [4400k] 1080p".
func (f Format) String() string {
	id := f.FormatID
	if id == "" {
		id = "N/A"
	}
	ext := f.Ext
	if ext == "" {
		ext = "N/A"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s - %s ", id, ext))
	if f.Height > 0 {
		b.WriteString(fmt.Sprintf("%dp ", f.Height))
	}
	if f.Filesize > 0 {
		b.WriteString(fmt.Sprintf("(%.1fMB) ", float64(f.Filesize)/1024/1024))
	}
	if f.TBR > 0 {
		b.WriteString(fmt.Sprintf("[%.0fk] ", f.TBR))
	}
	b.WriteString(f.FormatNote)
	return strings.TrimSpace(b.String())
}

// SubtitleTrack is one file variant of a subtitle language
type SubtitleTrack struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Subtitle describes the subtitle tracks available for one language
type Subtitle struct {
	Name     string
	Type     SubtitleType
	LangCode string
	Formats  []string
}

// FormatsSummary returns the first few formats joined by commas, with an
// ellipsis when more are available.
func (s Subtitle) FormatsSummary() string {
	if len(s.Formats) <= maxListedFormats {
		return strings.Join(s.Formats, ", ")
	}
	return strings.Join(s.Formats[:maxListedFormats], ", ") + "..."
}

// NewSubtitle builds a descriptor from the tracks of one language
func NewSubtitle(lang string, kind SubtitleType, tracks []SubtitleTrack) Subtitle {
	sub := Subtitle{
		Name:     lang,
		Type:     kind,
		LangCode: lang,
		Formats:  make([]string, 0, len(tracks)),
	}
	if len(tracks) > 0 && tracks[0].Name != "" {
		sub.Name = tracks[0].Name
	}
	for _, track := range tracks {
		ext := track.Ext
		if ext == "" {
			ext = "unknown"
		}
		sub.Formats = append(sub.Formats, ext)
	}
	return sub
}

// VideoInfo is the metadata subset of the extractor's JSON output
type VideoInfo struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Uploader          string                     `json:"uploader"`
	Duration          float64                    `json:"duration"`
	WebpageURL        string                     `json:"webpage_url"`
	Type              string                     `json:"_type"`
	PlaylistCount     int                        `json:"playlist_count"`
	Formats           []Format                   `json:"formats"`
	Subtitles         map[string][]SubtitleTrack `json:"subtitles"`
	AutomaticCaptions map[string][]SubtitleTrack `json:"automatic_captions"`
}

// SubtitleIndex merges manual subtitles and automatic captions into one map.
// Automatic entries are keyed "<lang> (auto)".
func (v *VideoInfo) SubtitleIndex() map[string]Subtitle {
	index := make(map[string]Subtitle, len(v.Subtitles)+len(v.AutomaticCaptions))
	for lang, tracks := range v.Subtitles {
		index[lang] = NewSubtitle(lang, SubtitleManual, tracks)
	}
	for lang, tracks := range v.AutomaticCaptions {
		index[lang+AutoSuffix] = NewSubtitle(lang, SubtitleAuto, tracks)
	}
	return index
}
