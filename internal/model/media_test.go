package model

import (
	"encoding/json"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		expected string
	}{
		{
			name:     "full format",
			format:   Format{FormatID: "137", Ext: "mp4", Height: 1080, Filesize: 10 * 1024 * 1024, TBR: 4400.4, FormatNote: "1080p"},
			expected: "137 - mp4 1080p (10.0MB) [4400k] 1080p",
		},
		{
			name:     "audio only without size",
			format:   Format{FormatID: "140", Ext: "m4a", TBR: 129.6, FormatNote: "medium"},
			expected: "140 - m4a [130k] medium",
		},
		{
			name:     "missing id and ext",
			format:   Format{},
			expected: "N/A - N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSubtitle_FormatsSummary(t *testing.T) {
	short := Subtitle{Formats: []string{"vtt", "srv1"}}
	if got := short.FormatsSummary(); got != "vtt, srv1" {
		t.Errorf("Expected 'vtt, srv1', got %q", got)
	}

	long := Subtitle{Formats: []string{"json3", "srv1", "srv2", "srv3", "vtt"}}
	if got := long.FormatsSummary(); got != "json3, srv1, srv2..." {
		t.Errorf("Expected elided summary, got %q", got)
	}
}

func TestVideoInfo_SubtitleIndex(t *testing.T) {
	raw := `{
		"id": "abc",
		"title": "Clip",
		"subtitles": {"en": [{"ext": "vtt", "name": "English"}, {"ext": "srt"}]},
		"automatic_captions": {"en": [{"ext": "json3"}], "de": [{"ext": "vtt", "name": "German"}]}
	}`

	var info VideoInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		t.Fatalf("Failed to decode info: %v", err)
	}

	index := info.SubtitleIndex()
	if len(index) != 3 {
		t.Fatalf("Expected 3 subtitle entries, got %d", len(index))
	}

	manual, ok := index["en"]
	if !ok {
		t.Fatal("Expected manual 'en' entry")
	}
	if manual.Type != SubtitleManual || manual.Name != "English" || len(manual.Formats) != 2 {
		t.Errorf("Unexpected manual entry: %+v", manual)
	}

	auto, ok := index["en (auto)"]
	if !ok {
		t.Fatal("Expected automatic 'en (auto)' entry")
	}
	if auto.Type != SubtitleAuto || auto.LangCode != "en" || auto.Name != "en" {
		t.Errorf("Unexpected automatic entry: %+v", auto)
	}

	if de := index["de (auto)"]; de.Name != "German" {
		t.Errorf("Expected track name 'German', got %q", de.Name)
	}
}

func TestNewSubtitle_UnknownExt(t *testing.T) {
	sub := NewSubtitle("fr", SubtitleManual, []SubtitleTrack{{}})
	if len(sub.Formats) != 1 || sub.Formats[0] != "unknown" {
		t.Errorf("Expected 'unknown' format, got %v", sub.Formats)
	}
}
