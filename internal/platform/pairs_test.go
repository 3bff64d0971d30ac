package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindSubtitlePairs(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"lecture.mp4",
		"lecture.en.vtt",
		"lecture.ru.srt",
		"talk.MKV",
		"talk.ass",
		"lonely.webm",
		"notes.txt",
		"other.srt",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.mp4"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	pairs, err := FindSubtitlePairs(dir)
	if err != nil {
		t.Fatalf("FindSubtitlePairs failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d: %+v", len(pairs), pairs)
	}

	lecture := pairs[0]
	if filepath.Base(lecture.Video) != "lecture.mp4" {
		t.Errorf("Expected lecture.mp4 first, got %s", lecture.Video)
	}
	if len(lecture.Subtitles) != 2 {
		t.Fatalf("Expected 2 subtitles for lecture, got %v", lecture.Subtitles)
	}
	if lang := lecture.LanguageOf(lecture.Subtitles[0]); lang != "en" {
		t.Errorf("Expected language 'en', got %q", lang)
	}

	talk := pairs[1]
	if filepath.Base(talk.Video) != "talk.MKV" || len(talk.Subtitles) != 1 {
		t.Errorf("Unexpected talk pair: %+v", talk)
	}
	if lang := talk.LanguageOf(talk.Subtitles[0]); lang != "" {
		t.Errorf("Expected empty language, got %q", lang)
	}
}

func TestFindSubtitlePairs_MissingDir(t *testing.T) {
	if _, err := FindSubtitlePairs(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
