package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Stream codec types
const (
	StreamVideo    = "video"
	StreamAudio    = "audio"
	StreamSubtitle = "subtitle"
)

// Stream is one stream reported by ffprobe
type Stream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Tags      struct {
		Language string `json:"language"`
		Title    string `json:"title"`
	} `json:"tags"`
}

// MediaInfo holds the parts of ffprobe output used by the CLI
type MediaInfo struct {
	Duration float64
	Size     int64
	BitRate  int64
	Streams  []Stream
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []Stream `json:"streams"`
}

// StreamsOfType returns streams whose codec type matches, e.g. StreamSubtitle
func (m *MediaInfo) StreamsOfType(codecType string) []Stream {
	var out []Stream
	for _, s := range m.Streams {
		if s.CodecType == codecType {
			out = append(out, s)
		}
	}
	return out
}

// Probe runs ffprobe on path and decodes its format and stream report
func (h *Helper) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	out, err := h.run(ctx, h.ProbeCommand(),
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbe(out)
}

func parseProbe(data []byte) (*MediaInfo, error) {
	var parsed probeOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	info := &MediaInfo{Streams: parsed.Streams}
	info.Duration, _ = strconv.ParseFloat(parsed.Format.Duration, 64)
	info.Size, _ = strconv.ParseInt(parsed.Format.Size, 10, 64)
	info.BitRate, _ = strconv.ParseInt(parsed.Format.BitRate, 10, 64)
	return info, nil
}
