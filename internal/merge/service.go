// Package merge embeds subtitle files into videos as a selectable track or
// burns them into the frames, driving ffmpeg as a subprocess.
package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpeg settings for subtitle embedding
const (
	// Subtitle codecs
	CodecAuto    = "auto"
	CodecMovText = "mov_text"
	CodecSRT     = "srt"
	CodecASS     = "ass"

	// Stream copy
	CopyCodec = "copy"

	// Output suffixes
	WithSubsSuffix = "_with_subs"
	MergedSuffix   = "_merged"

	// Track defaults
	languageCodeLength = 3
	DispositionDefault = "default"
)

var (
	ErrVideoNotFound    = errors.New("video file not found")
	ErrSubtitleNotFound = errors.New("subtitle file not found")
	ErrOutputExists     = errors.New("output file already exists")
)

// Request describes one video and subtitle pair to merge
type Request struct {
	VideoPath    string
	SubtitlePath string
	OutputPath   string // defaults to <stem>_with_subs<ext>
	TrackName    string
	Hard         bool
	Codec        string
	Force        bool
}

// Mode describes how the subtitles end up in the output
func (r Request) Mode() string {
	if r.Hard {
		return "Hard subtitles (burned in)"
	}
	return "Soft subtitles (can be toggled)"
}

// Result reports a finished merge
type Result struct {
	OutputPath string
	InputSize  int64
	OutputSize int64
	Hard       bool
}

// Service runs ffmpeg to merge subtitles
type Service struct {
	command string
	run     Runner
	logger  *slog.Logger
}

// NewService creates a merge service invoking the given ffmpeg command
func NewService(command string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		command: command,
		run:     stderrRunner,
		logger:  logger,
	}
}

// SetRunner replaces the subprocess runner
func (s *Service) SetRunner(run Runner) {
	s.run = run
}

func stderrRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// Merge validates the request, resolves defaults and runs ffmpeg. A failed
// run returns an error carrying ffmpeg's stderr.
func (s *Service) Merge(ctx context.Context, req Request) (*Result, error) {
	video, err := os.Stat(req.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, req.VideoPath)
	}
	if _, err := os.Stat(req.SubtitlePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSubtitleNotFound, req.SubtitlePath)
	}

	if req.OutputPath == "" {
		req.OutputPath = generateOutputPath(req.VideoPath, WithSubsSuffix)
	}
	if _, err := os.Stat(req.OutputPath); err == nil && !req.Force {
		return nil, fmt.Errorf("%w: %s", ErrOutputExists, req.OutputPath)
	}
	req.Codec = ResolveCodec(req.Codec, req.OutputPath)

	s.logger.Info("Merging subtitles",
		"video", filepath.Base(req.VideoPath),
		"subtitles", filepath.Base(req.SubtitlePath),
		"output", filepath.Base(req.OutputPath),
		"mode", req.Mode())

	args := s.BuildFFmpegArgs(req)
	s.logger.Debug("Running ffmpeg", "command", s.command, "args", args)

	stderr, err := s.run(ctx, s.command, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(string(stderr)))
	}

	result := &Result{
		OutputPath: req.OutputPath,
		InputSize:  video.Size(),
		Hard:       req.Hard,
	}
	if out, err := os.Stat(req.OutputPath); err == nil {
		result.OutputSize = out.Size()
	}
	return result, nil
}

// BuildFFmpegArgs builds the ffmpeg arguments for a resolved request
func (s *Service) BuildFFmpegArgs(req Request) []string {
	var args []string
	if req.Hard {
		// Burn the subtitles into the frames, audio is copied untouched
		args = []string{
			"-i", req.VideoPath,
			"-vf", HardSubFilter(req.SubtitlePath),
			"-c:a", CopyCodec,
		}
	} else {
		args = []string{
			"-i", req.VideoPath,
			"-i", req.SubtitlePath,
			"-c:v", CopyCodec,
			"-c:a", CopyCodec,
			"-c:s", req.Codec,
			"-map", "0:v",
			"-map", "0:a?", // Audio is optional
			"-map", "1:0",
		}
		if req.TrackName != "" {
			args = append(args,
				"-metadata:s:s:0", "title="+req.TrackName,
				"-metadata:s:s:0", "language="+languageCode(req.TrackName),
			)
		}
		args = append(args, "-disposition:s:0", DispositionDefault)
	}

	if req.Force {
		args = append(args, "-y")
	}
	return append(args, req.OutputPath)
}

// ResolveCodec turns "auto" (or an empty codec) into the subtitle codec
// suited to the output container
func ResolveCodec(codec, outputPath string) string {
	if codec != "" && codec != CodecAuto {
		return codec
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mkv", ".webm":
		return CodecSRT
	default:
		return CodecMovText
	}
}

// HardSubFilter builds the subtitles video filter for path, escaping the
// characters the filter graph parser treats specially
func HardSubFilter(path string) string {
	escaped := strings.ReplaceAll(path, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, ":", `\:`)
	return "subtitles='" + escaped + "'"
}

func languageCode(trackName string) string {
	runes := []rune(trackName)
	if len(runes) > languageCodeLength {
		runes = runes[:languageCodeLength]
	}
	return strings.ToLower(string(runes))
}

// generateOutputPath places the output next to the video with suffix
// appended to its stem
func generateOutputPath(videoPath, suffix string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + suffix + ext
}
