package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/options"
	"github.com/ytget/ytd/internal/platform"
	"github.com/ytget/ytd/internal/subtitle"
)

// Download kinds used in log messages
const (
	kindVideo    = "video"
	kindPlaylist = "playlist"
	kindAudio    = "audio"
)

const subtitlePattern = "*.vtt"

// Service handles download operations for one invocation
type Service struct {
	options        options.Options
	extractor      Extractor
	sink           ProgressSink
	logger         *slog.Logger
	outputDir      string
	ffmpegLocation string
}

// NewService creates a download service and makes sure the output
// directory exists. sink may be nil.
func NewService(opts options.Options, extractor Extractor, sink ProgressSink, logger *slog.Logger) (*Service, error) {
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	outputDir := platform.ExpandUser(opts.StringOr(options.KeyOutput, "."))
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &Service{
		options:   opts,
		extractor: extractor,
		sink:      sink,
		logger:    logger,
		outputDir: outputDir,
	}, nil
}

// OutputDir returns the resolved output directory
func (s *Service) OutputDir() string {
	return s.outputDir
}

// SetFFmpegLocation points the extractor at a specific ffmpeg binary
func (s *Service) SetFFmpegLocation(path string) {
	s.ffmpegLocation = path
}

// DownloadVideo downloads a single video
func (s *Service) DownloadVideo(ctx context.Context, url string) error {
	return s.download(ctx, url, kindVideo)
}

// DownloadPlaylist downloads every selected entry of a playlist
func (s *Service) DownloadPlaylist(ctx context.Context, url string) error {
	return s.download(ctx, url, kindPlaylist, WithPlaylist())
}

// DownloadAudio downloads the best audio stream and extracts it to the
// configured audio format
func (s *Service) DownloadAudio(ctx context.Context, url string) error {
	codec := s.options.StringOr(options.KeyAudioFormat, DefaultAudioFormat)
	return s.download(ctx, url, kindAudio, WithAudioOnly(codec))
}

func (s *Service) download(ctx context.Context, url, kind string, extra ...ParamOption) error {
	params, err := s.BuildParams(extra...)
	if err != nil {
		s.logger.Error("Error downloading "+kind, "error", err)
		return fmt.Errorf("download %s: %w", kind, err)
	}

	s.logger.Info("Downloading "+kind, "url", url)
	s.logger.Debug("Extractor parameters", "params", params.String())

	if err := s.extractor.Download(ctx, url, params, s.handleProgress); err != nil {
		s.logger.Error("Error downloading "+kind, "error", err)
		return fmt.Errorf("download %s: %w", kind, err)
	}

	if s.options.Bool(options.KeySubtitles) {
		s.convertSubtitles()
	}
	return nil
}

// handleProgress forwards progress to the sink unless progress display is
// disabled, and logs finished files.
func (s *Service) handleProgress(p model.Progress) {
	if s.sink != nil && !s.options.Bool(options.KeyQuiet) && !s.options.Bool(options.KeyNoProgress) {
		s.sink.Report(p)
	}
	if p.Status == model.ProgressStatusFinished {
		name := p.Filename
		if name == "" {
			name = "Unknown"
		}
		s.logger.Info("Download finished", "file", name)
	}
}

// convertSubtitles converts downloaded VTT files to SRT when requested.
// "vtt" and "keep" leave the files as downloaded.
func (s *Service) convertSubtitles() {
	if s.options.StringOr(options.KeyConvertSubs, ConvertKeep) != ConvertSRT {
		return
	}
	if _, err := subtitle.BatchConvert(s.outputDir, subtitlePattern, s.logger); err != nil {
		s.logger.Error("Failed to convert subtitles", "error", err)
	}
}

// VideoInfo returns metadata for url without downloading
func (s *Service) VideoInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	info, err := s.extractor.Extract(ctx, url)
	if err != nil {
		s.logger.Error("Error getting video info", "error", err)
		return nil, fmt.Errorf("get video info: %w", err)
	}
	return info, nil
}

// ListFormats returns one display line per available format
func (s *Service) ListFormats(ctx context.Context, url string) ([]string, error) {
	info, err := s.VideoInfo(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list formats: %w", err)
	}

	formats := make([]string, 0, len(info.Formats))
	for _, f := range info.Formats {
		formats = append(formats, f.String())
	}
	return formats, nil
}

// ListSubtitles returns manual subtitles keyed by language and automatic
// captions keyed "<lang> (auto)"
func (s *Service) ListSubtitles(ctx context.Context, url string) (map[string]model.Subtitle, error) {
	info, err := s.VideoInfo(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list subtitles: %w", err)
	}
	return info.SubtitleIndex(), nil
}

// Update upgrades the extractor backend
func (s *Service) Update(ctx context.Context) error {
	report, err := s.extractor.Update(ctx)
	if err != nil {
		s.logger.Error("Failed to update yt-dlp", "error", err)
		return fmt.Errorf("update yt-dlp: %w", err)
	}
	s.logger.Info("yt-dlp updated successfully")
	if report != "" {
		s.logger.Debug("Update output", "output", report)
	}
	return nil
}
