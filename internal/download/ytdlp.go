package download

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ytget/ytd/internal/model"
)

// DefaultProgressInterval is how often yt-dlp progress is sampled
const DefaultProgressInterval = 500 * time.Millisecond

// YTDLP is the Extractor backed by the yt-dlp binary
type YTDLP struct {
	logger           *slog.Logger
	progressInterval time.Duration
	installed        bool
	update           func(ctx context.Context) (*ytdlp.Result, error)
}

// NewYTDLP creates the yt-dlp backed extractor
func NewYTDLP(logger *slog.Logger) *YTDLP {
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLP{
		logger:           logger,
		progressInterval: DefaultProgressInterval,
		update:           runUpdate,
	}
}

// runUpdate runs yt-dlp's self-update
func runUpdate(ctx context.Context) (*ytdlp.Result, error) {
	return ytdlp.New().Update(ctx)
}

// ensure resolves the yt-dlp binary, downloading it on first use
func (y *YTDLP) ensure(ctx context.Context) error {
	if y.installed {
		return nil
	}
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	y.logger.Debug("Resolved yt-dlp", "path", resolved.Executable, "version", resolved.Version)
	y.installed = true
	return nil
}

// Download implements Extractor
func (y *YTDLP) Download(ctx context.Context, url string, params Params, onProgress func(model.Progress)) error {
	if err := y.ensure(ctx); err != nil {
		return err
	}

	dl := buildCommand(params)
	if onProgress != nil {
		dl.ProgressFunc(y.progressInterval, func(update ytdlp.ProgressUpdate) {
			onProgress(progressFromUpdate(update))
		})
	}

	if _, err := dl.Run(ctx, url); err != nil {
		return err
	}
	return nil
}

// Extract implements Extractor
func (y *YTDLP) Extract(ctx context.Context, url string) (*model.VideoInfo, error) {
	if err := y.ensure(ctx); err != nil {
		return nil, err
	}

	result, err := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		NoWarnings().
		Run(ctx, url)
	if err != nil {
		return nil, err
	}

	var info model.VideoInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &info, nil
}

// Update implements Extractor
func (y *YTDLP) Update(ctx context.Context) (string, error) {
	if err := y.ensure(ctx); err != nil {
		return "", err
	}

	result, err := y.update(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// buildCommand maps Params onto the yt-dlp command builder
func buildCommand(p Params) *ytdlp.Command {
	dl := ytdlp.New().
		Output(p.OutputTemplate).
		Format(p.Format)

	for _, pp := range p.Postprocessors {
		switch pp.Key {
		case PPExtractAudio:
			dl.ExtractAudio().
				AudioFormat(pp.Options["preferredcodec"]).
				AudioQuality(pp.Options["preferredquality"])
		case PPEmbedSubtitle:
			dl.EmbedSubs()
		case PPMetadata:
			dl.EmbedMetadata()
		case PPEmbedThumb:
			dl.EmbedThumbnail()
		}
	}

	if p.WriteSubtitles {
		dl.WriteSubs()
	}
	if p.WriteAutoSubtitles {
		dl.WriteAutoSubs()
	}
	if len(p.SubtitleLangs) > 0 {
		dl.SubLangs(strings.Join(p.SubtitleLangs, ","))
	}
	if p.SubtitleFormat != "" {
		dl.SubFormat(p.SubtitleFormat)
	}
	if p.AddMetadata {
		dl.EmbedMetadata()
	}
	if p.WriteThumbnail {
		dl.WriteThumbnail()
	}
	if p.RateLimit > 0 {
		dl.LimitRate(strconv.FormatInt(p.RateLimit, 10))
	}
	if p.ConcurrentFragments > 0 {
		dl.ConcurrentFragments(p.ConcurrentFragments)
	}
	if p.DownloadArchive != "" {
		dl.DownloadArchive(p.DownloadArchive)
	}
	if p.CookieFile != "" {
		dl.Cookies(p.CookieFile)
	}
	if p.PlaylistItems != "" {
		dl.PlaylistItems(p.PlaylistItems)
	}
	if p.Playlist {
		dl.YesPlaylist()
	}
	if p.SkipDownload {
		dl.SkipDownload()
	}
	if p.Quiet {
		dl.Quiet()
	}
	if p.NoWarnings {
		dl.NoWarnings()
	}
	if p.NoProgress {
		dl.NoProgress()
	}
	if p.IgnoreErrors {
		dl.IgnoreErrors()
	}
	if p.Continue {
		dl.Continue()
	}
	if p.FFmpegLocation != "" {
		dl.FFmpegLocation(p.FFmpegLocation)
	}
	return dl
}

// progressFromUpdate converts a yt-dlp progress update
func progressFromUpdate(update ytdlp.ProgressUpdate) model.Progress {
	p := model.NewProgress(update.Filename, statusFromUpdate(update.Status),
		int64(update.DownloadedBytes), int64(update.TotalBytes))

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			p.SpeedBps = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}

	if eta := update.ETA(); eta > 0 {
		p.ETA = eta
	}
	return p
}

func statusFromUpdate(status ytdlp.ProgressStatus) model.ProgressStatus {
	switch status {
	case ytdlp.ProgressStatusStarting:
		return model.ProgressStatusStarting
	case ytdlp.ProgressStatusPostProcessing:
		return model.ProgressStatusPostProcessing
	case ytdlp.ProgressStatusFinished:
		return model.ProgressStatusFinished
	case ytdlp.ProgressStatusError:
		return model.ProgressStatusError
	default:
		return model.ProgressStatusDownloading
	}
}
