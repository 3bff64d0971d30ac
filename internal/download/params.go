package download

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ytget/ytd/internal/options"
	"github.com/ytget/ytd/internal/platform"
)

// Postprocessor keys
const (
	PPExtractAudio  = "FFmpegExtractAudio"
	PPEmbedSubtitle = "FFmpegEmbedSubtitle"
	PPMetadata      = "FFmpegMetadata"
	PPEmbedThumb    = "EmbedThumbnail"
)

// Default values
const (
	DefaultOutputTemplate = "%(title)s.%(ext)s"
	DefaultFormat         = "best"
	DefaultAudioFormat    = "mp3"
	DefaultAudioQuality   = "192"
	DefaultSubLangs       = "en"
	AudioOnlyFormat       = "bestaudio/best"
	SubtitleFormatPref    = "vtt/srt/best"
	AllSubtitleLangs      = "all"
)

// Subtitle conversion targets
const (
	ConvertKeep = "keep"
	ConvertSRT  = "srt"
	ConvertVTT  = "vtt"
)

// Postprocessor is one post-download processing step
type Postprocessor struct {
	Key     string
	Options map[string]string
}

// Params is the extractor configuration built from the merged options
type Params struct {
	OutputTemplate      string
	Format              string
	Postprocessors      []Postprocessor
	WriteSubtitles      bool
	WriteAutoSubtitles  bool
	SubtitleLangs       []string
	SubtitleFormat      string
	AddMetadata         bool
	WriteThumbnail      bool
	RateLimit           int64 // bytes per second, 0 for unlimited
	ConcurrentFragments int
	DownloadArchive     string
	CookieFile          string
	PlaylistItems       string
	Playlist            bool
	SkipDownload        bool
	Quiet               bool
	NoWarnings          bool
	NoProgress          bool
	IgnoreErrors        bool
	Continue            bool
	FFmpegLocation      string
}

// HasPostprocessor reports whether a step with key is configured
func (p Params) HasPostprocessor(key string) bool {
	for _, pp := range p.Postprocessors {
		if pp.Key == key {
			return true
		}
	}
	return false
}

// ParamOption adjusts Params after they are built from options
type ParamOption func(*Params)

// WithPlaylist enables playlist downloads
func WithPlaylist() ParamOption {
	return func(p *Params) {
		p.Playlist = true
	}
}

// WithAudioOnly switches to best-audio selection with audio extraction
func WithAudioOnly(codec string) ParamOption {
	return func(p *Params) {
		p.Format = AudioOnlyFormat
		if !p.HasPostprocessor(PPExtractAudio) {
			p.Postprocessors = append([]Postprocessor{extractAudio(codec)}, p.Postprocessors...)
		}
	}
}

func extractAudio(codec string) Postprocessor {
	return Postprocessor{
		Key: PPExtractAudio,
		Options: map[string]string{
			"preferredcodec":   codec,
			"preferredquality": DefaultAudioQuality,
		},
	}
}

// BuildParams converts the service options into extractor parameters
func (s *Service) BuildParams(extra ...ParamOption) (Params, error) {
	opts := s.options
	quiet := opts.Bool(options.KeyQuiet)

	p := Params{
		OutputTemplate: filepath.Join(s.outputDir, DefaultOutputTemplate),
		Format:         opts.StringOr(options.KeyFormat, DefaultFormat),
		Quiet:          quiet,
		NoWarnings:     quiet,
		NoProgress:     opts.Bool(options.KeyNoProgress),
		IgnoreErrors:   true,
		Continue:       true,
		FFmpegLocation: s.ffmpegLocation,
	}

	if opts.Bool(options.KeyAudioOnly) {
		WithAudioOnly(opts.StringOr(options.KeyAudioFormat, DefaultAudioFormat))(&p)
	}

	if opts.Bool(options.KeySubtitles) {
		p.WriteSubtitles = true
		p.WriteAutoSubtitles = true
		p.SubtitleLangs = subtitleLangs(opts.StringOr(options.KeySubLangs, DefaultSubLangs))
		p.SubtitleFormat = SubtitleFormatPref
	}

	if opts.Bool(options.KeyMetadata) {
		p.AddMetadata = true
	}
	if opts.Bool(options.KeyThumbnail) {
		p.WriteThumbnail = true
		p.Postprocessors = append(p.Postprocessors,
			Postprocessor{Key: PPEmbedSubtitle},
			Postprocessor{Key: PPMetadata, Options: map[string]string{"add_metadata": "true"}},
			Postprocessor{Key: PPEmbedThumb},
		)
	}

	if rate := opts.String(options.KeyLimitRate); rate != "" {
		limit, err := options.ParseRateLimit(rate)
		if err != nil {
			return Params{}, err
		}
		p.RateLimit = limit
	}

	if n := opts.Int(options.KeyConcurrent); n > 0 {
		p.ConcurrentFragments = n
	}

	p.DownloadArchive = opts.String(options.KeyArchive)
	p.CookieFile = opts.String(options.KeyCookies)

	if name := opts.String(options.KeyFilename); name != "" {
		if !strings.Contains(name, "%(") {
			name = platform.SanitizeFilename(name)
		}
		p.OutputTemplate = filepath.Join(s.outputDir, name)
	}

	if items := opts.String(options.KeyPlaylistItems); items != "" {
		if _, err := options.ParsePlaylistItems(items); err != nil {
			return Params{}, err
		}
		p.PlaylistItems = items
	}

	p.SkipDownload = opts.Bool(options.KeySkipDownload)

	for _, apply := range extra {
		apply(&p)
	}
	return p, nil
}

// subtitleLangs splits a comma separated language list; "all" is kept as
// the single sentinel value.
func subtitleLangs(spec string) []string {
	if strings.EqualFold(strings.TrimSpace(spec), AllSubtitleLangs) {
		return []string{AllSubtitleLangs}
	}
	var langs []string
	for _, lang := range strings.Split(spec, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	return langs
}

// String renders the parameters for debug logging
func (p Params) String() string {
	keys := make([]string, 0, len(p.Postprocessors))
	for _, pp := range p.Postprocessors {
		keys = append(keys, pp.Key)
	}
	return fmt.Sprintf("format=%s output=%s postprocessors=[%s] subs=%v langs=%v rate=%d fragments=%d",
		p.Format, p.OutputTemplate, strings.Join(keys, ","), p.WriteSubtitles, p.SubtitleLangs, p.RateLimit, p.ConcurrentFragments)
}
