package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ytget/ytd/internal/options"
)

// Flag defaults
const (
	DefaultOutput      = "."
	DefaultFormat      = "best"
	DefaultAudioFormat = "mp3"
	DefaultSubLangs    = "en"
	DefaultConvertSubs = "keep"
	DefaultConcurrent  = 3
)

// Accepted flag values
var (
	AudioFormats   = []string{"mp3", "m4a", "opus", "vorbis", "flac", "wav"}
	ConvertFormats = []string{"srt", "vtt", "keep"}
)

// rootFlags holds the values bound to the root command flags
type rootFlags struct {
	output         string
	filename       string
	format         string
	audioOnly      bool
	audioFormat    string
	listFormats    bool
	listSubs       bool
	playlist       bool
	playlistItems  string
	subtitles      bool
	subLangs       string
	writeAutoSubs  bool
	skipDownload   bool
	convertSubs    string
	metadata       bool
	thumbnail      bool
	limitRate      string
	concurrent     int
	verbose        bool
	quiet          bool
	config         string
	update         bool
	noProgress     bool
	archive        string
	cookies        string
	listExtractors bool
}

func (f *rootFlags) register(fs, persistent *pflag.FlagSet) {

	// Output
	fs.StringVarP(&f.output, "output", "o", DefaultOutput, "output directory")
	fs.StringVar(&f.filename, "filename", "", "output filename template (default: video title)")

	// Format
	fs.StringVarP(&f.format, "format", "f", DefaultFormat, "video format/quality, see --list-formats")
	fs.BoolVarP(&f.audioOnly, "audio-only", "a", false, "download audio only")
	fs.StringVar(&f.audioFormat, "audio-format", DefaultAudioFormat, "audio format for audio-only downloads: "+strings.Join(AudioFormats, ", "))
	fs.BoolVar(&f.listFormats, "list-formats", false, "list all available formats for the video")
	fs.BoolVar(&f.listSubs, "list-subs", false, "list all available subtitles (including auto-generated)")

	// Download
	fs.BoolVarP(&f.playlist, "playlist", "p", false, "download entire playlist")
	fs.StringVar(&f.playlistItems, "playlist-items", "", `playlist items to download (e.g. "1-3,7,10-13")`)
	fs.BoolVarP(&f.subtitles, "subtitles", "s", false, "download subtitles")
	fs.StringVar(&f.subLangs, "sub-langs", DefaultSubLangs, `subtitle languages, comma-separated, or "all"`)
	fs.BoolVar(&f.writeAutoSubs, "write-auto-subs", false, "download auto-generated subtitles (included by default)")
	fs.BoolVar(&f.skipDownload, "skip-download", false, "skip the video/audio file, e.g. to fetch subtitles only")
	fs.StringVar(&f.convertSubs, "convert-subs", DefaultConvertSubs, "convert subtitles to: "+strings.Join(ConvertFormats, ", "))
	fs.BoolVarP(&f.metadata, "metadata", "m", false, "embed metadata in the file")
	fs.BoolVar(&f.thumbnail, "thumbnail", false, "embed thumbnail in the file")
	fs.StringVarP(&f.limitRate, "limit-rate", "r", "", "limit download rate (e.g. 50K, 4M)")
	fs.IntVar(&f.concurrent, "concurrent", DefaultConcurrent, "number of concurrent fragment downloads")

	// Other
	persistent.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose output")
	persistent.BoolVarP(&f.quiet, "quiet", "q", false, "enable quiet mode (minimal output)")
	fs.StringVar(&f.config, "config", "", "path to configuration file")
	fs.BoolVar(&f.update, "update", false, "update yt-dlp to the latest version")
	fs.BoolVar(&f.noProgress, "no-progress", false, "disable progress bar")
	fs.StringVar(&f.archive, "archive", "", "download archive file to track already downloaded videos")
	fs.StringVar(&f.cookies, "cookies", "", "path to cookies file")
	fs.BoolVar(&f.listExtractors, "list-extractors", false, "list supported video sites")
}

// validate checks the flags with a fixed set of accepted values
func (f *rootFlags) validate() error {
	if err := validateChoice("audio-format", f.audioFormat, AudioFormats); err != nil {
		return err
	}
	return validateChoice("convert-subs", f.convertSubs, ConvertFormats)
}

// values returns the flag values keyed by option name. Flags without a
// default are nil unless given, so they never shadow config values. Flags
// with a default always carry it.
func (f *rootFlags) values(fs *pflag.FlagSet, rawURL string) map[string]any {
	changed := func(name, value string) any {
		if fs.Changed(name) {
			return value
		}
		return nil
	}

	var u any
	if rawURL != "" {
		u = rawURL
	}

	return map[string]any{
		options.KeyURL:            u,
		options.KeyOutput:         f.output,
		options.KeyFilename:       changed("filename", f.filename),
		options.KeyFormat:         f.format,
		options.KeyAudioOnly:      f.audioOnly,
		options.KeyAudioFormat:    f.audioFormat,
		options.KeyListFormats:    f.listFormats,
		options.KeyListSubs:       f.listSubs,
		options.KeyPlaylist:       f.playlist,
		options.KeyPlaylistItems:  changed("playlist-items", f.playlistItems),
		options.KeySubtitles:      f.subtitles,
		options.KeySubLangs:       f.subLangs,
		options.KeyWriteAutoSubs:  f.writeAutoSubs,
		options.KeySkipDownload:   f.skipDownload,
		options.KeyConvertSubs:    f.convertSubs,
		options.KeyMetadata:       f.metadata,
		options.KeyThumbnail:      f.thumbnail,
		options.KeyLimitRate:      changed("limit-rate", f.limitRate),
		options.KeyConcurrent:     f.concurrent,
		options.KeyVerbose:        f.verbose,
		options.KeyQuiet:          f.quiet,
		options.KeyConfig:         changed("config", f.config),
		options.KeyUpdate:         f.update,
		options.KeyNoProgress:     f.noProgress,
		options.KeyArchive:        changed("archive", f.archive),
		options.KeyCookies:        changed("cookies", f.cookies),
		options.KeyListExtractors: f.listExtractors,
	}
}

func validateChoice(flag, value string, choices []string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return fail(fmt.Sprintf("invalid value %q for --%s (choose from %s)", value, flag, strings.Join(choices, ", ")))
}

// ValidateURL reports whether raw looks like an absolute URL. Whether the
// site is supported is left to yt-dlp.
func ValidateURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != "" && !strings.HasPrefix(u.Host, ".")
}
