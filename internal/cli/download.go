package cli

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/ytd/internal/config"
	"github.com/ytget/ytd/internal/download"
	"github.com/ytget/ytd/internal/options"
)

// popularSites is printed by --list-extractors
var popularSites = []string{
	"YouTube", "YouTube Playlists", "YouTube Shorts",
	"Twitter/X", "Facebook", "Instagram", "TikTok",
	"Vimeo", "Dailymotion", "Twitch", "Reddit",
	"SoundCloud", "Bandcamp", "Mixcloud",
	"BBC", "CNN", "TED", "Coursera", "Udemy",
	"PeerTube instances",
	"And 1700+ more sites!",
}

// Subtitle table layout
const (
	subtitleRowFormat = "%-25s %-15s %-20s\n"
	subtitleRuleWidth = 60
)

func runRoot(cmd *cobra.Command, env *environment, flags *rootFlags, args []string) error {
	ctx := cmd.Context()
	c := env.console

	if flags.listExtractors {
		printExtractors(env)
		return nil
	}

	var rawURL string
	if len(args) > 0 {
		rawURL = args[0]
	}
	if rawURL == "" && !flags.update {
		c.Error("URL is required")
		_ = cmd.Usage()
		return failed()
	}
	if rawURL != "" && !ValidateURL(rawURL) {
		return fail("Invalid URL format")
	}
	if err := flags.validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(env, flags.config)
	if err != nil {
		return err
	}

	opts := options.Merge(cfg, flags.values(cmd.Flags(), rawURL))
	if err := validateOptions(opts); err != nil {
		return err
	}

	sink := env.newSink()
	if closer, ok := sink.(interface{ Close() }); ok {
		defer closer.Close()
	}

	svc, err := download.NewService(opts, env.newExtractor(env.logger), sink, env.logger)
	if err != nil {
		return err
	}
	if helper, err := newFFmpegHelper(env); err == nil && helper.Available() {
		svc.SetFFmpegLocation(helper.Command())
	}
	env.logger.Debug("Resolved output directory", "dir", svc.OutputDir())

	switch {
	case flags.update:
		c.Info("Updating yt-dlp...")
		if err := svc.Update(ctx); err != nil {
			return interruptedOr(ctx, fail("Failed to update yt-dlp"))
		}
		c.Success("yt-dlp updated successfully")
		return nil

	case opts.Bool(options.KeyListFormats):
		return listFormats(ctx, env, svc, rawURL)

	case opts.Bool(options.KeyListSubs):
		return listSubtitles(ctx, env, svc, rawURL)
	}

	c.Info("Starting download: %s", rawURL)

	switch {
	case opts.Bool(options.KeyPlaylist):
		err = svc.DownloadPlaylist(ctx, rawURL)
	case opts.Bool(options.KeyAudioOnly):
		err = svc.DownloadAudio(ctx, rawURL)
	default:
		err = svc.DownloadVideo(ctx, rawURL)
	}
	if err != nil {
		return interruptedOr(ctx, fail("Download failed"))
	}

	c.Success("Download completed successfully!")
	return nil
}

// interruptedOr returns the context error when ctx was cancelled and err
// otherwise
func interruptedOr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func printExtractors(env *environment) {
	c := env.console
	c.Info("Supported video sites/extractors:")
	c.Println("\nYt-dlp supports 1700+ websites including:")
	for _, site := range popularSites {
		c.Printf("  • %s\n", site)
	}
	c.Println("\nFor a complete list, run:")
	c.Println("  yt-dlp --list-extractors")
	c.Println("\nFor details about a specific site:")
	c.Println("  yt-dlp --extractor-descriptions")
}

// loadConfig reads the explicit config file, which must exist, or the
// default one when present
func loadConfig(env *environment, path string) (map[string]any, error) {
	if path == "" {
		return config.LoadDefault(env.logger), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fail("Configuration file not found: " + path)
	}
	return config.Load(path, env.logger), nil
}

// validateOptions rejects malformed values before any work starts
func validateOptions(opts options.Options) error {
	if opts.Has(options.KeyLimitRate) {
		if _, err := options.ParseRateLimit(opts.String(options.KeyLimitRate)); err != nil {
			return fail(err.Error())
		}
	}
	if opts.Has(options.KeyPlaylistItems) {
		if _, err := options.ParsePlaylistItems(opts.String(options.KeyPlaylistItems)); err != nil {
			return fail(err.Error())
		}
	}
	return nil
}

func listFormats(ctx context.Context, env *environment, svc *download.Service, rawURL string) error {
	c := env.console
	c.Info("Fetching available formats for: %s", rawURL)

	formats, err := svc.ListFormats(ctx, rawURL)
	if err != nil {
		return interruptedOr(ctx, fail("Failed to list formats"))
	}
	if len(formats) == 0 {
		return nil
	}

	c.Println("\nAvailable formats:")
	for _, f := range formats {
		c.Printf("  %s\n", f)
	}
	return nil
}

func listSubtitles(ctx context.Context, env *environment, svc *download.Service, rawURL string) error {
	c := env.console
	c.Info("Fetching available subtitles for: %s", rawURL)

	subs, err := svc.ListSubtitles(ctx, rawURL)
	if err != nil {
		return interruptedOr(ctx, fail("Failed to list subtitles"))
	}
	if len(subs) == 0 {
		c.Println("No subtitles available for this video")
		return nil
	}

	keys := make([]string, 0, len(subs))
	for k := range subs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c.Println("\nAvailable subtitles:")
	c.Printf(subtitleRowFormat, "Language", "Type", "Formats")
	c.Println(strings.Repeat("-", subtitleRuleWidth))
	for _, k := range keys {
		sub := subs[k]
		c.Printf(subtitleRowFormat, k, sub.Type, sub.FormatsSummary())
	}
	c.Printf("\nTotal: %d subtitle tracks available\n", len(subs))
	return nil
}
