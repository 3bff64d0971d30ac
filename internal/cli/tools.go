package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/ytd/internal/config"
	"github.com/ytget/ytd/internal/ffmpeg"
	"github.com/ytget/ytd/internal/options"
	"github.com/ytget/ytd/internal/platform"
	"github.com/ytget/ytd/internal/ui"
)

// newFFmpegHelper builds the ffmpeg helper from YTD_* environment settings
func newFFmpegHelper(env *environment) (*ffmpeg.Helper, error) {
	settings, err := ffmpeg.LoadSettings()
	if err != nil {
		env.logger.Warn("Ignoring invalid ffmpeg environment settings", "error", err)
		settings = ffmpeg.Settings{}
	}
	return ffmpeg.NewHelper(settings, env.logger, env.ffmpegOpts...)
}

// interactiveInput returns stdin when a user can answer prompts
func interactiveInput(env *environment) io.Reader {
	return ui.InteractiveInput(env.stdin)
}

func newFFmpegCmd(env *environment) *cobra.Command {
	var (
		install bool
		probe   string
	)

	cmd := &cobra.Command{
		Use:   "ffmpeg",
		Short: "Show, install or use the ffmpeg binary",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := env.console

			helper, err := newFFmpegHelper(env)
			if err != nil {
				return err
			}

			if probe != "" {
				info, err := helper.Probe(ctx, probe)
				if err != nil {
					return interruptedOr(ctx, fail(err.Error()))
				}
				c.Printf("%s\n", filepath.Base(probe))
				c.Printf("  Duration: %s\n", platform.FormatDuration(int(info.Duration)))
				c.Printf("  Size: %s\n", platform.FormatBytes(info.Size))
				if info.BitRate > 0 {
					c.Printf("  Bit rate: %d kb/s\n", info.BitRate/1000)
				}
				c.Printf("  Subtitle tracks: %d\n", len(info.StreamsOfType(ffmpeg.StreamSubtitle)))
				for _, s := range info.Streams {
					line := fmt.Sprintf("  #%d %s: %s", s.Index, s.CodecType, s.CodecName)
					if s.Width > 0 && s.Height > 0 {
						line += fmt.Sprintf(" %dx%d", s.Width, s.Height)
					}
					if s.Tags.Language != "" {
						line += " [" + s.Tags.Language + "]"
					}
					c.Println(line)
				}
				return nil
			}

			if helper.Available() {
				c.Printf("FFmpeg found at: %s\n", helper.Command())
				return nil
			}

			c.Println("FFmpeg not found.")
			if !install {
				if !helper.Ensure(ctx, interactiveInput(env), c.Out()) {
					return interruptedOr(ctx, failed())
				}
				c.Printf("FFmpeg is now available at: %s\n", helper.Command())
				return nil
			}

			c.Printf("Installing to: %s\n", helper.Dir())
			path, err := helper.Install(ctx)
			if err != nil {
				return interruptedOr(ctx, fail("Error downloading FFmpeg: "+err.Error()))
			}
			c.Success("FFmpeg installed successfully to: %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "download ffmpeg without asking")
	cmd.Flags().StringVar(&probe, "probe", "", "print the streams of a media `FILE`")
	return cmd
}

func newConfigCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the default configuration file path",
			Args:  maxArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.DefaultPath()
				if err != nil {
					return err
				}
				env.console.Println(path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "init [path]",
			Short: "Write a configuration file with default values",
			Args:  maxArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.DefaultPath()
				if err != nil {
					return err
				}
				if len(args) > 0 {
					path = platform.ExpandUser(args[0])
				}

				created, err := config.WriteDefault(path)
				if err != nil {
					return err
				}
				if !created {
					env.console.Info("Configuration file already exists: %s", path)
					return nil
				}
				env.console.Success("Configuration written to: %s", path)
				return nil
			},
		},
	)
	return cmd
}

func newPlaylistCmd(env *environment) *cobra.Command {
	var (
		items   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "playlist <url>",
		Short: "List the entries of a YouTube playlist",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := env.console

			if len(args) == 0 {
				_ = cmd.Usage()
				return failed()
			}
			if !ValidateURL(args[0]) {
				return fail("Invalid URL format")
			}
			var selected []int
			if items != "" {
				parsed, err := options.ParsePlaylistItems(items)
				if err != nil {
					return fail(err.Error())
				}
				selected = parsed
			}

			c.Info("Fetching playlist: %s", args[0])
			playlist, err := env.newLister(timeout).List(ctx, args[0])
			if err != nil {
				return interruptedOr(ctx, fail(err.Error()))
			}
			playlist.Select(selected)

			if playlist.Title != "" {
				c.Printf("\n%s\n", playlist.Title)
			}
			for _, entry := range playlist.Entries {
				marker := " "
				if entry.Selected {
					marker = "*"
				}
				c.Printf("%s %s\n", marker, entry)
			}
			c.Printf("\nTotal: %d videos, %d selected\n", len(playlist.Entries), len(playlist.SelectedEntries()))
			return nil
		},
	}

	cmd.Flags().StringVar(&items, "playlist-items", "", `items to select (e.g. "1-3,7,10-13")`)
	cmd.Flags().DurationVar(&timeout, "timeout", platform.DefaultListTimeout, "give up listing after this long")
	return cmd
}

func newPairsCmd(env *environment) *cobra.Command {
	var (
		open   bool
		reveal bool
	)

	cmd := &cobra.Command{
		Use:   "pairs [dir]",
		Short: "List videos that have matching subtitle files",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := env.console

			dir := "."
			if len(args) > 0 {
				dir = platform.ExpandUser(args[0])
			}

			pairs, err := platform.FindSubtitlePairs(dir)
			if err != nil {
				return fail(err.Error())
			}
			if len(pairs) == 0 {
				c.Println("No video/subtitle pairs found")
				return nil
			}

			for _, pair := range pairs {
				c.Println(filepath.Base(pair.Video))
				for _, sub := range pair.Subtitles {
					lang := pair.LanguageOf(sub)
					if lang == "" {
						lang = "default"
					}
					c.Printf("  %-10s %s\n", lang, filepath.Base(sub))
				}
			}
			c.Printf("\nTotal: %d videos with subtitles\n", len(pairs))

			first := pairs[0].Video
			if open {
				if err := env.openFile(first); err != nil {
					return fail(err.Error())
				}
			}
			if reveal {
				if err := env.revealFile(first); err != nil {
					return fail(err.Error())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "open the first video with the default player")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "show the first video in the file manager")
	return cmd
}
