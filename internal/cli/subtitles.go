package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ytget/ytd/internal/merge"
	"github.com/ytget/ytd/internal/platform"
	"github.com/ytget/ytd/internal/subtitle"
)

// Batch defaults
const (
	DefaultSubtitlePattern = "*.vtt"
	DefaultVideoPattern    = "*.mp4"
)

// SubtitleCodecs are the accepted --subtitle-codec values
var SubtitleCodecs = []string{merge.CodecAuto, merge.CodecMovText, merge.CodecSRT, merge.CodecASS}

func newConvertSubsCmd(env *environment) *cobra.Command {
	var (
		batchDir string
		pattern  string
	)

	cmd := &cobra.Command{
		Use:   "convert-subs <file.vtt> [file.srt]",
		Short: "Convert WebVTT subtitles to SRT",
		Example: `  ytd convert-subs talk.en.vtt
  ytd convert-subs --batch downloads/`,
		Args: maxArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := env.console

			if batchDir != "" {
				if info, err := os.Stat(batchDir); err != nil || !info.IsDir() {
					return fail(batchDir + " is not a directory")
				}
				converted, err := subtitle.BatchConvert(batchDir, pattern, env.logger)
				if err != nil {
					return fail(err.Error())
				}
				for _, path := range converted {
					c.Printf("Converted: %s\n", filepath.Base(path))
				}
				c.Printf("\nConverted %d files\n", len(converted))
				return nil
			}

			if len(args) == 0 {
				_ = cmd.Usage()
				return failed()
			}

			vttPath := args[0]
			if _, err := os.Stat(vttPath); err != nil {
				return fail(vttPath + " not found")
			}
			srtPath := ""
			if len(args) > 1 {
				srtPath = args[1]
			}

			result, err := subtitle.ConvertFile(vttPath, srtPath)
			if err != nil {
				env.logger.Error("Conversion failed", "file", vttPath, "error", err)
				return fail("Conversion failed")
			}
			c.Printf("Converted: %s → %s\n", vttPath, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&batchDir, "batch", "", "convert every matching file in `DIR`")
	cmd.Flags().StringVar(&pattern, "pattern", DefaultSubtitlePattern, "file pattern for batch mode")
	return cmd
}

func newMergeSubsCmd(env *environment) *cobra.Command {
	var (
		output    string
		force     bool
		hardSubs  bool
		trackName string
		codec     string
		batchDir  string
		pattern   string
	)

	cmd := &cobra.Command{
		Use:   "merge-subs <video> <subtitle>",
		Short: "Embed or burn subtitle files into videos with ffmpeg",
		Example: `  ytd merge-subs video.mp4 subtitles.srt
  ytd merge-subs video.mp4 subtitles.vtt -o output.mp4
  ytd merge-subs video.mp4 subtitles.srt --hard-subs
  ytd merge-subs --batch downloads/
  ytd merge-subs video.mp4 english.srt --subtitle-name "English"`,
		Args: maxArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := env.console

			if err := validateChoice("subtitle-codec", codec, SubtitleCodecs); err != nil {
				return err
			}
			if batchDir == "" && len(args) < 2 {
				_ = cmd.Usage()
				return failed()
			}

			helper, err := newFFmpegHelper(env)
			if err != nil {
				return err
			}
			if !helper.Ensure(ctx, interactiveInput(env), c.Out()) {
				return interruptedOr(ctx, failed())
			}

			merger := newMerger(env, helper.Command())
			if batchDir != "" {
				return runBatchMerge(cmd, env, merger, batchDir, pattern, hardSubs, force)
			}

			req := merge.Request{
				VideoPath:    args[0],
				SubtitlePath: args[1],
				OutputPath:   output,
				TrackName:    trackName,
				Hard:         hardSubs,
				Codec:        codec,
				Force:        force,
			}
			c.Println("Merging subtitles...")
			c.Printf("  Video: %s\n", filepath.Base(req.VideoPath))
			c.Printf("  Subtitles: %s\n", filepath.Base(req.SubtitlePath))
			c.Printf("  Mode: %s\n", req.Mode())

			result, err := merger.Merge(ctx, req)
			if err != nil {
				return interruptedOr(ctx, fail(err.Error()))
			}
			printMergeResult(env, result)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&output, "output", "o", "", "output file path (default: <video>_with_subs.<ext>)")
	fs.BoolVarP(&force, "force", "f", false, "overwrite output file if it exists")
	fs.BoolVar(&hardSubs, "hard-subs", false, "burn subtitles into the video (permanent)")
	fs.StringVar(&trackName, "subtitle-name", "", `name for the subtitle track (e.g. "English")`)
	fs.StringVar(&codec, "subtitle-codec", merge.CodecAuto, "subtitle codec: auto, mov_text, srt, ass")
	fs.StringVar(&batchDir, "batch", "", "merge every video in `DIR` with its subtitle")
	fs.StringVar(&pattern, "pattern", DefaultVideoPattern, "file pattern for batch mode")
	return cmd
}

// newMerger builds the merge service around the resolved ffmpeg command
func newMerger(env *environment, command string) merge.Merger {
	svc := merge.NewService(command, env.logger)
	if env.mergeRunner != nil {
		svc.SetRunner(env.mergeRunner)
	}
	return svc
}

func runBatchMerge(cmd *cobra.Command, env *environment, merger merge.Merger, dir, pattern string, hard, force bool) error {
	ctx := cmd.Context()
	c := env.console

	report, err := merger.Batch(ctx, dir, pattern, hard, force)
	if err != nil {
		return interruptedOr(ctx, fail(err.Error()))
	}
	if report.Found == 0 {
		c.Printf("No videos found matching pattern: %s\n", pattern)
		return nil
	}

	c.Printf("Found %d video(s) in %s\n", report.Found, dir)
	for _, name := range report.Skipped {
		c.Printf("Skipping %s - no matching subtitle found\n", name)
	}
	names := make([]string, 0, len(report.Failed))
	for name := range report.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.Error("%s: %v", name, report.Failed[name])
	}
	c.Success("Successfully merged %d video(s)", report.Merged)
	return nil
}

func printMergeResult(env *environment, result *merge.Result) {
	c := env.console
	c.Success("Successfully created: %s", result.OutputPath)
	c.Println("\nFile sizes:")
	c.Printf("  Original: %s\n", platform.FormatBytes(result.InputSize))
	c.Printf("  Output: %s\n", platform.FormatBytes(result.OutputSize))
	if result.Hard {
		c.Println("\nNote: The subtitles are permanently burned into the video.")
		return
	}
	c.Println("\nTip: The subtitles are embedded as a soft track.")
	c.Println("   Most players will show them automatically.")
	c.Println("   You can turn them on/off in your video player.")
}
