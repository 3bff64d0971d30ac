// Package cli wires the ytd command line onto the download, subtitle,
// merge and ffmpeg packages.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/ytd/internal/download"
	"github.com/ytget/ytd/internal/ffmpeg"
	"github.com/ytget/ytd/internal/merge"
	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytd/internal/platform"
	"github.com/ytget/ytd/internal/ui"
)

// Exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// playlistLister resolves playlist entries without downloading
type playlistLister interface {
	List(ctx context.Context, url string) (*model.Playlist, error)
}

// environment holds the process-level dependencies of every command
type environment struct {
	console *ui.Console
	stdin   *os.File
	logOut  io.Writer
	logger  *slog.Logger
	version string

	newExtractor func(logger *slog.Logger) download.Extractor
	newSink      func() download.ProgressSink
	newLister    func(timeout time.Duration) playlistLister
	ffmpegOpts   []ffmpeg.Option
	mergeRunner  merge.Runner
	openFile     func(path string) error
	revealFile   func(path string) error
}

func defaultEnvironment(version string) *environment {
	return &environment{
		console: ui.NewStdConsole(),
		stdin:   os.Stdin,
		logOut:  os.Stderr,
		logger:  slog.Default(),
		version: version,
		newExtractor: func(logger *slog.Logger) download.Extractor {
			return download.NewYTDLP(logger)
		},
		newSink: func() download.ProgressSink {
			return ui.NewTerminalSink(os.Stderr)
		},
		newLister: func(timeout time.Duration) playlistLister {
			lister := platform.NewPlaylistLister()
			lister.SetTimeout(timeout)
			return lister
		},
		openFile:   platform.OpenFileWithDefaultApp,
		revealFile: platform.OpenFileInManager,
	}
}

// Execute runs the command line and returns the process exit code
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, defaultEnvironment(version), os.Args[1:])
}

func run(ctx context.Context, env *environment, args []string) int {
	cmd := newRootCmd(env)
	cmd.SetArgs(args)
	cmd.SetOut(env.console.Out())
	cmd.SetErr(env.console.Err())

	err := cmd.ExecuteContext(ctx)
	return exitCode(env, err)
}

// exitCode reports err on the console and maps it to an exit status
func exitCode(env *environment, err error) int {
	var exit *exitError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		env.console.Error("\nDownload cancelled by user")
		return ExitInterrupted
	case errors.As(err, &exit):
		if exit.message != "" {
			env.console.Error("%s", exit.message)
		}
		return exit.code
	default:
		env.console.Error("An unexpected error occurred: %v", err)
		env.logger.Debug("Full error details", "error", err)
		return ExitFailure
	}
}

// exitError ends a command with a specific code. message, when set, is
// printed as an error line.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string {
	if e.message != "" {
		return e.message
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func fail(message string) error {
	return &exitError{code: ExitFailure, message: message}
}

// failed ends a command with exit 1 after the failure was already reported
func failed() error {
	return &exitError{code: ExitFailure}
}

// maxArgs is cobra.MaximumNArgs reporting through exitError
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return fail(fmt.Sprintf("accepts at most %d arg(s), received %d", n, len(args)))
		}
		return nil
	}
}

// setupLogging builds the logger shared by all packages
func setupLogging(out io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if !verbose && len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newRootCmd(env *environment) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "ytd [url]",
		Short: "Download YouTube videos and playlists with ease",
		Long: `ytd downloads videos, playlists, audio and subtitles from YouTube and the
other sites yt-dlp supports, and ships helpers to convert and embed subtitles.`,
		Example:       "  ytd https://youtube.com/watch?v=VIDEO_ID -f best -o ~/Videos",
		Version:       env.version,
		Args:          maxArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env.logger = setupLogging(env.logOut, flags.verbose, flags.quiet)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, env, flags, args)
		},
	}
	cmd.SetVersionTemplate("ytd {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fail(err.Error())
	})

	flags.register(cmd.Flags(), cmd.PersistentFlags())

	cmd.AddCommand(
		newConvertSubsCmd(env),
		newMergeSubsCmd(env),
		newFFmpegCmd(env),
		newConfigCmd(env),
		newPlaylistCmd(env),
		newPairsCmd(env),
	)
	return cmd
}
