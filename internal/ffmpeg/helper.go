// Package ffmpeg locates the ffmpeg binary, installs a managed copy when
// it is missing, and probes media files with ffprobe.
package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ytget/ytd/internal/platform"
)

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrBinaryNotFound      = errors.New("ffmpeg binary not found in archive")
)

// Binary names
const (
	BinaryName      = "ffmpeg"
	ProbeBinaryName = "ffprobe"
	managedDirName  = "ffmpeg"
	windowsExeExt   = ".exe"
)

const defaultHTTPTimeout = 10 * time.Minute

// Source is where the ffmpeg build for one platform is downloaded from
type Source struct {
	URL string
	Exe string
}

// Sources maps GOOS values to download sources
var Sources = map[string]Source{
	platform.OSWindows: {
		URL: "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip",
		Exe: "ffmpeg.exe",
	},
	platform.OSDarwin: {
		URL: "https://evermeet.cx/ffmpeg/getrelease/ffmpeg/zip",
		Exe: "ffmpeg",
	},
	platform.OSLinux: {
		URL: "https://johnvansickle.com/ffmpeg/builds/ffmpeg-git-amd64-static.tar.xz",
		Exe: "ffmpeg",
	},
}

// Runner executes a program and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Helper manages ffmpeg resolution and installation
type Helper struct {
	goos     string
	dir      string
	source   Source
	lookPath func(string) (string, error)
	client   *http.Client
	progress io.Writer
	run      Runner
	logger   *slog.Logger
}

// Option configures a Helper
type Option func(*Helper)

// WithGOOS overrides the target operating system
func WithGOOS(goos string) Option {
	return func(h *Helper) {
		h.goos = goos
	}
}

// WithLookPath overrides the PATH lookup
func WithLookPath(fn func(string) (string, error)) Option {
	return func(h *Helper) {
		h.lookPath = fn
	}
}

// WithHTTPClient sets the client used for downloads
func WithHTTPClient(client *http.Client) Option {
	return func(h *Helper) {
		h.client = client
	}
}

// WithProgressOutput sets where the download progress bar is drawn
func WithProgressOutput(w io.Writer) Option {
	return func(h *Helper) {
		h.progress = w
	}
}

// WithRunner replaces the subprocess runner used by Probe
func WithRunner(run Runner) Option {
	return func(h *Helper) {
		h.run = run
	}
}

// NewHelper creates a helper for the running platform using settings for
// the managed directory and download URL
func NewHelper(settings Settings, logger *slog.Logger, opts ...Option) (*Helper, error) {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Helper{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		progress: io.Discard,
		run:      outputRunner,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	appDir := settings.AppDir
	if appDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		appDir = platform.AppDataDir(h.goos, home)
	}
	h.dir = filepath.Join(appDir, managedDirName)

	h.source = Sources[h.goos]
	if settings.DownloadURL != "" {
		h.source.URL = settings.DownloadURL
	}
	if h.source.Exe == "" {
		h.source.Exe = h.exeName(BinaryName)
	}
	return h, nil
}

func outputRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (h *Helper) exeName(base string) string {
	if h.goos == platform.OSWindows {
		return base + windowsExeExt
	}
	return base
}

// Dir returns the managed installation directory
func (h *Helper) Dir() string {
	return h.dir
}

// ManagedPath returns where the managed ffmpeg copy lives
func (h *Helper) ManagedPath() string {
	return filepath.Join(h.dir, h.source.Exe)
}

func (h *Helper) managedProbePath() string {
	return filepath.Join(h.dir, h.exeName(ProbeBinaryName))
}

// Available reports whether ffmpeg is on PATH or installed locally
func (h *Helper) Available() bool {
	if _, err := h.lookPath(BinaryName); err == nil {
		return true
	}
	return fileExists(h.ManagedPath())
}

// Command returns the ffmpeg to run: the system copy, then the managed
// copy, then the bare command name
func (h *Helper) Command() string {
	if path, err := h.lookPath(BinaryName); err == nil {
		return path
	}
	if managed := h.ManagedPath(); fileExists(managed) {
		return managed
	}
	return BinaryName
}

// ProbeCommand returns the ffprobe to run, resolved like Command
func (h *Helper) ProbeCommand() string {
	if path, err := h.lookPath(ProbeBinaryName); err == nil {
		return path
	}
	if managed := h.managedProbePath(); fileExists(managed) {
		return managed
	}
	return ProbeBinaryName
}

// Ensure makes ffmpeg available, asking on out whether to download it.
// A nil in means no one can answer, so manual instructions are printed.
func (h *Helper) Ensure(ctx context.Context, in io.Reader, out io.Writer) bool {
	if h.Available() {
		return true
	}

	fmt.Fprintln(out, "\nFFmpeg is required but not found.")
	if in == nil {
		printManualInstructions(out)
		return false
	}

	fmt.Fprint(out, "Would you like to download it automatically? (y/n): ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out, "\nFFmpeg installation cancelled.")
		return false
	}

	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		printManualInstructions(out)
		return false
	}

	fmt.Fprintf(out, "Downloading FFmpeg for %s...\n", h.goos)
	path, err := h.Install(ctx)
	if err != nil {
		fmt.Fprintf(out, "Error downloading FFmpeg: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "FFmpeg installed successfully to: %s\n", path)
	return true
}

func printManualInstructions(out io.Writer) {
	fmt.Fprintln(out, "\nPlease install FFmpeg manually:")
	fmt.Fprintln(out, "  Windows: Download from https://ffmpeg.org/download.html")
	fmt.Fprintln(out, "  macOS: brew install ffmpeg")
	fmt.Fprintln(out, "  Linux: sudo apt install ffmpeg")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
