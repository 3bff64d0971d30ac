package ffmpeg

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

const fakeBinary = "#!/bin/sh\necho ffmpeg\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func notFound(string) (string, error) {
	return "", errors.New("executable file not found in $PATH")
}

func newTestHelper(t *testing.T, goos, url string, opts ...Option) *Helper {
	t.Helper()
	opts = append([]Option{WithGOOS(goos), WithLookPath(notFound)}, opts...)
	h, err := NewHelper(Settings{AppDir: t.TempDir(), DownloadURL: url}, testLogger(), opts...)
	if err != nil {
		t.Fatalf("NewHelper failed: %v", err)
	}
	return h
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func tarArchive(t *testing.T, w io.Writer, files map[string]string) {
	t.Helper()
	tw := tar.NewWriter(w)
	if err := tw.WriteHeader(&tar.Header{Name: "ffmpeg-build/", Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
		t.Fatalf("tar dir header: %v", err)
	}
	for name, content := range files {
		hdr := &tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("tar write: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
}

func tarGzArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tarArchive(t, gw, files)
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func tarXZArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	tarArchive(t, xw, files)
	if err := xw.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	return buf.Bytes()
}

func serve(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func assertNoDownloads(t *testing.T, dir string) {
	t.Helper()
	matches, _ := filepath.Glob(filepath.Join(dir, "*.download"))
	if len(matches) != 0 {
		t.Errorf("Expected temp downloads to be removed, found %v", matches)
	}
}

func TestCommandResolution(t *testing.T) {
	h := newTestHelper(t, "linux", "")

	if h.Available() {
		t.Error("Expected ffmpeg to be unavailable")
	}
	if got := h.Command(); got != BinaryName {
		t.Errorf("Expected fallback %q, got %q", BinaryName, got)
	}
	if got := h.ProbeCommand(); got != ProbeBinaryName {
		t.Errorf("Expected fallback %q, got %q", ProbeBinaryName, got)
	}

	if err := os.MkdirAll(h.Dir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := os.WriteFile(filepath.Join(h.Dir(), name), []byte(fakeBinary), 0o755); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if !h.Available() {
		t.Error("Expected managed ffmpeg to be available")
	}
	if got := h.Command(); got != h.ManagedPath() {
		t.Errorf("Expected managed path %q, got %q", h.ManagedPath(), got)
	}
	if got := h.ProbeCommand(); got != filepath.Join(h.Dir(), "ffprobe") {
		t.Errorf("Expected managed ffprobe, got %q", got)
	}

	// The system copy wins over the managed one
	h.lookPath = func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}
	if got := h.Command(); got != "/usr/bin/ffmpeg" {
		t.Errorf("Expected system ffmpeg, got %q", got)
	}
	if got := h.ProbeCommand(); got != "/usr/bin/ffprobe" {
		t.Errorf("Expected system ffprobe, got %q", got)
	}
}

func TestNewHelper_Defaults(t *testing.T) {
	h, err := NewHelper(Settings{AppDir: "/data/ytd"}, testLogger(), WithGOOS("windows"))
	if err != nil {
		t.Fatalf("NewHelper failed: %v", err)
	}
	if h.ManagedPath() != filepath.Join("/data/ytd", "ffmpeg", "ffmpeg.exe") {
		t.Errorf("Unexpected managed path %s", h.ManagedPath())
	}
	if h.source.URL != Sources["windows"].URL {
		t.Errorf("Unexpected source URL %s", h.source.URL)
	}

	h, err = NewHelper(Settings{AppDir: "/data/ytd"}, testLogger(), WithGOOS("plan9"))
	if err != nil {
		t.Fatalf("NewHelper failed: %v", err)
	}
	if h.ManagedPath() != filepath.Join("/data/ytd", "ffmpeg", "ffmpeg") {
		t.Errorf("Unexpected managed path %s", h.ManagedPath())
	}
}

func TestInstall_Archives(t *testing.T) {
	files := map[string]string{
		"ffmpeg-build/bin/ffmpeg":  fakeBinary,
		"ffmpeg-build/bin/ffprobe": "probe",
		"ffmpeg-build/README.txt":  "readme",
	}

	tests := []struct {
		name string
		body []byte
	}{
		{"zip", zipArchive(t, files)},
		{"tar.gz", tarGzArchive(t, files)},
		{"tar.xz", tarXZArchive(t, files)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.body)
			var progress bytes.Buffer
			h := newTestHelper(t, "linux", srv.URL, WithProgressOutput(&progress))

			path, err := h.Install(context.Background())
			if err != nil {
				t.Fatalf("Install failed: %v", err)
			}
			if path != h.ManagedPath() {
				t.Errorf("Expected %s, got %s", h.ManagedPath(), path)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read installed binary: %v", err)
			}
			if string(data) != fakeBinary {
				t.Errorf("Unexpected binary content %q", data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if info.Mode().Perm() != 0o755 {
				t.Errorf("Expected mode 0755, got %v", info.Mode().Perm())
			}

			if probe, err := os.ReadFile(filepath.Join(h.Dir(), "ffprobe")); err != nil || string(probe) != "probe" {
				t.Errorf("Expected ffprobe to be extracted, got %q (%v)", probe, err)
			}
			if _, err := os.Stat(filepath.Join(h.Dir(), "README.txt")); err == nil {
				t.Error("Expected unrelated entries to be skipped")
			}
			assertNoDownloads(t, h.Dir())

			if !h.Available() {
				t.Error("Expected ffmpeg to be available after install")
			}
		})
	}
}

func TestInstall_Raw(t *testing.T) {
	srv := serve(t, []byte(fakeBinary))
	h := newTestHelper(t, "darwin", srv.URL)

	path, err := h.Install(context.Background())
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != fakeBinary {
		t.Errorf("Unexpected binary content %q", data)
	}
	assertNoDownloads(t, h.Dir())
}

func TestInstall_WindowsZip(t *testing.T) {
	body := zipArchive(t, map[string]string{
		"ffmpeg-master-latest-win64-gpl/bin/ffmpeg.exe": "MZ",
	})
	srv := serve(t, body)
	h := newTestHelper(t, "windows", srv.URL)

	path, err := h.Install(context.Background())
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if filepath.Base(path) != "ffmpeg.exe" {
		t.Errorf("Expected ffmpeg.exe, got %s", path)
	}
}

func TestInstall_Failures(t *testing.T) {
	t.Run("binary missing from archive", func(t *testing.T) {
		srv := serve(t, zipArchive(t, map[string]string{"docs/README": "x"}))
		h := newTestHelper(t, "linux", srv.URL)

		if _, err := h.Install(context.Background()); !errors.Is(err, ErrBinaryNotFound) {
			t.Errorf("Expected ErrBinaryNotFound, got %v", err)
		}
		assertNoDownloads(t, h.Dir())
		if h.Available() {
			t.Error("Expected ffmpeg to stay unavailable")
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		h := newTestHelper(t, "plan9", "")
		if _, err := h.Install(context.Background()); !errors.Is(err, ErrUnsupportedPlatform) {
			t.Errorf("Expected ErrUnsupportedPlatform, got %v", err)
		}
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		h := newTestHelper(t, "linux", srv.URL)

		_, err := h.Install(context.Background())
		if err == nil || !strings.Contains(err.Error(), "unexpected status") {
			t.Errorf("Expected status error, got %v", err)
		}
		assertNoDownloads(t, h.Dir())
	})
}

func TestEnsure(t *testing.T) {
	t.Run("already available", func(t *testing.T) {
		h := newTestHelper(t, "linux", "", WithLookPath(func(name string) (string, error) {
			return "/usr/bin/" + name, nil
		}))
		var out bytes.Buffer
		if !h.Ensure(context.Background(), nil, &out) {
			t.Error("Expected true when ffmpeg is on PATH")
		}
		if out.Len() != 0 {
			t.Errorf("Expected no output, got %q", out.String())
		}
	})

	t.Run("non-interactive", func(t *testing.T) {
		h := newTestHelper(t, "linux", "")
		var out bytes.Buffer
		if h.Ensure(context.Background(), nil, &out) {
			t.Error("Expected false without input")
		}
		if !strings.Contains(out.String(), "Please install FFmpeg manually") {
			t.Errorf("Expected manual instructions, got %q", out.String())
		}
	})

	t.Run("declined", func(t *testing.T) {
		h := newTestHelper(t, "linux", "")
		var out bytes.Buffer
		if h.Ensure(context.Background(), strings.NewReader("n\n"), &out) {
			t.Error("Expected false when declined")
		}
		if !strings.Contains(out.String(), "(y/n)") {
			t.Errorf("Expected prompt, got %q", out.String())
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		h := newTestHelper(t, "linux", "")
		var out bytes.Buffer
		if h.Ensure(context.Background(), strings.NewReader(""), &out) {
			t.Error("Expected false on EOF")
		}
		if !strings.Contains(out.String(), "cancelled") {
			t.Errorf("Expected cancellation message, got %q", out.String())
		}
	})

	t.Run("accepted", func(t *testing.T) {
		srv := serve(t, tarGzArchive(t, map[string]string{"bin/ffmpeg": fakeBinary}))
		h := newTestHelper(t, "linux", srv.URL)
		var out bytes.Buffer
		if !h.Ensure(context.Background(), strings.NewReader("Y\n"), &out) {
			t.Fatalf("Expected install to succeed, output: %s", out.String())
		}
		if !strings.Contains(out.String(), "FFmpeg installed successfully") {
			t.Errorf("Expected success message, got %q", out.String())
		}
	})
}

func TestDetectArchive(t *testing.T) {
	tests := []struct {
		header   []byte
		expected archiveKind
	}{
		{[]byte("PK\x03\x04rest"), archiveZip},
		{[]byte("\xFD7zXZ\x00"), archiveXZ},
		{[]byte("\x1f\x8b\x08"), archiveGzip},
		{[]byte("\x7fELF"), archiveRaw},
		{nil, archiveRaw},
	}

	for _, test := range tests {
		if got := detectArchive(test.header); got != test.expected {
			t.Errorf("detectArchive(%q) = %v, expected %v", test.header, got, test.expected)
		}
	}
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("YTD_APP_DIR", "/srv/ytd")
	t.Setenv("YTD_FFMPEG_URL", "https://mirror.example.com/ffmpeg.zip")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.AppDir != "/srv/ytd" {
		t.Errorf("Expected AppDir /srv/ytd, got %q", s.AppDir)
	}
	if s.DownloadURL != "https://mirror.example.com/ffmpeg.zip" {
		t.Errorf("Unexpected DownloadURL %q", s.DownloadURL)
	}
}
