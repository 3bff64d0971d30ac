package ffmpeg

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/schollz/progressbar/v3"
	"github.com/ulikunitz/xz"

	"github.com/ytget/ytd/internal/platform"
)

const executableMode = 0o755

// archiveKind is the container format of a downloaded build
type archiveKind int

const (
	archiveRaw archiveKind = iota
	archiveZip
	archiveXZ
	archiveGzip
)

var (
	zipMagic  = []byte("PK\x03\x04")
	xzMagic   = []byte("\xFD7zXZ\x00")
	gzipMagic = []byte("\x1f\x8b")
)

func detectArchive(header []byte) archiveKind {
	switch {
	case bytes.HasPrefix(header, zipMagic):
		return archiveZip
	case bytes.HasPrefix(header, xzMagic):
		return archiveXZ
	case bytes.HasPrefix(header, gzipMagic):
		return archiveGzip
	default:
		return archiveRaw
	}
}

// Install downloads the platform build and places ffmpeg (and ffprobe when
// the archive carries it) in the managed directory. It returns the path of
// the installed ffmpeg. The temporary download is always removed.
func (h *Helper) Install(ctx context.Context) (string, error) {
	if h.source.URL == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, h.goos)
	}

	if err := platform.CreateDirectoryIfNotExists(h.dir); err != nil {
		return "", fmt.Errorf("create ffmpeg directory: %w", err)
	}

	tempFile := filepath.Join(h.dir, "ffmpeg-"+uuid.NewString()+".download")
	defer os.Remove(tempFile)

	h.logger.Info("Downloading FFmpeg", "url", h.source.URL)
	if err := h.download(ctx, tempFile); err != nil {
		return "", err
	}

	h.logger.Info("Extracting FFmpeg")
	wanted := make(map[string]string, 2)
	wanted[h.source.Exe] = h.ManagedPath()
	wanted[h.exeName(ProbeBinaryName)] = h.managedProbePath()
	found, err := extractBinaries(tempFile, wanted, h.source.Exe)
	if err != nil {
		return "", err
	}
	if _, ok := found[h.source.Exe]; !ok {
		return "", ErrBinaryNotFound
	}

	if h.goos != platform.OSWindows {
		for _, dest := range found {
			if err := os.Chmod(dest, executableMode); err != nil {
				return "", fmt.Errorf("chmod %s: %w", dest, err)
			}
		}
	}

	h.logger.Info("FFmpeg installed", "path", h.ManagedPath())
	return h.ManagedPath(), nil
}

// download streams url into dest while drawing a byte progress bar
func (h *Helper) download(ctx context.Context, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.source.URL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("download ffmpeg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download ffmpeg: unexpected status %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetWriter(h.progress),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(h.progress, "\n")
		}),
	)

	_, copyErr := io.Copy(io.MultiWriter(f, bar), resp.Body)
	closeErr := f.Close()
	_ = bar.Finish()

	if copyErr != nil {
		return fmt.Errorf("download ffmpeg: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("write temp file: %w", closeErr)
	}
	return nil
}

// extractBinaries copies the entries whose base name is a key of wanted to
// the mapped destination. A raw (non-archive) file is treated as the binary
// named rawName. It returns the subset of wanted that was written.
func extractBinaries(archivePath string, wanted map[string]string, rawName string) (map[string]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open download: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(xzMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read download: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind download: %w", err)
	}

	switch detectArchive(header[:n]) {
	case archiveZip:
		return extractZip(archivePath, wanted)
	case archiveXZ:
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz stream: %w", err)
		}
		return extractTar(tar.NewReader(xr), wanted)
	case archiveGzip:
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gr.Close()
		return extractTar(tar.NewReader(gr), wanted)
	default:
		dest, ok := wanted[rawName]
		if !ok {
			return nil, ErrBinaryNotFound
		}
		if err := writeExecutable(dest, f); err != nil {
			return nil, err
		}
		return map[string]string{rawName: dest}, nil
	}
}

func extractZip(archivePath string, wanted map[string]string) (map[string]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	found := make(map[string]string)
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := path.Base(file.Name)
		dest, ok := wanted[name]
		if !ok {
			continue
		}
		if _, done := found[name]; done {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", file.Name, err)
		}
		err = writeExecutable(dest, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		found[name] = dest
	}
	return found, nil
}

func extractTar(tr *tar.Reader, wanted map[string]string) (map[string]string, error) {
	found := make(map[string]string)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return found, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := path.Base(hdr.Name)
		dest, ok := wanted[name]
		if !ok {
			continue
		}
		if _, done := found[name]; done {
			continue
		}
		if err := writeExecutable(dest, tr); err != nil {
			return nil, err
		}
		found[name] = dest
	}
}

func writeExecutable(dest string, r io.Reader) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, executableMode)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
