package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("No home directory: %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~", home},
		{"~/Videos/YouTube", filepath.Join(home, "Videos", "YouTube")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~other/dir", "~other/dir"},
	}

	for _, test := range tests {
		if got := ExpandUser(test.input); got != test.expected {
			t.Errorf("ExpandUser(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestAppDataDir(t *testing.T) {
	home := "/home/user"
	tests := []struct {
		goos     string
		expected string
	}{
		{OSWindows, filepath.Join(home, "AppData", "Local", "ytd")},
		{OSDarwin, filepath.Join(home, "Library", "Application Support", "ytd")},
		{OSLinux, filepath.Join(home, ".local", "share", "ytd")},
		{"freebsd", filepath.Join(home, ".local", "share", "ytd")},
	}

	for _, test := range tests {
		if got := AppDataDir(test.goos, home); got != test.expected {
			t.Errorf("AppDataDir(%s) = %q, expected %q", test.goos, got, test.expected)
		}
	}
}

func TestOpenFileWithDefaultApp_NonExistentFile(t *testing.T) {
	err := OpenFileWithDefaultApp("/non/existent/file.mp4")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Expected 'file does not exist' error, got: %v", err)
	}
}

func TestOpenFileWithDefaultApp_WithExistingFile(t *testing.T) {
	var calls [][]string
	orig := commandRunner
	commandRunner = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	defer func() { commandRunner = orig }()

	testFile := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(testFile, []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	err := OpenFileWithDefaultApp(testFile)
	switch runtime.GOOS {
	case OSDarwin, OSWindows, OSLinux:
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(calls) != 1 {
			t.Fatalf("Expected one command, got %d", len(calls))
		}
		last := calls[0][len(calls[0])-1]
		if last != testFile {
			t.Errorf("Expected file argument %s, got %s", testFile, last)
		}
	default:
		if err == nil {
			t.Error("Expected unsupported platform error")
		}
	}
}

func TestOpenFileInManager_Linux(t *testing.T) {
	if runtime.GOOS != OSLinux {
		t.Skip("linux only")
	}

	var calls [][]string
	orig := commandRunner
	commandRunner = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	defer func() { commandRunner = orig }()

	dir := t.TempDir()
	testFile := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(testFile, []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if err := OpenFileInManager(testFile); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(calls) != 1 || calls[0][0] != XDGOpenCommand || calls[0][1] != dir {
		t.Errorf("Expected xdg-open on parent directory, got %v", calls)
	}
}
