package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Locator finds the ffmpeg and ffprobe binaries.
//
// Priority: 1) explicit path, 2) FFMPEG_PATH / FFPROBE_PATH env,
// 3) PATH, 4) common install locations.
type Locator struct {
	FFmpegPath  string
	FFprobePath string
}

// FFmpeg returns the path of the ffmpeg binary.
func (l Locator) FFmpeg() (string, error) {
	path, err := find("ffmpeg", l.FFmpegPath, "FFMPEG_PATH")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	return path, nil
}

// FFprobe returns the path of the ffprobe binary. When only an ffmpeg path
// is configured, an ffprobe next to it is preferred.
func (l Locator) FFprobe() (string, error) {
	custom := l.FFprobePath
	if custom == "" && l.FFmpegPath != "" {
		sibling := filepath.Join(filepath.Dir(l.FFmpegPath), execName("ffprobe"))
		if _, err := os.Stat(sibling); err == nil {
			custom = sibling
		}
	}
	path, err := find("ffprobe", custom, "FFPROBE_PATH")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFFprobeNotFound, err)
	}
	return path, nil
}

// Available reports whether ffmpeg can be located.
func (l Locator) Available() bool {
	_, err := l.FFmpeg()
	return err == nil
}

func execName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func find(name, custom, envVar string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err != nil {
			return "", fmt.Errorf("custom path %s not found", custom)
		}
		return custom, nil
	}

	if envPath := os.Getenv(envVar); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s %s not found", envVar, envPath)
		}
		return envPath, nil
	}

	exe := execName(name)
	if path, err := exec.LookPath(exe); err == nil {
		return path, nil
	}

	var dirs []string
	switch runtime.GOOS {
	case "windows":
		dirs = []string{`C:\ffmpeg\bin`, `C:\Program Files\ffmpeg\bin`, `C:\Program Files (x86)\ffmpeg\bin`}
	case "darwin":
		dirs = []string{"/opt/homebrew/bin", "/usr/local/bin", "/usr/bin"}
	default:
		dirs = []string{"/usr/bin", "/usr/local/bin", "/opt/homebrew/bin", "/snap/bin"}
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, exe)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s not in PATH or common locations", exe)
}
