package ffprobe

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

const installHint = "install FFmpeg: brew install ffmpeg (macOS), " +
	"apt-get install ffmpeg (Debian/Ubuntu), or https://ffmpeg.org/download.html"

// FindBinary resolves an executable on PATH. When the lookup fails the
// bare name is returned so exec can still attempt PATH resolution.
func FindBinary(name string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}

// VerifyBinary checks that a media binary can be executed by running
// "<path> -version" with a short deadline.
func VerifyBinary(name, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := exec.CommandContext(ctx, path, "-version").Run(); err != nil {
		return fmt.Errorf("%s not usable at %q (%s): %w", name, path, installHint, err)
	}
	return nil
}
