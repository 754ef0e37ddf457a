// Package ffmpegenc implements the ports.Encoder interface by shelling
// out to the ffmpeg binary.
package ffmpegenc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/awmthink/viseeker/pkg/adapters/ffprobe"
	"github.com/awmthink/viseeker/pkg/ports"
)

// Encoder runs ffmpeg commands.
type Encoder struct {
	binaryPath string
	logger     ports.Logger
}

// New creates an Encoder using the given ffmpeg binary. An empty path
// falls back to PATH resolution of "ffmpeg".
func New(binaryPath string, logger ports.Logger) *Encoder {
	if binaryPath == "" {
		binaryPath = ffprobe.FindBinary("ffmpeg")
	}
	return &Encoder{binaryPath: binaryPath, logger: logger}
}

// Transcode runs a re-encoding invocation.
func (e *Encoder) Transcode(ctx context.Context, job ports.TranscodeJob) error {
	return e.run(ctx, TranscodeArgs(job), job.Timeout, job.VideoCodec)
}

// Remux runs a stream-copy invocation.
func (e *Encoder) Remux(ctx context.Context, job ports.RemuxJob) error {
	return e.run(ctx, RemuxArgs(job), job.Timeout, "")
}

// Segment runs a stream-copy segmentation invocation.
func (e *Encoder) Segment(ctx context.Context, job ports.SegmentJob) error {
	return e.run(ctx, SegmentArgs(job), job.Timeout, "")
}

// ExtractFrame extracts a single frame as an image file.
func (e *Encoder) ExtractFrame(ctx context.Context, job ports.FrameJob) error {
	return e.run(ctx, FrameArgs(job), job.Timeout, "")
}

// SampleFrames extracts a fixed-rate image sequence.
func (e *Encoder) SampleFrames(ctx context.Context, job ports.SampleJob) error {
	return e.run(ctx, SampleArgs(job), job.Timeout, "")
}

// run executes ffmpeg with the given arguments, capturing stderr for
// error classification. A positive timeout bounds the invocation.
func (e *Encoder) run(ctx context.Context, args []string, timeout time.Duration, codec string) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if e.logger != nil {
		e.logger.Debug("running ffmpeg %s", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ports.ErrEncodeTimeout, timeout)
	}

	stderr := strings.TrimSpace(stderrBuf.String())
	if codec != "" && MatchEncoderUnavailable(stderr) {
		return fmt.Errorf("%w: %s", ports.ErrEncoderUnavailable, codec)
	}
	if stderr != "" {
		return fmt.Errorf("ffmpeg failed: %s", stderr)
	}
	return fmt.Errorf("ffmpeg failed: %w", err)
}

var _ ports.Encoder = (*Encoder)(nil)
