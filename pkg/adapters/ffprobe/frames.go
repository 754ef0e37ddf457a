package ffprobe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/awmthink/viseeker/pkg/ports"
)

// FrameTimestamps returns per-frame timestamps and picture types for
// the first video stream. This is the input for I-frame splitting and
// keyframe selection.
func (p *Prober) FrameTimestamps(ctx context.Context, ref string) ([]ports.FrameInfo, error) {
	cmd := exec.CommandContext(ctx, p.binaryPath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "frame=best_effort_timestamp_time,pict_type",
		"-of", "csv=p=0",
		ref,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffprobe frames %q: %w", ref, ctx.Err())
		}
		return nil, fmt.Errorf("ffprobe frames %q: %w: %s", ref, err, strings.TrimSpace(stderr.String()))
	}

	return ParseFrameCSV(string(out)), nil
}

// ParseFrameCSV parses "timestamp,pict_type" lines from ffprobe's CSV
// frame output. Lines without a usable timestamp are skipped.
// Exported for testing without a real ffprobe binary.
func ParseFrameCSV(out string) []ports.FrameInfo {
	var frames []ports.FrameInfo
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		ts := strings.TrimSpace(parts[0])
		pict := strings.TrimSpace(parts[1])
		if ts == "" || ts == "N/A" {
			continue
		}
		v, err := strconv.ParseFloat(ts, 64)
		if err != nil {
			continue
		}
		frames = append(frames, ports.FrameInfo{Timestamp: v, PictType: pict})
	}
	return frames
}
