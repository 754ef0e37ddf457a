// Package ffprobe implements the ports.Prober interface by shelling
// out to the ffprobe binary.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/awmthink/viseeker/pkg/ports"
)

// Prober runs ffprobe against local paths or URLs.
type Prober struct {
	binaryPath string
}

// New creates a Prober using the given ffprobe binary. An empty path
// falls back to PATH resolution of "ffprobe".
func New(binaryPath string) *Prober {
	if binaryPath == "" {
		binaryPath = FindBinary("ffprobe")
	}
	return &Prober{binaryPath: binaryPath}
}

// Probe runs a single ffprobe JSON call against ref and returns the
// parsed summary.
func (p *Prober) Probe(ctx context.Context, ref string) (ports.ProbeSummary, error) {
	cmd := exec.CommandContext(ctx, p.binaryPath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		ref,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return ports.ProbeSummary{}, fmt.Errorf("ffprobe %q: %w", ref, ctx.Err())
		}
		return ports.ProbeSummary{}, fmt.Errorf("ffprobe %q: %w: %s", ref, err, strings.TrimSpace(stderr.String()))
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a ProbeSummary.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (ports.ProbeSummary, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return ports.ProbeSummary{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildSummary(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

func buildSummary(raw *ffprobeOutput) ports.ProbeSummary {
	s := ports.ProbeSummary{
		Duration:   parseFloat(raw.Format.Duration),
		FormatName: raw.Format.FormatName,
		BitRate:    parseInt64(raw.Format.BitRate),
	}

	for i := range raw.Streams {
		stream := &raw.Streams[i]
		switch stream.CodecType {
		case "video":
			if !s.HasVideo {
				s.HasVideo = true
				s.VideoCodec = stream.CodecName
				s.Width = stream.Width
				s.Height = stream.Height
				s.FrameRate = parseFrameRate(stream.RFrameRate)
				if s.FrameRate == 0 {
					s.FrameRate = parseFrameRate(stream.AvgFrameRate)
				}
			}
		case "audio":
			if !s.HasAudio {
				s.HasAudio = true
				s.AudioCodec = stream.CodecName
				s.AudioSampleRate = int(parseInt64(stream.SampleRate))
				s.AudioChannels = stream.Channels
			}
			s.AudioTracks++
		}
	}
	return s
}

// parseFrameRate parses ffprobe rational frame rates like "30000/1001"
// as well as plain decimals. Returns 0 when the value is unusable.
func parseFrameRate(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" || v == "0/0" {
		return 0
	}
	if num, den, ok := strings.Cut(v, "/"); ok {
		n := parseFloat(num)
		d := parseFloat(den)
		if d <= 0 {
			return 0
		}
		return n / d
	}
	return parseFloat(v)
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt64(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var _ ports.Prober = (*Prober)(nil)
