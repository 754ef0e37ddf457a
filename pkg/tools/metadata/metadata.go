// Package metadata probes a video and reports a compact, stable
// subset of its container and stream properties.
package metadata

import (
	"context"
	"fmt"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

// Input describes one probe.
type Input struct {
	InputSpec string
	// Mode controls remote input handling; URL mode probes remote
	// inputs in place, download mode fetches them first.
	Mode mediaio.InputMode
}

// Result is the JSON-facing metadata summary.
type Result struct {
	Duration        float64 `json:"duration"`
	FormatName      string  `json:"format_name"`
	BitRate         int64   `json:"bit_rate"`
	HasVideo        bool    `json:"has_video"`
	HasAudio        bool    `json:"has_audio"`
	VideoCodec      string  `json:"video_codec,omitempty"`
	VideoWidth      int     `json:"video_width,omitempty"`
	VideoHeight     int     `json:"video_height,omitempty"`
	VideoFPS        float64 `json:"video_fps,omitempty"`
	AudioCodec      string  `json:"audio_codec,omitempty"`
	AudioSampleRate int     `json:"audio_sample_rate,omitempty"`
	AudioChannels   int     `json:"audio_channels,omitempty"`
	AudioTracks     int     `json:"audio_tracks"`
}

// Tool probes videos.
type Tool struct {
	resolver *mediaio.Resolver
	prober   ports.Prober
	logger   ports.Logger
}

// New creates a Tool.
func New(resolver *mediaio.Resolver, prober ports.Prober, logger ports.Logger) *Tool {
	return &Tool{resolver: resolver, prober: prober, logger: logger}
}

// Run probes in.InputSpec.
func (t *Tool) Run(ctx context.Context, in Input) (Result, error) {
	mode := in.Mode
	if mode == "" {
		mode = mediaio.ModeURL
	}

	src, err := t.resolver.ResolveInput(ctx, in.InputSpec, mode)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	t.logger.Info("Probing %s", in.InputSpec)
	p, err := t.prober.Probe(ctx, src.Ref)
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", in.InputSpec, err)
	}

	return Result{
		Duration:        p.Duration,
		FormatName:      p.FormatName,
		BitRate:         p.BitRate,
		HasVideo:        p.HasVideo,
		HasAudio:        p.HasAudio,
		VideoCodec:      p.VideoCodec,
		VideoWidth:      p.Width,
		VideoHeight:     p.Height,
		VideoFPS:        p.FrameRate,
		AudioCodec:      p.AudioCodec,
		AudioSampleRate: p.AudioSampleRate,
		AudioChannels:   p.AudioChannels,
		AudioTracks:     p.AudioTracks,
	}, nil
}
