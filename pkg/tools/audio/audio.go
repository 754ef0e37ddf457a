// Package audio strips audio streams from a video by stream copy,
// leaving the video encoding untouched.
package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

// Input describes one audio removal.
type Input struct {
	InputSpec  string
	OutputSpec string
	Timeout    time.Duration
}

// DefaultInput returns the documented defaults with no specs set.
func DefaultInput() Input {
	return Input{Timeout: 10 * time.Minute}
}

// Result reports the removal.
type Result struct {
	InputSpec      string `json:"input_path"`
	OutputSpec     string `json:"output"`
	LocalPath      string `json:"local_path,omitempty"`
	S3URL          string `json:"s3_url,omitempty"`
	HadAudio       bool   `json:"has_audio_before"`
	StreamsRemoved int    `json:"audio_streams_removed"`
}

// Tool removes audio streams.
type Tool struct {
	resolver *mediaio.Resolver
	prober   ports.Prober
	encoder  ports.Encoder
	logger   ports.Logger
}

// New creates a Tool.
func New(resolver *mediaio.Resolver, prober ports.Prober, encoder ports.Encoder, logger ports.Logger) *Tool {
	return &Tool{resolver: resolver, prober: prober, encoder: encoder, logger: logger}
}

// Run drops every audio stream of in.InputSpec via remux.
func (t *Tool) Run(ctx context.Context, in Input) (Result, error) {
	if in.Timeout <= 0 {
		return Result{}, fmt.Errorf("timeout must be positive")
	}

	src, err := t.resolver.ResolveInput(ctx, in.InputSpec, mediaio.ModeDownload)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	probe, err := t.prober.Probe(ctx, src.Ref)
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", in.InputSpec, err)
	}

	out, err := t.resolver.ResolveOutput(in.OutputSpec, "no_audio.mp4", "video/mp4")
	if err != nil {
		return Result{}, err
	}
	defer out.Close()

	t.logger.Info("Removing audio from %s", in.InputSpec)
	err = t.encoder.Remux(ctx, ports.RemuxJob{
		InputPath:  src.Ref,
		OutputPath: out.LocalPath,
		DropAudio:  true,
		Timeout:    in.Timeout,
	})
	if err != nil {
		return Result{}, err
	}
	if err := out.Commit(ctx); err != nil {
		return Result{}, err
	}

	res := Result{
		InputSpec:      in.InputSpec,
		OutputSpec:     in.OutputSpec,
		HadAudio:       probe.HasAudio,
		StreamsRemoved: probe.AudioTracks,
	}
	if out.S3URL != "" {
		res.S3URL = out.S3URL
	} else {
		res.LocalPath = out.LocalPath
	}
	return res, nil
}
