// Package convert re-encodes arbitrary video inputs into MP4, mapping
// the first video and audio streams, preferring HEVC with an H.264
// fallback when the ffmpeg build lacks the encoder.
package convert

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

// Codec selections mirror the compression tool.
const (
	CodecAuto = "auto"
	CodecHEVC = "libx265"
	CodecH264 = "libx264"
)

// Input describes one conversion.
type Input struct {
	InputSpec  string
	OutputSpec string

	VideoCodec string // auto | libx265 | libx264
	CRF        int
	Preset     string
	Bitrate    string // overrides CRF when set
	MaxHeight  int    // 0 = never downscale
	PixFmt     string

	AudioCodec      string
	AudioBitrate    string
	AudioSampleRate int
	AudioChannels   int

	Timeout time.Duration
}

// DefaultInput returns the documented defaults with no specs set.
func DefaultInput() Input {
	return Input{
		VideoCodec:   CodecAuto,
		CRF:          28,
		Preset:       "medium",
		PixFmt:       "yuv420p",
		AudioCodec:   "aac",
		AudioBitrate: "128k",
		Timeout:      time.Hour,
	}
}

// Result reports the conversion.
type Result struct {
	InputSpec    string `json:"input_path"`
	OutputSpec   string `json:"output"`
	LocalPath    string `json:"local_path,omitempty"`
	S3URL        string `json:"s3_url,omitempty"`
	VideoCodec   string `json:"video_codec"`
	CRF          *int   `json:"crf"`
	Bitrate      string `json:"bitrate,omitempty"`
	InputWidth   int    `json:"input_width"`
	InputHeight  int    `json:"input_height"`
	OutputWidth  int    `json:"output_width"`
	OutputHeight int    `json:"output_height"`
	Scaled       bool   `json:"scaled"`
	Faststart    bool   `json:"faststart"`
}

// Tool performs MP4 conversions.
type Tool struct {
	resolver *mediaio.Resolver
	prober   ports.Prober
	encoder  ports.Encoder
	fs       ports.FileSystem
	logger   ports.Logger
}

// New creates a Tool.
func New(resolver *mediaio.Resolver, prober ports.Prober, encoder ports.Encoder, fs ports.FileSystem, logger ports.Logger) *Tool {
	return &Tool{resolver: resolver, prober: prober, encoder: encoder, fs: fs, logger: logger}
}

// Run converts in.InputSpec to MP4 at in.OutputSpec.
func (t *Tool) Run(ctx context.Context, in Input) (Result, error) {
	switch in.VideoCodec {
	case CodecAuto, CodecHEVC, CodecH264:
	default:
		return Result{}, fmt.Errorf("unsupported video codec %q", in.VideoCodec)
	}
	if in.Timeout <= 0 {
		return Result{}, fmt.Errorf("timeout must be positive")
	}
	if in.MaxHeight < 0 {
		return Result{}, fmt.Errorf("max height must not be negative")
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
	if !probe.HasVideo {
		return Result{}, fmt.Errorf("%s has no video stream", in.InputSpec)
	}

	out, err := t.resolver.ResolveOutput(in.OutputSpec, "converted.mp4", "video/mp4")
	if err != nil {
		return Result{}, err
	}
	defer out.Close()

	res := Result{
		InputSpec:    in.InputSpec,
		OutputSpec:   in.OutputSpec,
		InputWidth:   probe.Width,
		InputHeight:  probe.Height,
		OutputWidth:  probe.Width,
		OutputHeight: probe.Height,
		Bitrate:      in.Bitrate,
		Faststart:    true,
	}

	job := ports.TranscodeJob{
		InputPath:       src.Ref,
		OutputPath:      out.LocalPath,
		Preset:          in.Preset,
		PixFmt:          in.PixFmt,
		AudioCodec:      in.AudioCodec,
		AudioBitrate:    in.AudioBitrate,
		AudioSampleRate: in.AudioSampleRate,
		AudioChannels:   in.AudioChannels,
		Faststart:       true,
		Timeout:         in.Timeout,
	}
	if in.Bitrate != "" {
		job.VideoBitrate = in.Bitrate
	} else {
		crf := in.CRF
		job.CRF = &crf
		res.CRF = &crf
	}
	if in.MaxHeight > 0 && probe.Height > in.MaxHeight {
		h := in.MaxHeight
		job.Height = &h
		res.Scaled = true
		res.OutputHeight = h
		if probe.Width > 0 && probe.Height > 0 {
			res.OutputWidth = int(math.Round(float64(probe.Width) * float64(h) / float64(probe.Height)))
		}
	}

	t.logger.Info("Converting %s to %s", in.InputSpec, in.OutputSpec)
	res.VideoCodec, err = t.transcode(ctx, job, in.VideoCodec)
	if err != nil {
		return Result{}, err
	}

	res.Faststart = t.checkFaststart(out.LocalPath)

	if err := out.Commit(ctx); err != nil {
		return Result{}, err
	}
	if out.S3URL != "" {
		res.S3URL = out.S3URL
	} else {
		res.LocalPath = out.LocalPath
	}
	return res, nil
}

// transcode runs the encode, retrying once with H.264 when the auto
// preference hits a build without HEVC. It returns the codec actually
// used.
func (t *Tool) transcode(ctx context.Context, job ports.TranscodeJob, codec string) (string, error) {
	preferred := codec
	if codec == CodecAuto {
		preferred = CodecHEVC
	}
	job.VideoCodec = preferred
	err := t.encoder.Transcode(ctx, job)
	if err != nil && codec == CodecAuto && errors.Is(err, ports.ErrEncoderUnavailable) {
		t.logger.Warn("Encoder %s unavailable, retrying with %s", CodecHEVC, CodecH264)
		job.VideoCodec = CodecH264
		if err := t.encoder.Transcode(ctx, job); err != nil {
			return "", err
		}
		return CodecH264, nil
	}
	if err != nil {
		return "", err
	}
	return preferred, nil
}

// checkFaststart inspects the produced MP4 box order. Verification
// problems only log; the re-encode itself already succeeded.
func (t *Tool) checkFaststart(path string) bool {
	data, err := t.fs.ReadFile(path)
	if err != nil {
		t.logger.Debug("Skipping faststart verification: %s", err)
		return true
	}
	ok, err := verifyFaststart(data)
	if err != nil {
		t.logger.Debug("Skipping faststart verification: %s", err)
		return true
	}
	if !ok {
		t.logger.Warn("Output is not faststart optimized")
	}
	return ok
}
