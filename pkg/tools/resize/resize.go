// Package resize rescales the first video stream to a target
// resolution while stream-copying audio and subtitles.
package resize

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

// Aspect policies for dual-dimension targets.
const (
	PolicyStretch = "stretch"
	PolicyContain = "contain"
	PolicyCover   = "cover"
	PolicyPad     = "pad" // alias of contain
)

// Input describes one resize.
type Input struct {
	InputSpec  string
	OutputSpec string

	Width  int // 0 = derive from height
	Height int // 0 = derive from width

	AspectPolicy string
	PadColor     string

	VideoCodec string
	CRF        int
	Preset     string
	Bitrate    string // overrides CRF when set
	PixFmt     string
	Faststart  bool

	Timeout time.Duration
}

// DefaultInput returns the documented defaults with no specs set.
func DefaultInput() Input {
	return Input{
		AspectPolicy: PolicyStretch,
		PadColor:     "black",
		VideoCodec:   "libx264",
		CRF:          23,
		Preset:       "medium",
		PixFmt:       "yuv420p",
		Faststart:    true,
		Timeout:      30 * time.Minute,
	}
}

// Result reports the resize.
type Result struct {
	InputSpec       string `json:"input_path"`
	OutputSpec      string `json:"output"`
	LocalPath       string `json:"local_path,omitempty"`
	S3URL           string `json:"s3_url,omitempty"`
	InputWidth      int    `json:"input_width"`
	InputHeight     int    `json:"input_height"`
	OutputWidth     int    `json:"output_width"`
	OutputHeight    int    `json:"output_height"`
	RequestedWidth  int    `json:"requested_width,omitempty"`
	RequestedHeight int    `json:"requested_height,omitempty"`
	AspectPolicy    string `json:"aspect_policy"`
	AppliedPolicy   string `json:"applied_policy"`
	VideoCodec      string `json:"video_codec"`
}

// scalePlan is the derived filter expression plus the output geometry.
type scalePlan struct {
	filter  string
	width   int
	height  int
	applied string
}

func even(n int) int {
	if n%2 == 0 {
		return n
	}
	return n + 1
}

// buildScalePlan derives the ffmpeg filter for the requested geometry.
// Single-dimension requests always keep the aspect ratio; both-set
// requests follow the aspect policy.
func buildScalePlan(inputW, inputH, width, height int, policy, padColor string) (scalePlan, error) {
	if width == 0 && height == 0 {
		return scalePlan{}, fmt.Errorf("at least one of width/height must be specified")
	}
	if inputW <= 0 || inputH <= 0 {
		return scalePlan{}, fmt.Errorf("input resolution could not be determined")
	}
	if width < 0 || height < 0 {
		return scalePlan{}, fmt.Errorf("width and height must be positive")
	}

	policy = strings.ToLower(strings.TrimSpace(policy))
	if policy == "" {
		policy = PolicyStretch
	}
	switch policy {
	case PolicyStretch, PolicyContain, PolicyCover:
	case PolicyPad:
		policy = PolicyContain
	default:
		return scalePlan{}, fmt.Errorf("unsupported aspect policy %q", policy)
	}

	if width == 0 {
		w := even(int(math.Round(float64(inputW) * float64(height) / float64(inputH))))
		return scalePlan{
			filter:  fmt.Sprintf("scale=-2:%d", height),
			width:   w,
			height:  height,
			applied: "keep_aspect",
		}, nil
	}
	if height == 0 {
		h := even(int(math.Round(float64(inputH) * float64(width) / float64(inputW))))
		return scalePlan{
			filter:  fmt.Sprintf("scale=%d:-2", width),
			width:   width,
			height:  h,
			applied: "keep_aspect",
		}, nil
	}

	switch policy {
	case PolicyStretch:
		return scalePlan{
			filter:  fmt.Sprintf("scale=%d:%d", width, height),
			width:   width,
			height:  height,
			applied: PolicyStretch,
		}, nil
	case PolicyContain:
		return scalePlan{
			filter: fmt.Sprintf(
				"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s",
				width, height, width, height, padColor),
			width:   width,
			height:  height,
			applied: PolicyContain,
		}, nil
	default: // cover
		return scalePlan{
			filter: fmt.Sprintf(
				"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
				width, height, width, height),
			width:   width,
			height:  height,
			applied: PolicyCover,
		}, nil
	}
}

// Tool resizes videos.
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

// Run resizes in.InputSpec to in.OutputSpec.
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
	if !probe.HasVideo {
		return Result{}, fmt.Errorf("%s has no video stream", in.InputSpec)
	}

	plan, err := buildScalePlan(probe.Width, probe.Height, in.Width, in.Height, in.AspectPolicy, in.PadColor)
	if err != nil {
		return Result{}, err
	}

	out, err := t.resolver.ResolveOutput(in.OutputSpec, "resized.mp4", contentTypeFor(in.OutputSpec))
	if err != nil {
		return Result{}, err
	}
	defer out.Close()

	job := ports.TranscodeJob{
		InputPath:     src.Ref,
		OutputPath:    out.LocalPath,
		VideoFilter:   plan.filter,
		VideoCodec:    in.VideoCodec,
		Preset:        in.Preset,
		PixFmt:        in.PixFmt,
		AudioCodec:    "copy",
		CopySubtitles: true,
		Faststart:     in.Faststart,
		Timeout:       in.Timeout,
	}
	if in.Bitrate != "" {
		job.VideoBitrate = in.Bitrate
	} else {
		crf := in.CRF
		job.CRF = &crf
	}

	t.logger.Info("Resizing %s to %s", in.InputSpec, fmt.Sprintf("%dx%d", plan.width, plan.height))
	if err := t.encoder.Transcode(ctx, job); err != nil {
		return Result{}, err
	}
	if err := out.Commit(ctx); err != nil {
		return Result{}, err
	}

	res := Result{
		InputSpec:       in.InputSpec,
		OutputSpec:      in.OutputSpec,
		InputWidth:      probe.Width,
		InputHeight:     probe.Height,
		OutputWidth:     plan.width,
		OutputHeight:    plan.height,
		RequestedWidth:  in.Width,
		RequestedHeight: in.Height,
		AspectPolicy:    in.AspectPolicy,
		AppliedPolicy:   plan.applied,
		VideoCodec:      in.VideoCodec,
	}
	if out.S3URL != "" {
		res.S3URL = out.S3URL
	} else {
		res.LocalPath = out.LocalPath
	}
	return res, nil
}

func contentTypeFor(spec string) string {
	if strings.HasSuffix(strings.ToLower(spec), ".mp4") {
		return "video/mp4"
	}
	return "application/octet-stream"
}
