// Package describe captions a video by sampling frames on a timestamp
// schedule and sending them to a vision-language model.
package describe

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

const defaultPrompt = "You are an expert video captioning assistant. " +
	"You will be given a sequence of video frames with timestamps " +
	"sampled from a full video. " +
	"Write a caption for the entire video: summarize the scene, main " +
	"subjects, actions, and key events in a clear, coherent way. " +
	"Use timestamps only when helpful. Avoid speculation beyond what " +
	"is visible."

// maxDuration caps how much of the input is described. Longer inputs
// are not rejected; the schedule simply covers the first five minutes.
const maxDuration = 300.0

// Input describes one captioning request.
type Input struct {
	InputSpec string
	// Prompt replaces the built-in captioning prompt when set.
	Prompt string
	// FPS is the sampling rate for short inputs. When sampling at FPS
	// would exceed MaxFrames, frames are spread uniformly instead.
	FPS       float64
	MaxFrames int
	Timeout   time.Duration
}

// DefaultInput returns the documented defaults with no input spec set.
func DefaultInput() Input {
	return Input{
		FPS:       1.0,
		MaxFrames: 128,
		Timeout:   10 * time.Minute,
	}
}

// Result reports the caption and how the frames were sampled.
type Result struct {
	InputSpec  string    `json:"input_path"`
	Text       string    `json:"text"`
	Duration   float64   `json:"duration_s"`
	FrameCount int       `json:"frame_count"`
	Timestamps []float64 `json:"timestamps_s"`
}

// Tool captions videos through a ports.Describer.
type Tool struct {
	resolver  *mediaio.Resolver
	prober    ports.Prober
	encoder   ports.Encoder
	describer ports.Describer
	fs        ports.FileSystem
	logger    ports.Logger
}

// New creates a Tool.
func New(resolver *mediaio.Resolver, prober ports.Prober, encoder ports.Encoder, describer ports.Describer, fs ports.FileSystem, logger ports.Logger) *Tool {
	return &Tool{
		resolver:  resolver,
		prober:    prober,
		encoder:   encoder,
		describer: describer,
		fs:        fs,
		logger:    logger.WithComponent("describe"),
	}
}

func (in *Input) validate() error {
	if in.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	if in.MaxFrames <= 0 {
		return fmt.Errorf("max frames must be positive")
	}
	if in.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// computeTimestamps builds the sampling schedule over [0, duration).
// Short inputs are sampled at fps; when that would exceed maxFrames
// the schedule spreads maxFrames timestamps uniformly instead.
func computeTimestamps(duration, fps float64, maxFrames int) []float64 {
	safeEnd := duration - 1e-3
	if safeEnd <= 0 {
		return []float64{0}
	}
	desired := int(safeEnd*fps) + 1
	if desired <= maxFrames {
		out := make([]float64, desired)
		for i := range out {
			t := float64(i) / fps
			if t > safeEnd {
				t = safeEnd
			}
			out[i] = t
		}
		return out
	}
	if maxFrames == 1 {
		return []float64{0}
	}
	out := make([]float64, maxFrames)
	for i := range out {
		out[i] = float64(i) * safeEnd / float64(maxFrames-1)
	}
	return out
}

// Run samples frames of in.InputSpec and returns the model's caption.
// S3 inputs are read through presigned URLs rather than downloaded.
func (t *Tool) Run(ctx context.Context, in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	src, err := t.resolver.ResolveInput(ctx, in.InputSpec, mediaio.ModeURL)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	t.logger.Info("Describing %s", in.InputSpec)
	probe, err := t.prober.Probe(ctx, src.Ref)
	if err != nil {
		return Result{}, fmt.Errorf("probe input: %w", err)
	}
	if !probe.HasVideo {
		return Result{}, fmt.Errorf("input has no video stream")
	}
	duration := probe.Duration
	if duration > maxDuration {
		t.logger.Warn("Input longer than %.0f s, describing the first %.0f s", maxDuration, maxDuration)
		duration = maxDuration
	}

	timestamps := computeTimestamps(duration, in.FPS, in.MaxFrames)
	frames, err := t.extractFrames(ctx, src.Ref, timestamps, in.Timeout)
	if err != nil {
		return Result{}, err
	}

	prompt := in.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	text, err := t.describer.Describe(ctx, prompt, frames)
	if err != nil {
		return Result{}, fmt.Errorf("describe: %w", err)
	}
	return Result{
		InputSpec:  in.InputSpec,
		Text:       text,
		Duration:   probe.Duration,
		FrameCount: len(frames),
		Timestamps: timestamps,
	}, nil
}

func (t *Tool) extractFrames(ctx context.Context, ref string, timestamps []float64, timeout time.Duration) ([]ports.DescribeFrame, error) {
	dir, err := t.fs.TempDir("viseeker_describe")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer t.fs.RemoveAll(dir)

	frames := make([]ports.DescribeFrame, 0, len(timestamps))
	for i, ts := range timestamps {
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.jpg", i))
		err := t.encoder.ExtractFrame(ctx, ports.FrameJob{
			InputPath:  ref,
			OutputPath: path,
			Timestamp:  ts,
			Quality:    2,
			Timeout:    timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("extract frame at %.3fs: %w", ts, err)
		}
		data, err := t.fs.ReadFile(path)
		if err != nil {
			return nil, err
		}
		frames = append(frames, ports.DescribeFrame{Timestamp: ts, JPEG: data})
	}
	return frames, nil
}
