// Package split cuts a video into stream-copied segments, either at
// I-frame boundaries or at a fixed interval.
package split

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

// Split modes.
const (
	ModeIFrame = "iframe"
	ModeFixed  = "fixed"
)

// Input describes one split.
type Input struct {
	InputSpec string
	Mode      string

	// OutputDir receives the segments. Optional when S3Prefix is set; a
	// temp dir is used and discarded after upload.
	OutputDir string
	// S3Prefix, when set, uploads every segment under s3://bucket/prefix/.
	S3Prefix string
	// ManifestSpec, when set, writes the result JSON to a local path or
	// s3:// URL.
	ManifestSpec string

	SegmentSeconds float64 // fixed mode
	EveryNIFrames  int     // iframe mode
	MaxSegments    int     // iframe mode, 0 = unlimited

	Prefix  string
	Ext     string // default: input extension, fallback mp4
	Timeout time.Duration
}

// DefaultInput returns the documented defaults with no specs set.
func DefaultInput() Input {
	return Input{
		Mode:          ModeIFrame,
		EveryNIFrames: 1,
		Prefix:        "segment_",
		Timeout:       time.Hour,
	}
}

// Segment describes one produced segment.
type Segment struct {
	Index     int     `json:"index"`
	LocalPath string  `json:"local_path,omitempty"`
	S3URL     string  `json:"s3_url,omitempty"`
	Filename  string  `json:"filename"`
	Start     float64 `json:"start_s"`
	Duration  float64 `json:"duration_s"`
	End       float64 `json:"end_s"`
}

// Result reports the split.
type Result struct {
	InputSpec      string    `json:"input_path"`
	Mode           string    `json:"mode"`
	SegmentSeconds float64   `json:"segment_s,omitempty"`
	EveryNIFrames  int       `json:"every_n_iframes,omitempty"`
	MaxSegments    int       `json:"max_segments,omitempty"`
	OutputDir      string    `json:"output_dir,omitempty"`
	S3Prefix       string    `json:"s3_output_prefix,omitempty"`
	ManifestSpec   string    `json:"manifest,omitempty"`
	Segments       []Segment `json:"segments"`
}

// Tool splits videos.
type Tool struct {
	resolver *mediaio.Resolver
	prober   ports.Prober
	encoder  ports.Encoder
	store    ports.ObjectStore
	fs       ports.FileSystem
	logger   ports.Logger
}

// New creates a Tool. store may be nil when S3 is not configured.
func New(resolver *mediaio.Resolver, prober ports.Prober, encoder ports.Encoder, store ports.ObjectStore, fs ports.FileSystem, logger ports.Logger) *Tool {
	return &Tool{resolver: resolver, prober: prober, encoder: encoder, store: store, fs: fs, logger: logger}
}

func (in *Input) validate() error {
	switch in.Mode {
	case ModeIFrame, ModeFixed:
	default:
		return fmt.Errorf("mode must be one of: iframe, fixed")
	}
	if in.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if in.EveryNIFrames <= 0 {
		return fmt.Errorf("every-n-iframes must be positive")
	}
	if in.MaxSegments < 0 {
		return fmt.Errorf("max-segments must be positive when provided")
	}
	if in.Mode == ModeFixed && in.SegmentSeconds <= 0 {
		return fmt.Errorf("segment seconds must be positive in fixed mode")
	}
	if in.OutputDir == "" && in.S3Prefix == "" {
		return fmt.Errorf("an output directory or an s3 prefix is required")
	}
	return nil
}

// Run splits in.InputSpec into segments.
func (t *Tool) Run(ctx context.Context, in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
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

	outputDir := in.OutputDir
	tempDir := ""
	if outputDir == "" {
		tempDir, err = t.fs.TempDir("viseeker_split")
		if err != nil {
			return Result{}, fmt.Errorf("create temp dir: %w", err)
		}
		defer t.fs.RemoveAll(tempDir)
		outputDir = tempDir
	} else if err := t.fs.MkdirAll(outputDir); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	ext := pickExt(src.Ref, in.Ext)
	job := ports.SegmentJob{
		InputPath:     src.Ref,
		OutputPattern: filepath.Join(outputDir, fmt.Sprintf("%s%%04d.%s", in.Prefix, ext)),
		Timeout:       in.Timeout,
	}
	if in.Mode == ModeFixed {
		job.SegmentTime = in.SegmentSeconds
	} else {
		frames, err := t.prober.FrameTimestamps(ctx, src.Ref)
		if err != nil {
			return Result{}, fmt.Errorf("scan frames of %s: %w", in.InputSpec, err)
		}
		job.SegmentTimes = splitPoints(frames, in.EveryNIFrames, in.MaxSegments)
		if len(job.SegmentTimes) == 0 {
			// ffmpeg then emits a single whole-file segment.
			t.logger.Warn("No keyframes found, splitting at fixed intervals")
		}
	}

	t.logger.Info("Splitting %s into segments", in.InputSpec)
	if err := t.encoder.Segment(ctx, job); err != nil {
		return Result{}, err
	}

	segments, err := t.collectSegments(ctx, outputDir, in.Prefix, ext)
	if err != nil {
		return Result{}, err
	}
	t.logger.Info("Wrote %d segments", len(segments))

	if in.S3Prefix != "" {
		if err := t.uploadSegments(ctx, segments, in.S3Prefix, ext); err != nil {
			return Result{}, err
		}
	}
	if tempDir != "" {
		// The segments only live in object storage; the temp dir is gone
		// once Run returns.
		for i := range segments {
			segments[i].LocalPath = ""
		}
	}

	res := Result{
		InputSpec:      in.InputSpec,
		Mode:           in.Mode,
		SegmentSeconds: in.SegmentSeconds,
		S3Prefix:       in.S3Prefix,
		OutputDir:      in.OutputDir,
		Segments:       segments,
	}
	if in.Mode == ModeIFrame {
		res.EveryNIFrames = in.EveryNIFrames
		res.MaxSegments = in.MaxSegments
	}
	if in.ManifestSpec != "" {
		if err := t.resolver.WriteJSON(ctx, in.ManifestSpec, res); err != nil {
			return Result{}, fmt.Errorf("write manifest: %w", err)
		}
		res.ManifestSpec = in.ManifestSpec
	}
	return res, nil
}

// splitPoints picks every n-th positive I-frame timestamp, then caps
// the segment count by uniformly downsampling the points.
func splitPoints(frames []ports.FrameInfo, everyN, maxSegments int) []float64 {
	points := []float64{}
	i := 0
	for _, f := range frames {
		if f.PictType != "I" {
			continue
		}
		if i%everyN == 0 && f.Timestamp > 0 {
			points = append(points, f.Timestamp)
		}
		i++
	}
	if maxSegments > 0 && len(points)+1 > maxSegments {
		keep := maxSegments - 1
		if keep <= 0 {
			return nil
		}
		step := len(points) / keep
		if step < 1 {
			step = 1
		}
		sampled := []float64{}
		for j := 0; j < len(points) && len(sampled) < keep; j += step {
			sampled = append(sampled, points[j])
		}
		return sampled
	}
	return points
}

// collectSegments lists the produced files and probes each for its
// duration, accumulating start offsets.
func (t *Tool) collectSegments(ctx context.Context, dir, prefix, ext string) ([]Segment, error) {
	names, err := t.fs.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}

	segments := []Segment{}
	start := 0.0
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(strings.ToLower(name), "."+ext) {
			continue
		}
		path := filepath.Join(dir, name)
		p, err := t.prober.Probe(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("probe segment %s: %w", name, err)
		}
		segments = append(segments, Segment{
			Index:     len(segments),
			LocalPath: path,
			Filename:  name,
			Start:     start,
			Duration:  p.Duration,
			End:       start + p.Duration,
		})
		start += p.Duration
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments were produced")
	}
	return segments, nil
}

func (t *Tool) uploadSegments(ctx context.Context, segments []Segment, prefix, ext string) error {
	if t.store == nil {
		return fmt.Errorf("s3 prefix %s: object storage not configured", prefix)
	}
	contentType := "application/octet-stream"
	if ext == "mp4" {
		contentType = "video/mp4"
	}
	for i := range segments {
		url, err := mediaio.JoinS3URL(prefix, segments[i].Filename)
		if err != nil {
			return err
		}
		if err := t.store.Upload(ctx, segments[i].LocalPath, url, contentType); err != nil {
			return fmt.Errorf("upload segment %s: %w", segments[i].Filename, err)
		}
		segments[i].S3URL = url
	}
	return nil
}

func pickExt(inputPath, requested string) string {
	if requested != "" {
		return strings.ToLower(strings.TrimPrefix(requested, "."))
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(inputPath), "."))
	if ext == "" {
		return "mp4"
	}
	return ext
}
