// Package keyframes picks representative frames from a video and
// writes them out as images. Selection is either structural (container
// I-frames) or content-driven (pixel difference or histogram distance
// between sampled frames).
package keyframes

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

// Selection methods.
const (
	MethodIFrame     = "iframe"
	MethodDifference = "difference"
	MethodHistogram  = "histogram"
)

// Default score thresholds per method, chosen so typical hard cuts
// score well above and ordinary motion below.
const (
	defaultDifferenceThreshold = 12.0
	defaultHistogramThreshold  = 0.35
)

// Input describes one extraction.
type Input struct {
	InputSpec string
	Method    string

	// Threshold overrides the per-method default score cutoff. Ignored
	// for the iframe method.
	Threshold    *float64
	MaxKeyframes int
	MinInterval  float64 // seconds between selected keyframes

	// SampleFPS and SampleHeight control the scoring pass of the
	// content-driven methods.
	SampleFPS    float64
	SampleHeight int

	// OutputDir receives the images. Optional when S3Prefix is set.
	OutputDir    string
	S3Prefix     string
	ManifestSpec string
	ImageFormat  string // jpg | png

	Timeout time.Duration
}

// DefaultInput returns the documented defaults with no specs set.
func DefaultInput() Input {
	return Input{
		Method:       MethodIFrame,
		MaxKeyframes: 20,
		MinInterval:  0.5,
		SampleFPS:    2,
		SampleHeight: 240,
		ImageFormat:  "jpg",
		Timeout:      10 * time.Minute,
	}
}

// Keyframe describes one selected frame.
type Keyframe struct {
	Timestamp float64  `json:"timestamp_s"`
	Method    string   `json:"method"`
	Score     *float64 `json:"score"`
	LocalPath string   `json:"local_path,omitempty"`
	S3URL     string   `json:"s3_url,omitempty"`
}

// Result reports the extraction.
type Result struct {
	InputSpec    string     `json:"input_path"`
	Method       string     `json:"method"`
	OutputDir    string     `json:"output_dir,omitempty"`
	S3Prefix     string     `json:"s3_output_prefix,omitempty"`
	ManifestSpec string     `json:"manifest,omitempty"`
	Keyframes    []Keyframe `json:"keyframes"`
}

// Tool extracts keyframes.
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
	return &Tool{resolver: resolver, prober: prober, encoder: encoder, store: store, fs: fs, logger: logger.WithComponent("keyframes")}
}

func (in *Input) validate() error {
	switch in.Method {
	case MethodIFrame, MethodDifference, MethodHistogram:
	default:
		return fmt.Errorf("method must be one of: iframe, difference, histogram")
	}
	switch strings.ToLower(in.ImageFormat) {
	case "jpg", "jpeg", "png":
	default:
		return fmt.Errorf("unsupported image format %q", in.ImageFormat)
	}
	if in.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if in.SampleFPS <= 0 && in.Method != MethodIFrame {
		return fmt.Errorf("sample fps must be positive")
	}
	return nil
}

// Run selects keyframes of in.InputSpec, writes images when a
// destination was given, and returns their metadata.
func (t *Tool) Run(ctx context.Context, in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	format := strings.ToLower(in.ImageFormat)
	if format == "jpeg" {
		format = "jpg"
	}

	src, err := t.resolver.ResolveInput(ctx, in.InputSpec, mediaio.ModeDownload)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	t.logger.Info("Extracting keyframes from %s", in.InputSpec)

	var cands []candidate
	switch in.Method {
	case MethodIFrame:
		cands, err = t.selectIFrames(ctx, src.Ref, in)
	default:
		cands, err = t.selectByScore(ctx, src.Ref, in)
	}
	if err != nil {
		return Result{}, err
	}

	keyframes := make([]Keyframe, len(cands))
	for i, c := range cands {
		keyframes[i] = Keyframe{Timestamp: c.timestamp, Method: in.Method, Score: c.score}
	}

	res := Result{
		InputSpec: in.InputSpec,
		Method:    in.Method,
		OutputDir: in.OutputDir,
		S3Prefix:  in.S3Prefix,
		Keyframes: keyframes,
	}

	if len(keyframes) > 0 && (in.OutputDir != "" || in.S3Prefix != "") {
		if err := t.writeImages(ctx, src.Ref, res.Keyframes, in, format); err != nil {
			return Result{}, err
		}
	}

	if in.ManifestSpec != "" {
		if err := t.resolver.WriteJSON(ctx, in.ManifestSpec, res.Keyframes); err != nil {
			return Result{}, fmt.Errorf("write manifest: %w", err)
		}
		res.ManifestSpec = in.ManifestSpec
	}
	return res, nil
}

// selectIFrames picks container I-frame timestamps, thins them by the
// minimum interval, then spreads them uniformly over time.
func (t *Tool) selectIFrames(ctx context.Context, ref string, in Input) ([]candidate, error) {
	frames, err := t.prober.FrameTimestamps(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("scan frames: %w", err)
	}
	cands := []candidate{}
	for _, f := range frames {
		if f.PictType == "I" {
			cands = append(cands, candidate{timestamp: f.Timestamp})
		}
	}
	cands = applyMinInterval(cands, in.MinInterval)
	selected := uniformSampleByTime(cands, in.MaxKeyframes)
	t.logger.Debug("Selected %d of %d candidate frames", len(selected), len(cands))
	return selected, nil
}

// selectByScore samples frames at a fixed rate, scores consecutive
// pairs, and picks frames whose score clears the threshold.
func (t *Tool) selectByScore(ctx context.Context, ref string, in Input) ([]candidate, error) {
	threshold := defaultDifferenceThreshold
	if in.Method == MethodHistogram {
		threshold = defaultHistogramThreshold
	}
	if in.Threshold != nil {
		threshold = *in.Threshold
	}

	dir, err := t.fs.TempDir("viseeker_keyframes")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer t.fs.RemoveAll(dir)

	t.logger.Debug("Sampling frames at %.2f fps", in.SampleFPS)
	err = t.encoder.SampleFrames(ctx, ports.SampleJob{
		InputPath:     ref,
		OutputPattern: filepath.Join(dir, "sample_%05d.jpg"),
		FPS:           in.SampleFPS,
		Height:        in.SampleHeight,
		Timeout:       in.Timeout,
	})
	if err != nil {
		return nil, err
	}

	names, err := t.fs.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}

	picked := []candidate{}
	var prevGray *image.Gray
	var prevHist [histogramBins]float64
	lastTS := -1.0
	for i, name := range names {
		data, err := t.fs.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode sample %s: %w", name, err)
		}
		gray := grayThumb(img)
		var hist [histogramBins]float64
		if in.Method == MethodHistogram {
			hist = histogram(gray)
		}

		// ffmpeg's fps filter emits one frame per 1/fps interval.
		ts := float64(i) / in.SampleFPS

		if prevGray != nil {
			var score float64
			if in.Method == MethodHistogram {
				score = bhattacharyya(prevHist, hist)
			} else {
				score = meanAbsDiff(prevGray, gray)
			}
			if score >= threshold && (lastTS < 0 || ts-lastTS >= in.MinInterval) {
				s := score
				picked = append(picked, candidate{timestamp: ts, score: &s})
				lastTS = ts
				if in.MaxKeyframes > 0 && len(picked) >= in.MaxKeyframes {
					break
				}
			}
		}
		prevGray, prevHist = gray, hist
	}
	t.logger.Debug("Selected %d of %d candidate frames", len(picked), len(names))
	return picked, nil
}

// writeImages extracts each selected frame at full resolution and
// optionally uploads it.
func (t *Tool) writeImages(ctx context.Context, ref string, keyframes []Keyframe, in Input, format string) error {
	dir := in.OutputDir
	if dir == "" {
		tempDir, err := t.fs.TempDir("viseeker_kfout")
		if err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		defer t.fs.RemoveAll(tempDir)
		dir = tempDir
	} else if err := t.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	contentType := "image/jpeg"
	if format == "png" {
		contentType = "image/png"
	}

	for i := range keyframes {
		kf := &keyframes[i]
		name := fmt.Sprintf("keyframe_%04d_%010d.%s", i+1, int64(math.Round(kf.Timestamp*1000)), format)
		path := filepath.Join(dir, name)
		err := t.encoder.ExtractFrame(ctx, ports.FrameJob{
			InputPath:  ref,
			OutputPath: path,
			Timestamp:  kf.Timestamp,
			Timeout:    in.Timeout,
		})
		if err != nil {
			return fmt.Errorf("extract frame at %.3fs: %w", kf.Timestamp, err)
		}
		if in.OutputDir != "" {
			kf.LocalPath = path
		}

		if in.S3Prefix != "" {
			if t.store == nil {
				return fmt.Errorf("s3 prefix %s: object storage not configured", in.S3Prefix)
			}
			url, err := mediaio.JoinS3URL(in.S3Prefix, name)
			if err != nil {
				return err
			}
			if err := t.store.Upload(ctx, path, url, contentType); err != nil {
				return fmt.Errorf("upload keyframe %s: %w", name, err)
			}
			kf.S3URL = url
		}
	}
	return nil
}
