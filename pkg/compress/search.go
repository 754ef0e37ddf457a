package compress

import (
	"context"
	"errors"
	"fmt"

	"github.com/awmthink/viseeker/pkg/ports"
)

// Searcher runs the staged candidate search against a local input file,
// reusing a single scratch path so at most one candidate output exists
// at a time.
type Searcher struct {
	encoder ports.Encoder
	fs      ports.FileSystem
	logger  ports.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(encoder ports.Encoder, fs ports.FileSystem, logger ports.Logger) *Searcher {
	return &Searcher{encoder: encoder, fs: fs, logger: logger.WithComponent("compress")}
}

// Search tries frame-rate candidates, then frame-rate+resolution
// candidates, then a single bitrate-targeted encode, stopping at the
// first output within budget. On return with a nil error the scratch
// path holds the final output, which the caller promotes. Any encode
// failure other than a recoverable unavailable-encoder is fatal and
// aborts the search.
func (s *Searcher) Search(ctx context.Context, inputPath, scratchPath string, budget int64, opts Options, probe ports.ProbeSummary) (Outcome, error) {
	preferred, fallback := codecPair(opts.Codec)
	attempts := []Attempt{}

	encode := func(fps *float64, height *int, crf *int, videoBitrate string) (int64, error) {
		job := ports.TranscodeJob{
			InputPath:    inputPath,
			OutputPath:   scratchPath,
			FPS:          fps,
			Height:       height,
			VideoCodec:   preferred,
			CRF:          crf,
			VideoBitrate: videoBitrate,
			Preset:       opts.Preset,
			PixFmt:       opts.PixFmt,
			AudioCodec:   opts.AudioCodec,
			AudioBitrate: opts.AudioBitrate,
			Faststart:    true,
			Timeout:      opts.Timeout,
		}
		codec := preferred
		err := s.encoder.Transcode(ctx, job)
		if err != nil && fallback != "" && errors.Is(err, ports.ErrEncoderUnavailable) {
			s.logger.Warn("Encoder %s unavailable, retrying with %s", preferred, fallback)
			codec = fallback
			job.VideoCodec = fallback
			err = s.encoder.Transcode(ctx, job)
		}
		if err != nil {
			return 0, err
		}
		size, err := s.fs.FileSize(scratchPath)
		if err != nil {
			return 0, fmt.Errorf("measuring candidate output: %w", err)
		}
		attempts = append(attempts, Attempt{
			FPS:          fps,
			Height:       height,
			VideoCodec:   codec,
			CRF:          crf,
			VideoBitrate: videoBitrate,
			AudioBitrate: opts.AudioBitrate,
			OutputBytes:  size,
		})
		return size, nil
	}

	crf := opts.CRF

	// Stage 1: reduce the frame rate only.
	var lastFPS *float64
	for _, fps := range fpsCandidates(probe.FrameRate, opts.MinFPS) {
		s.logger.Info("Trying fps=%s crf=%d", fpsLabel(fps), crf)
		size, err := encode(fps, nil, &crf, "")
		if err != nil {
			return Outcome{Attempts: attempts}, fmt.Errorf("frame-rate stage (fps=%s): %w", fpsLabel(fps), err)
		}
		lastFPS = fps
		if size <= budget {
			return Outcome{Strategy: StrategyFPS, FinalBytes: size, Success: true, Attempts: attempts}, nil
		}
	}

	// Stage 2: keep the last frame rate, reduce the resolution. The
	// keep-height entry duplicates the last stage-1 attempt and is
	// skipped.
	var lastHeight *int
	for _, h := range heightCandidates(probe.Height, opts.MinHeight) {
		if h == nil {
			continue
		}
		s.logger.Info("Trying fps=%s height=%d crf=%d", fpsLabel(lastFPS), *h, crf)
		size, err := encode(lastFPS, h, &crf, "")
		if err != nil {
			return Outcome{Attempts: attempts}, fmt.Errorf("resolution stage (height=%d): %w", *h, err)
		}
		lastHeight = h
		if size <= budget {
			return Outcome{Strategy: StrategyFPSScale, FinalBytes: size, Success: true, Attempts: attempts}, nil
		}
	}

	// Stage 3: one bitrate-targeted encode at the harshest explored
	// parameters, or the floors where a stage never lowered anything.
	fps := lastFPS
	if fps == nil {
		min := opts.MinFPS
		fps = &min
	}
	height := lastHeight
	if height == nil && probe.Height > opts.MinHeight {
		min := opts.MinHeight
		height = &min
	}
	bitrate := formatBitrate(targetVideoBitrate(budget, probe.Duration, opts.AudioBitrate))
	s.logger.Info("Trying fps=%s bitrate=%s", fpsLabel(fps), bitrate)
	size, err := encode(fps, height, nil, bitrate)
	if err != nil {
		return Outcome{Attempts: attempts}, fmt.Errorf("bitrate stage (bitrate=%s): %w", bitrate, err)
	}
	out := Outcome{Strategy: StrategyFPSScaleBitrate, FinalBytes: size, Success: size <= budget, Attempts: attempts}
	if !out.Success {
		s.logger.Warn("Budget not met: %d bytes over a %d byte target", size, budget)
	}
	return out, nil
}

func fpsLabel(fps *float64) string {
	if fps == nil {
		return "keep"
	}
	return fmt.Sprintf("%g", *fps)
}
