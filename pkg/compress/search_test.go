package compress

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/awmthink/viseeker/pkg/mocks"
	"github.com/awmthink/viseeker/pkg/ports"
)

const scratchPath = "/mock-tmp/work/candidate.mp4"

// scriptSizes makes the mock encoder produce outputs of the given sizes
// in call order, repeating the last size after the script runs out.
func scriptSizes(fs *mocks.FileSystem, sizes ...int) func(context.Context, ports.TranscodeJob) error {
	n := 0
	return func(ctx context.Context, job ports.TranscodeJob) error {
		size := sizes[len(sizes)-1]
		if n < len(sizes) {
			size = sizes[n]
		}
		n++
		fs.SetFile(job.OutputPath, make([]byte, size))
		return nil
	}
}

func newSearchFixture() (*Searcher, *mocks.Encoder, *mocks.FileSystem) {
	enc := &mocks.Encoder{}
	fs := mocks.NewFileSystem()
	return NewSearcher(enc, fs, mocks.NewLogger()), enc, fs
}

func probe1080p30(duration float64) ports.ProbeSummary {
	return ports.ProbeSummary{
		Duration:  duration,
		HasVideo:  true,
		FrameRate: 30,
		Width:     1920,
		Height:    1080,
	}
}

func TestSearchStopsAtFirstFittingFPSCandidate(t *testing.T) {
	s, enc, fs := newSearchFixture()
	enc.TranscodeFunc = scriptSizes(fs, 1000, 800, 550)

	out, err := s.Search(context.Background(), "/in.mp4", scratchPath, 600, DefaultOptions(), probe1080p30(60))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if out.Strategy != StrategyFPS {
		t.Errorf("strategy = %s, want %s", out.Strategy, StrategyFPS)
	}
	if !out.Success {
		t.Error("expected success")
	}
	if out.FinalBytes != 550 {
		t.Errorf("final bytes = %d, want 550", out.FinalBytes)
	}
	if len(out.Attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(out.Attempts))
	}

	// keep, 24, 15 in order; all CRF-mode, none scaled.
	if out.Attempts[0].FPS != nil {
		t.Errorf("attempt 0 fps = %v, want keep", *out.Attempts[0].FPS)
	}
	if out.Attempts[1].FPS == nil || *out.Attempts[1].FPS != 24 {
		t.Errorf("attempt 1 fps = %v, want 24", out.Attempts[1].FPS)
	}
	if out.Attempts[2].FPS == nil || *out.Attempts[2].FPS != 15 {
		t.Errorf("attempt 2 fps = %v, want 15", out.Attempts[2].FPS)
	}
	for i, a := range out.Attempts {
		if a.Height != nil {
			t.Errorf("attempt %d scaled to %d during the frame-rate stage", i, *a.Height)
		}
		if a.CRF == nil || *a.CRF != 28 {
			t.Errorf("attempt %d crf = %v, want 28", i, a.CRF)
		}
		if a.VideoBitrate != "" {
			t.Errorf("attempt %d has a bitrate during the frame-rate stage", i)
		}
		if a.OutputBytes != []int64{1000, 800, 550}[i] {
			t.Errorf("attempt %d bytes = %d", i, a.OutputBytes)
		}
	}
	for _, job := range enc.TranscodeCalls {
		if !job.Faststart {
			t.Error("every candidate must be written with faststart")
		}
		if job.VideoCodec != CodecHEVC {
			t.Errorf("codec = %s, want %s", job.VideoCodec, CodecHEVC)
		}
	}
}

func TestSearchFallsThroughToResolutionStage(t *testing.T) {
	s, enc, fs := newSearchFixture()
	// 5 fps candidates all miss, first resolution candidate fits.
	enc.TranscodeFunc = scriptSizes(fs, 900, 880, 860, 840, 820, 500)

	out, err := s.Search(context.Background(), "/in.mp4", scratchPath, 600, DefaultOptions(), probe1080p30(60))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if out.Strategy != StrategyFPSScale || !out.Success {
		t.Fatalf("got strategy=%s success=%v", out.Strategy, out.Success)
	}
	if len(out.Attempts) != 6 {
		t.Fatalf("attempts = %d, want 6", len(out.Attempts))
	}
	last := out.Attempts[5]
	if last.FPS == nil || *last.FPS != 8 {
		t.Errorf("resolution stage must keep the harshest frame rate, got %v", last.FPS)
	}
	if last.Height == nil || *last.Height != 720 {
		t.Errorf("height = %v, want 720", last.Height)
	}
	if last.CRF == nil {
		t.Error("resolution stage still encodes in CRF mode")
	}
}

func TestSearchBitrateFallback(t *testing.T) {
	tests := []struct {
		name        string
		finalSize   int
		wantSuccess bool
	}{
		{"fits", 550, true},
		{"still over budget", 700, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, enc, fs := newSearchFixture()
			// 5 fps + 2 resolution candidates miss, then the single
			// bitrate encode.
			enc.TranscodeFunc = scriptSizes(fs, 900, 900, 900, 900, 900, 900, 900, tt.finalSize)

			out, err := s.Search(context.Background(), "/in.mp4", scratchPath, 600, DefaultOptions(), probe1080p30(60))
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if out.Strategy != StrategyFPSScaleBitrate {
				t.Errorf("strategy = %s, want %s", out.Strategy, StrategyFPSScaleBitrate)
			}
			if out.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v", out.Success, tt.wantSuccess)
			}
			if len(out.Attempts) != 8 {
				t.Fatalf("attempts = %d, want 8", len(out.Attempts))
			}
			final := out.Attempts[7]
			if final.CRF != nil {
				t.Error("bitrate stage must not use CRF")
			}
			if final.VideoBitrate == "" {
				t.Error("bitrate stage must carry a video bitrate")
			}
			if final.FPS == nil || *final.FPS != 8 {
				t.Errorf("final fps = %v, want the floor 8", final.FPS)
			}
			if final.Height == nil || *final.Height != 360 {
				t.Errorf("final height = %v, want the floor 360", final.Height)
			}
		})
	}
}

func TestSearchBitrateFallbackUsesFloorsWhenNoStageLowered(t *testing.T) {
	s, enc, fs := newSearchFixture()
	enc.TranscodeFunc = scriptSizes(fs, 900)

	// Source already at both floors: single keep-everything candidate,
	// then straight to the bitrate encode at the frame-rate floor.
	probe := ports.ProbeSummary{Duration: 60, HasVideo: true, FrameRate: 8, Height: 360}
	out, err := s.Search(context.Background(), "/in.mp4", scratchPath, 600, DefaultOptions(), probe)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(out.Attempts))
	}
	final := out.Attempts[1]
	if final.FPS == nil || *final.FPS != 8 {
		t.Errorf("final fps = %v, want 8", final.FPS)
	}
	if final.Height != nil {
		t.Errorf("source at the height floor must not be scaled, got %d", *final.Height)
	}
}

func TestSearchRetriesOnceWithH264WhenHEVCUnavailable(t *testing.T) {
	s, enc, fs := newSearchFixture()
	enc.TranscodeFunc = func(ctx context.Context, job ports.TranscodeJob) error {
		if job.VideoCodec == CodecHEVC {
			return fmt.Errorf("%w: %s", ports.ErrEncoderUnavailable, job.VideoCodec)
		}
		fs.SetFile(job.OutputPath, make([]byte, 500))
		return nil
	}

	out, err := s.Search(context.Background(), "/in.mp4", scratchPath, 600, DefaultOptions(), probe1080p30(60))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(out.Attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(out.Attempts))
	}
	if out.Attempts[0].VideoCodec != CodecH264 {
		t.Errorf("attempt codec = %s, want the fallback %s", out.Attempts[0].VideoCodec, CodecH264)
	}
	if len(enc.TranscodeCalls) != 2 {
		t.Fatalf("transcode calls = %d, want 2 (preferred then fallback)", len(enc.TranscodeCalls))
	}
	a, b := enc.TranscodeCalls[0], enc.TranscodeCalls[1]
	if a.VideoCodec != CodecHEVC || b.VideoCodec != CodecH264 {
		t.Fatalf("codec order %s, %s", a.VideoCodec, b.VideoCodec)
	}
	// The retry reuses the identical candidate parameters.
	b.VideoCodec = a.VideoCodec
	if fpsLabel(a.FPS) != fpsLabel(b.FPS) || a.Preset != b.Preset || a.PixFmt != b.PixFmt {
		t.Error("fallback retry must reuse the same candidate parameters")
	}
}

func TestSearchExplicitCodecHasNoFallback(t *testing.T) {
	s, enc, _ := newSearchFixture()
	enc.TranscodeFunc = func(ctx context.Context, job ports.TranscodeJob) error {
		return fmt.Errorf("%w: %s", ports.ErrEncoderUnavailable, job.VideoCodec)
	}

	opts := DefaultOptions()
	opts.Codec = CodecHEVC
	_, err := s.Search(context.Background(), "/in.mp4", scratchPath, 600, opts, probe1080p30(60))
	if !errors.Is(err, ports.ErrEncoderUnavailable) {
		t.Fatalf("err = %v, want encoder-unavailable", err)
	}
	if len(enc.TranscodeCalls) != 1 {
		t.Errorf("transcode calls = %d, want 1 (no fallback for explicit codecs)", len(enc.TranscodeCalls))
	}
}

func TestSearchAbortsOnFatalEncodeError(t *testing.T) {
	s, enc, fs := newSearchFixture()
	boom := errors.New("ffmpeg exited with status 1")
	calls := 0
	enc.TranscodeFunc = func(ctx context.Context, job ports.TranscodeJob) error {
		calls++
		if calls == 2 {
			return boom
		}
		fs.SetFile(job.OutputPath, make([]byte, 900))
		return nil
	}

	_, err := s.Search(context.Background(), "/in.mp4", scratchPath, 600, DefaultOptions(), probe1080p30(60))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the encode failure", err)
	}
	if calls != 2 {
		t.Errorf("search continued after a fatal encode error (%d calls)", calls)
	}
}
