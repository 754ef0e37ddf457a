package ports

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Encoder implementations. Callers match
// them with errors.Is; the concrete error carries additional context
// (codec name, stderr excerpt).
var (
	// ErrEncoderUnavailable indicates the requested video codec cannot
	// be used by the installed ffmpeg build. Recoverable: callers may
	// retry the identical job with a fallback codec.
	ErrEncoderUnavailable = errors.New("encoder unavailable")

	// ErrEncodeTimeout indicates the invocation exceeded its deadline.
	// Always fatal for the operation in progress.
	ErrEncodeTimeout = errors.New("encode timeout")
)

// TranscodeJob describes a single re-encoding invocation. The first
// video stream is always mapped; the first audio stream is mapped when
// present. Nil FPS/Height keep the source frame rate/resolution.
// Exactly one of CRF and VideoBitrate must be set.
type TranscodeJob struct {
	InputPath  string
	OutputPath string

	FPS    *float64
	Height *int
	// VideoFilter is an extra raw filter expression appended after the
	// fps/scale filters derived from FPS and Height.
	VideoFilter string

	VideoCodec   string
	CRF          *int
	VideoBitrate string // e.g. "1500k"; enables ABR with maxrate/bufsize
	Preset       string
	PixFmt       string

	AudioCodec      string // "copy" passes audio through
	AudioBitrate    string
	AudioSampleRate int
	AudioChannels   int
	CopySubtitles   bool

	Faststart bool
	Timeout   time.Duration
}

// RemuxJob describes a stream-copy invocation (no re-encoding).
type RemuxJob struct {
	InputPath  string
	OutputPath string
	DropAudio  bool
	Timeout    time.Duration
}

// SegmentJob describes a stream-copy segmentation invocation.
// SegmentTime and SegmentTimes are mutually exclusive: the former
// splits at a fixed interval, the latter at explicit timestamps.
type SegmentJob struct {
	InputPath     string
	OutputPattern string // e.g. dir/segment_%04d.mp4
	SegmentTime   float64
	SegmentTimes  []float64
	Timeout       time.Duration
}

// FrameJob extracts a single frame as an image file.
type FrameJob struct {
	InputPath  string
	OutputPath string
	Timestamp  float64
	Quality    int // JPEG quality scale (-q:v), 0 = encoder default
	Timeout    time.Duration
}

// SampleJob extracts frames at a fixed rate into an image sequence.
type SampleJob struct {
	InputPath     string
	OutputPattern string // e.g. dir/frame_%05d.jpg
	FPS           float64
	Height        int // 0 keeps the source height
	Timeout       time.Duration
}

// Encoder abstracts ffmpeg invocation. Implementations run exactly one
// external process per call and block until it finishes or the job
// timeout expires.
type Encoder interface {
	Transcode(ctx context.Context, job TranscodeJob) error
	Remux(ctx context.Context, job RemuxJob) error
	Segment(ctx context.Context, job SegmentJob) error
	ExtractFrame(ctx context.Context, job FrameJob) error
	SampleFrames(ctx context.Context, job SampleJob) error
}
