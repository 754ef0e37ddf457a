package ports

import (
	"context"
)

// ProbeSummary is the simplified, stable subset of media metadata the
// tools consume. Zero values for Width, Height and FrameRate mean the
// prober could not determine them.
type ProbeSummary struct {
	Duration    float64 // seconds
	FormatName  string
	BitRate     int64 // container bit rate in bits/sec, 0 if unknown
	HasVideo    bool
	HasAudio    bool
	VideoCodec  string
	Width       int
	Height      int
	FrameRate   float64
	AudioCodec      string
	AudioSampleRate int
	AudioChannels   int
	AudioTracks     int
}

// FrameInfo describes a single video frame of the first video stream.
type FrameInfo struct {
	Timestamp float64 // best-effort timestamp in seconds
	PictType  string  // "I", "P", "B"
}

// Prober abstracts media inspection.
type Prober interface {
	// Probe inspects a local path or URL and returns a summary.
	Probe(ctx context.Context, ref string) (ProbeSummary, error)

	// FrameTimestamps returns per-frame timestamps and picture types
	// for the first video stream, in decode order.
	FrameTimestamps(ctx context.Context, ref string) ([]FrameInfo, error)
}
