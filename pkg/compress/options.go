package compress

import (
	"fmt"
	"time"
)

// Supported video codec selections. "auto" prefers the HEVC encoder and
// falls back to H.264 when the build lacks it.
const (
	CodecAuto = "auto"
	CodecHEVC = "libx265"
	CodecH264 = "libx264"
)

// Options control the search. Exactly one of TargetBytes and TargetMiB
// must be positive; the other must be zero.
type Options struct {
	TargetBytes  int64
	TargetMiB    float64
	Codec        string
	CRF          int
	Preset       string
	PixFmt       string
	AudioCodec   string
	AudioBitrate string
	MinFPS       float64
	MinHeight    int
	Timeout      time.Duration
}

// DefaultOptions returns the documented defaults with no target set.
func DefaultOptions() Options {
	return Options{
		Codec:        CodecAuto,
		CRF:          28,
		Preset:       "medium",
		PixFmt:       "yuv420p",
		AudioCodec:   "aac",
		AudioBitrate: "128k",
		MinFPS:       8,
		MinHeight:    360,
		Timeout:      30 * time.Minute,
	}
}

// budget validates the options and returns the byte budget. All
// failures wrap ErrConfig and occur before any input is touched.
func (o Options) budget() (int64, error) {
	var target int64
	switch {
	case o.TargetBytes > 0 && o.TargetMiB > 0:
		return 0, fmt.Errorf("%w: target bytes and target MiB are mutually exclusive", ErrConfig)
	case o.TargetBytes > 0:
		target = o.TargetBytes
	case o.TargetMiB > 0:
		target = int64(o.TargetMiB * 1024 * 1024)
	default:
		return 0, fmt.Errorf("%w: either target bytes or target MiB is required", ErrConfig)
	}
	if target <= 0 {
		return 0, fmt.Errorf("%w: byte budget must be positive", ErrConfig)
	}
	if o.MinFPS <= 0 {
		return 0, fmt.Errorf("%w: minimum frame rate must be positive", ErrConfig)
	}
	if o.MinHeight <= 0 {
		return 0, fmt.Errorf("%w: minimum height must be positive", ErrConfig)
	}
	if o.CRF < 0 {
		return 0, fmt.Errorf("%w: crf must not be negative", ErrConfig)
	}
	if o.Timeout <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive", ErrConfig)
	}
	switch o.Codec {
	case CodecAuto, CodecHEVC, CodecH264:
	default:
		return 0, fmt.Errorf("%w: unsupported codec %q", ErrConfig, o.Codec)
	}
	return target, nil
}

// codecPair maps the codec selection to the preferred encoder and its
// fallback. An empty fallback means failures are final.
func codecPair(codec string) (preferred, fallback string) {
	if codec == CodecAuto {
		return CodecHEVC, CodecH264
	}
	return codec, ""
}
