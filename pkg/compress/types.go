// Package compress implements target-size-driven adaptive transcoding:
// an ordered search over frame-rate and resolution reductions with a
// bitrate-targeted fallback, stopping at the first output that fits a
// byte budget.
package compress

import "errors"

// Sentinel errors for the failure taxonomy. Budget-not-met is not an
// error; it is a normal Outcome with Success=false.
var (
	// ErrConfig marks contradictory or out-of-range parameters,
	// detected before any probe or encode call.
	ErrConfig = errors.New("invalid configuration")

	// ErrInput marks an input the search cannot operate on (no video
	// stream, undetermined duration), detected before the search runs.
	ErrInput = errors.New("unusable input")
)

// Strategy names the stage that produced the final output.
type Strategy string

const (
	// StrategyFPS: a frame-rate-only candidate met the budget.
	StrategyFPS Strategy = "fps"
	// StrategyFPSScale: a frame-rate+resolution candidate met the budget.
	StrategyFPSScale Strategy = "fps+scale"
	// StrategyFPSScaleBitrate: the bitrate-targeted fallback ran; the
	// output is final whether or not it met the budget.
	StrategyFPSScaleBitrate Strategy = "fps+scale+bitrate"
)

// Attempt records one executed encode invocation. Nil FPS/Height mean
// the source value was kept. VideoCodec is the codec actually used
// after any unavailable-encoder fallback.
type Attempt struct {
	FPS          *float64 `json:"fps"`
	Height       *int     `json:"height"`
	VideoCodec   string   `json:"video_codec"`
	CRF          *int     `json:"crf"`
	VideoBitrate string   `json:"video_bitrate,omitempty"`
	AudioBitrate string   `json:"audio_bitrate"`
	OutputBytes  int64    `json:"output_bytes"`
}

// Outcome is the terminal value of the search. Attempts reflect exactly
// the encode invocations performed, in order; none are dropped or
// reordered.
type Outcome struct {
	Strategy   Strategy
	FinalBytes int64
	Success    bool
	Attempts   []Attempt
}

// Result is the caller-facing report: the Outcome plus the resolved
// input and output references.
type Result struct {
	InputSpec   string    `json:"input_path"`
	OutputSpec  string    `json:"output"`
	LocalPath   string    `json:"local_path,omitempty"`
	S3URL       string    `json:"s3_url,omitempty"`
	TargetBytes int64     `json:"target_bytes"`
	ActualBytes int64     `json:"actual_bytes"`
	Strategy    Strategy  `json:"strategy"`
	Success     bool      `json:"success"`
	Attempts    []Attempt `json:"attempts"`
}
