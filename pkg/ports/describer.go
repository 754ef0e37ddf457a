package ports

import "context"

// DescribeFrame is one sampled video frame handed to a vision-language
// model, JPEG-encoded, tagged with its source timestamp in seconds.
type DescribeFrame struct {
	Timestamp float64
	JPEG      []byte
}

// Describer abstracts a multimodal chat endpoint that turns a prompt
// plus a frame sequence into a textual description.
type Describer interface {
	Describe(ctx context.Context, prompt string, frames []DescribeFrame) (string, error)
}
