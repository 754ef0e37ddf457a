package mocks

import (
	"context"

	"github.com/awmthink/viseeker/pkg/ports"
)

// Describer is a mock implementation of ports.Describer.
type Describer struct {
	Text         string
	DescribeFunc func(ctx context.Context, prompt string, frames []ports.DescribeFrame) (string, error)

	// Recorded calls for verification
	Prompts []string
	Frames  [][]ports.DescribeFrame
}

func (m *Describer) Describe(ctx context.Context, prompt string, frames []ports.DescribeFrame) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	m.Frames = append(m.Frames, frames)
	if m.DescribeFunc != nil {
		return m.DescribeFunc(ctx, prompt, frames)
	}
	return m.Text, nil
}

var _ ports.Describer = (*Describer)(nil)
