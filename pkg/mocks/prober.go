package mocks

import (
	"context"

	"github.com/awmthink/viseeker/pkg/ports"
)

// Prober is a mock implementation of ports.Prober.
type Prober struct {
	Summary ports.ProbeSummary
	Frames  []ports.FrameInfo

	ProbeFunc           func(ctx context.Context, ref string) (ports.ProbeSummary, error)
	FrameTimestampsFunc func(ctx context.Context, ref string) ([]ports.FrameInfo, error)

	// Recorded calls for verification
	ProbeCalls []string
	FrameCalls []string
}

func (m *Prober) Probe(ctx context.Context, ref string) (ports.ProbeSummary, error) {
	m.ProbeCalls = append(m.ProbeCalls, ref)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, ref)
	}
	return m.Summary, nil
}

func (m *Prober) FrameTimestamps(ctx context.Context, ref string) ([]ports.FrameInfo, error) {
	m.FrameCalls = append(m.FrameCalls, ref)
	if m.FrameTimestampsFunc != nil {
		return m.FrameTimestampsFunc(ctx, ref)
	}
	return m.Frames, nil
}

var _ ports.Prober = (*Prober)(nil)
