package mocks

import (
	"context"

	"github.com/awmthink/viseeker/pkg/ports"
)

// Encoder is a mock implementation of ports.Encoder.
type Encoder struct {
	TranscodeFunc    func(ctx context.Context, job ports.TranscodeJob) error
	RemuxFunc        func(ctx context.Context, job ports.RemuxJob) error
	SegmentFunc      func(ctx context.Context, job ports.SegmentJob) error
	ExtractFrameFunc func(ctx context.Context, job ports.FrameJob) error
	SampleFramesFunc func(ctx context.Context, job ports.SampleJob) error

	// Recorded calls for verification
	TranscodeCalls []ports.TranscodeJob
	RemuxCalls     []ports.RemuxJob
	SegmentCalls   []ports.SegmentJob
	FrameCalls     []ports.FrameJob
	SampleCalls    []ports.SampleJob
}

func (m *Encoder) Transcode(ctx context.Context, job ports.TranscodeJob) error {
	m.TranscodeCalls = append(m.TranscodeCalls, job)
	if m.TranscodeFunc != nil {
		return m.TranscodeFunc(ctx, job)
	}
	return nil
}

func (m *Encoder) Remux(ctx context.Context, job ports.RemuxJob) error {
	m.RemuxCalls = append(m.RemuxCalls, job)
	if m.RemuxFunc != nil {
		return m.RemuxFunc(ctx, job)
	}
	return nil
}

func (m *Encoder) Segment(ctx context.Context, job ports.SegmentJob) error {
	m.SegmentCalls = append(m.SegmentCalls, job)
	if m.SegmentFunc != nil {
		return m.SegmentFunc(ctx, job)
	}
	return nil
}

func (m *Encoder) ExtractFrame(ctx context.Context, job ports.FrameJob) error {
	m.FrameCalls = append(m.FrameCalls, job)
	if m.ExtractFrameFunc != nil {
		return m.ExtractFrameFunc(ctx, job)
	}
	return nil
}

func (m *Encoder) SampleFrames(ctx context.Context, job ports.SampleJob) error {
	m.SampleCalls = append(m.SampleCalls, job)
	if m.SampleFramesFunc != nil {
		return m.SampleFramesFunc(ctx, job)
	}
	return nil
}

var _ ports.Encoder = (*Encoder)(nil)
