package metadata

import (
	"context"
	"strings"
	"testing"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/mocks"
	"github.com/awmthink/viseeker/pkg/ports"
)

func TestRunMapsProbeSummary(t *testing.T) {
	prober := &mocks.Prober{Summary: ports.ProbeSummary{
		Duration: 7.367, FormatName: "mov,mp4,m4a,3gp,3g2,mj2", BitRate: 1058326,
		HasVideo: true, HasAudio: true,
		VideoCodec: "h264", Width: 720, Height: 720, FrameRate: 30,
		AudioCodec: "aac", AudioSampleRate: 44100, AudioChannels: 2, AudioTracks: 1,
	}}
	tool := New(mediaio.NewResolver(mocks.NewFileSystem(), &mocks.ObjectStore{}), prober, mocks.NewLogger())

	res, err := tool.Run(context.Background(), Input{InputSpec: "/v.mp4"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Duration != 7.367 || res.VideoCodec != "h264" || res.AudioSampleRate != 44100 {
		t.Errorf("result = %+v", res)
	}
	if res.VideoFPS != 30 || res.AudioTracks != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestRunPresignsS3InputsInURLMode(t *testing.T) {
	prober := &mocks.Prober{Summary: ports.ProbeSummary{HasVideo: true}}
	store := &mocks.ObjectStore{}
	tool := New(mediaio.NewResolver(mocks.NewFileSystem(), store), prober, mocks.NewLogger())

	_, err := tool.Run(context.Background(), Input{InputSpec: "s3://bucket/v.mp4"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.Presigns) != 1 {
		t.Fatalf("presigns = %v", store.Presigns)
	}
	if len(store.Downloads) != 0 {
		t.Error("url mode must not download")
	}
	if len(prober.ProbeCalls) != 1 || !strings.HasPrefix(prober.ProbeCalls[0], "https://") {
		t.Errorf("probe ref = %v, want a presigned https url", prober.ProbeCalls)
	}
}
