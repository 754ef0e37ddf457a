package split

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/mocks"
	"github.com/awmthink/viseeker/pkg/ports"
)

func iframes(times ...float64) []ports.FrameInfo {
	frames := []ports.FrameInfo{}
	for _, t := range times {
		frames = append(frames, ports.FrameInfo{Timestamp: t, PictType: "I"})
		frames = append(frames, ports.FrameInfo{Timestamp: t + 0.033, PictType: "P"})
	}
	return frames
}

func TestSplitPoints(t *testing.T) {
	frames := iframes(0, 2, 4, 6, 8)

	got := splitPoints(frames, 1, 0)
	want := []float64{2, 4, 6, 8}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("everyN=1: got %v, want %v", got, want)
	}

	// Every second I-frame, indexed over all I-frames including t=0.
	got = splitPoints(frames, 2, 0)
	want = []float64{4, 8}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("everyN=2: got %v, want %v", got, want)
	}

	// Cap to 3 segments: at most 2 split points remain.
	got = splitPoints(frames, 1, 3)
	if len(got) != 2 {
		t.Errorf("maxSegments=3: got %v, want 2 points", got)
	}

	// A cap of 1 removes all split points.
	if got := splitPoints(frames, 1, 1); len(got) != 0 {
		t.Errorf("maxSegments=1: got %v, want none", got)
	}

	if got := splitPoints(nil, 1, 0); len(got) != 0 {
		t.Errorf("no frames: got %v", got)
	}
}

type fixture struct {
	tool   *Tool
	enc    *mocks.Encoder
	prober *mocks.Prober
	fs     *mocks.FileSystem
	store  *mocks.ObjectStore
}

func newFixture(segmentCount int, segmentDur float64) *fixture {
	fs := mocks.NewFileSystem()
	enc := &mocks.Encoder{}
	enc.SegmentFunc = func(ctx context.Context, job ports.SegmentJob) error {
		dir := filepath.Dir(job.OutputPattern)
		base := filepath.Base(job.OutputPattern)
		for i := 0; i < segmentCount; i++ {
			fs.SetFile(filepath.Join(dir, fmt.Sprintf(base, i)), []byte("seg"))
		}
		return nil
	}
	prober := &mocks.Prober{
		Summary: ports.ProbeSummary{HasVideo: true, Duration: segmentDur},
		Frames:  iframes(0, 2, 4),
	}
	store := &mocks.ObjectStore{}
	return &fixture{
		tool:   New(mediaio.NewResolver(fs, store), prober, enc, store, fs, mocks.NewLogger()),
		enc:    enc,
		prober: prober,
		fs:     fs,
		store:  store,
	}
}

func TestRunIFrameMode(t *testing.T) {
	f := newFixture(3, 2.0)

	in := DefaultInput()
	in.InputSpec = "/in.mp4"
	in.OutputDir = "/segments"
	res, err := f.tool.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.enc.SegmentCalls) != 1 {
		t.Fatalf("segment calls = %d", len(f.enc.SegmentCalls))
	}
	job := f.enc.SegmentCalls[0]
	if fmt.Sprint(job.SegmentTimes) != "[2 4]" {
		t.Errorf("segment times = %v", job.SegmentTimes)
	}
	if job.SegmentTime != 0 {
		t.Error("iframe mode must not set a fixed interval")
	}
	if len(res.Segments) != 3 {
		t.Fatalf("segments = %d", len(res.Segments))
	}
	for i, seg := range res.Segments {
		if seg.Index != i || seg.Duration != 2.0 {
			t.Errorf("segment %d = %+v", i, seg)
		}
		if seg.Start != float64(i)*2.0 {
			t.Errorf("segment %d start = %v", i, seg.Start)
		}
	}
}

func TestRunFixedModeUploadsToS3(t *testing.T) {
	f := newFixture(2, 5.0)

	in := DefaultInput()
	in.InputSpec = "/in.mp4"
	in.Mode = ModeFixed
	in.SegmentSeconds = 5
	in.S3Prefix = "s3://bucket/segments/"
	res, err := f.tool.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.enc.SegmentCalls[0].SegmentTime != 5 {
		t.Errorf("segment time = %v", f.enc.SegmentCalls[0].SegmentTime)
	}
	if len(f.prober.FrameCalls) != 0 {
		t.Error("fixed mode must not scan frames")
	}
	if len(f.store.Uploads) != 2 {
		t.Fatalf("uploads = %d", len(f.store.Uploads))
	}
	if res.Segments[0].S3URL != "s3://bucket/segments/segment_0000.mp4" {
		t.Errorf("s3 url = %q", res.Segments[0].S3URL)
	}
	if res.OutputDir != "" {
		t.Error("temp output dir must not be reported")
	}
}

func TestRunWritesManifest(t *testing.T) {
	f := newFixture(2, 1.0)

	in := DefaultInput()
	in.InputSpec = "/in.mp4"
	in.OutputDir = "/segments"
	in.ManifestSpec = "/segments/manifest.json"
	res, err := f.tool.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ManifestSpec != "/segments/manifest.json" {
		t.Errorf("manifest = %q", res.ManifestSpec)
	}
	data, err := f.fs.ReadFile("/segments/manifest.json")
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if !strings.Contains(string(data), "segment_0001.mp4") {
		t.Errorf("manifest does not list segments: %s", data)
	}
}

func TestRunValidation(t *testing.T) {
	f := newFixture(1, 1.0)

	cases := []func(*Input){
		func(in *Input) { in.Mode = "chapters" },
		func(in *Input) { in.Mode = ModeFixed },                   // missing segment seconds
		func(in *Input) { in.OutputDir = ""; in.S3Prefix = "" },   // no destination
		func(in *Input) { in.EveryNIFrames = 0 },
		func(in *Input) { in.Timeout = 0 },
	}
	for i, mutate := range cases {
		in := DefaultInput()
		in.InputSpec = "/in.mp4"
		in.OutputDir = "/segments"
		mutate(&in)
		if _, err := f.tool.Run(context.Background(), in); err == nil {
			t.Errorf("case %d: expected a validation error", i)
		}
	}
	if len(f.enc.SegmentCalls) != 0 {
		t.Error("validation failures must not invoke ffmpeg")
	}
}
