package convert

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/mocks"
	"github.com/awmthink/viseeker/pkg/ports"
)

type fixture struct {
	tool   *Tool
	enc    *mocks.Encoder
	prober *mocks.Prober
	fs     *mocks.FileSystem
	store  *mocks.ObjectStore
}

func newFixture() *fixture {
	enc := &mocks.Encoder{}
	fs := mocks.NewFileSystem()
	prober := &mocks.Prober{Summary: ports.ProbeSummary{
		Duration: 30, HasVideo: true, HasAudio: true,
		Width: 1920, Height: 1080, FrameRate: 30,
	}}
	store := &mocks.ObjectStore{}
	return &fixture{
		tool:   New(mediaio.NewResolver(fs, store), prober, enc, fs, mocks.NewLogger()),
		enc:    enc,
		prober: prober,
		fs:     fs,
		store:  store,
	}
}

func TestConvertDefaultsToCRFAndFaststart(t *testing.T) {
	f := newFixture()

	in := DefaultInput()
	in.InputSpec = "/in.avi"
	in.OutputSpec = "/out/converted.mp4"
	res, err := f.tool.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.enc.TranscodeCalls) != 1 {
		t.Fatalf("transcode calls = %d", len(f.enc.TranscodeCalls))
	}
	job := f.enc.TranscodeCalls[0]
	if job.VideoCodec != CodecHEVC {
		t.Errorf("auto must prefer %s, got %s", CodecHEVC, job.VideoCodec)
	}
	if job.CRF == nil || *job.CRF != 28 || job.VideoBitrate != "" {
		t.Errorf("expected CRF 28 rate control, got %+v", job)
	}
	if !job.Faststart {
		t.Error("faststart missing")
	}
	if job.Height != nil {
		t.Error("no max height given, must not scale")
	}
	if res.VideoCodec != CodecHEVC || res.LocalPath != "/out/converted.mp4" {
		t.Errorf("result = %+v", res)
	}
}

func TestConvertFallsBackToH264(t *testing.T) {
	f := newFixture()
	f.enc.TranscodeFunc = func(ctx context.Context, job ports.TranscodeJob) error {
		if job.VideoCodec == CodecHEVC {
			return fmt.Errorf("%w: libx265", ports.ErrEncoderUnavailable)
		}
		return nil
	}

	in := DefaultInput()
	in.InputSpec = "/in.avi"
	in.OutputSpec = "/out.mp4"
	res, err := f.tool.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.VideoCodec != CodecH264 {
		t.Errorf("codec = %s, want fallback %s", res.VideoCodec, CodecH264)
	}
	if len(f.enc.TranscodeCalls) != 2 {
		t.Errorf("transcode calls = %d, want 2", len(f.enc.TranscodeCalls))
	}
}

func TestConvertExplicitCodecFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.enc.TranscodeFunc = func(ctx context.Context, job ports.TranscodeJob) error {
		return fmt.Errorf("%w: %s", ports.ErrEncoderUnavailable, job.VideoCodec)
	}

	in := DefaultInput()
	in.InputSpec = "/in.avi"
	in.OutputSpec = "/out.mp4"
	in.VideoCodec = CodecHEVC
	_, err := f.tool.Run(context.Background(), in)
	if !errors.Is(err, ports.ErrEncoderUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if len(f.enc.TranscodeCalls) != 1 {
		t.Errorf("explicit codec must not fall back, calls = %d", len(f.enc.TranscodeCalls))
	}
}

func TestConvertDownscalesToMaxHeight(t *testing.T) {
	f := newFixture()

	in := DefaultInput()
	in.InputSpec = "/in.mkv"
	in.OutputSpec = "/out.mp4"
	in.MaxHeight = 720
	res, err := f.tool.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	job := f.enc.TranscodeCalls[0]
	if job.Height == nil || *job.Height != 720 {
		t.Errorf("height = %v, want 720", job.Height)
	}
	if !res.Scaled || res.OutputHeight != 720 || res.OutputWidth != 1280 {
		t.Errorf("result = %+v", res)
	}

	// Inputs already at or below the cap pass through unscaled.
	f = newFixture()
	f.prober.Summary.Height = 480
	f.prober.Summary.Width = 640
	in.MaxHeight = 720
	res, err = f.tool.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.enc.TranscodeCalls[0].Height != nil || res.Scaled {
		t.Error("input below the cap must not be scaled")
	}
}

func TestConvertUploadsS3Output(t *testing.T) {
	f := newFixture()

	in := DefaultInput()
	in.InputSpec = "/in.avi"
	in.OutputSpec = "s3://bucket/out.mp4"
	res, err := f.tool.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.S3URL != "s3://bucket/out.mp4" || res.LocalPath != "" {
		t.Errorf("result = %+v", res)
	}
	if len(f.store.Uploads) != 1 || f.store.Uploads[0].ContentType != "video/mp4" {
		t.Errorf("uploads = %+v", f.store.Uploads)
	}
}

func TestMoovBeforeMdat(t *testing.T) {
	file := func(types ...string) *mp4.File {
		f := &mp4.File{}
		for _, typ := range types {
			switch typ {
			case "moov":
				f.Children = append(f.Children, &mp4.MoovBox{})
			case "mdat":
				f.Children = append(f.Children, &mp4.MdatBox{})
			case "ftyp":
				f.Children = append(f.Children, &mp4.FtypBox{})
			}
		}
		return f
	}

	if !moovBeforeMdat(file("ftyp", "moov", "mdat")) {
		t.Error("faststart layout not recognized")
	}
	if moovBeforeMdat(file("ftyp", "mdat", "moov")) {
		t.Error("trailing moov misreported as faststart")
	}
	if !moovBeforeMdat(file("ftyp")) {
		t.Error("layouts without both boxes must pass")
	}
}
