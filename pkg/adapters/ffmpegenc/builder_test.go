package ffmpegenc

import (
	"strings"
	"testing"

	"github.com/awmthink/viseeker/pkg/ports"
)

func hasSequence(args []string, want ...string) bool {
	joined := " " + strings.Join(args, " ") + " "
	return strings.Contains(joined, " "+strings.Join(want, " ")+" ")
}

func TestTranscodeArgs_CRFWithFilters(t *testing.T) {
	fps := 15.0
	height := 720
	crf := 28

	args := TranscodeArgs(ports.TranscodeJob{
		InputPath:    "in.mp4",
		OutputPath:   "out.mp4",
		FPS:          &fps,
		Height:       &height,
		VideoCodec:   "libx265",
		CRF:          &crf,
		Preset:       "medium",
		PixFmt:       "yuv420p",
		AudioCodec:   "aac",
		AudioBitrate: "128k",
		Faststart:    true,
	})

	if !hasSequence(args, "-vf", "fps=fps=15.000000,scale=-2:720") {
		t.Errorf("missing combined filter: %v", args)
	}
	if !hasSequence(args, "-c:v", "libx265") {
		t.Errorf("missing video codec: %v", args)
	}
	if !hasSequence(args, "-crf", "28") {
		t.Errorf("missing crf: %v", args)
	}
	if hasSequence(args, "-b:v") {
		t.Errorf("bitrate args present in CRF mode: %v", args)
	}
	if !hasSequence(args, "-map", "0:v:0", "-map", "0:a:0?") {
		t.Errorf("missing stream maps: %v", args)
	}
	if !hasSequence(args, "-movflags", "+faststart") {
		t.Errorf("missing faststart: %v", args)
	}
	if args[len(args)-2] != "-y" || args[len(args)-1] != "out.mp4" {
		t.Errorf("output not last: %v", args)
	}
}

func TestTranscodeArgs_BitrateMode(t *testing.T) {
	args := TranscodeArgs(ports.TranscodeJob{
		InputPath:    "in.mp4",
		OutputPath:   "out.mp4",
		VideoCodec:   "libx264",
		VideoBitrate: "1500k",
		AudioCodec:   "aac",
		AudioBitrate: "128k",
	})

	if !hasSequence(args, "-b:v", "1500k", "-maxrate", "1500k", "-bufsize", "1500k") {
		t.Errorf("missing bitrate control: %v", args)
	}
	if hasSequence(args, "-crf") {
		t.Errorf("crf present in bitrate mode: %v", args)
	}
	if hasSequence(args, "-vf") {
		t.Errorf("unexpected filter for keep/keep job: %v", args)
	}
}

func TestTranscodeArgs_CopyAudioAndSubtitles(t *testing.T) {
	args := TranscodeArgs(ports.TranscodeJob{
		InputPath:     "in.mkv",
		OutputPath:    "out.mp4",
		VideoFilter:   "scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2:color=black",
		VideoCodec:    "libx264",
		CRF:           intPtr(23),
		AudioCodec:    "copy",
		CopySubtitles: true,
	})

	if !hasSequence(args, "-map", "0:v:0", "-map", "0:a?", "-map", "0:s?") {
		t.Errorf("missing wide stream maps: %v", args)
	}
	if !hasSequence(args, "-c:a", "copy") {
		t.Errorf("missing audio copy: %v", args)
	}
	if !hasSequence(args, "-c:s", "copy") {
		t.Errorf("missing subtitle copy: %v", args)
	}
	if hasSequence(args, "-b:a") {
		t.Errorf("audio bitrate present for copy codec: %v", args)
	}
}

func TestRemuxArgs_DropAudio(t *testing.T) {
	args := RemuxArgs(ports.RemuxJob{
		InputPath:  "in.mp4",
		OutputPath: "out.mp4",
		DropAudio:  true,
	})

	if !hasSequence(args, "-map", "0", "-map", "-0:a", "-c", "copy") {
		t.Errorf("missing audio drop maps: %v", args)
	}
}

func TestSegmentArgs(t *testing.T) {
	fixed := SegmentArgs(ports.SegmentJob{
		InputPath:     "in.mp4",
		OutputPattern: "seg_%04d.mp4",
		SegmentTime:   10,
	})
	if !hasSequence(fixed, "-segment_time", "10.000000") {
		t.Errorf("missing segment_time: %v", fixed)
	}

	timed := SegmentArgs(ports.SegmentJob{
		InputPath:     "in.mp4",
		OutputPattern: "seg_%04d.mp4",
		SegmentTimes:  []float64{1.5, 3.25},
	})
	if !hasSequence(timed, "-segment_times", "1.500000,3.250000") {
		t.Errorf("missing segment_times: %v", timed)
	}
	if hasSequence(timed, "-segment_time ") {
		t.Errorf("segment_time present alongside segment_times: %v", timed)
	}
}

func TestFrameAndSampleArgs(t *testing.T) {
	frame := FrameArgs(ports.FrameJob{
		InputPath:  "in.mp4",
		OutputPath: "kf.jpg",
		Timestamp:  1.5,
	})
	// -ss must precede -i for fast seeking
	if !hasSequence(frame, "-ss", "1.500000", "-i", "in.mp4") {
		t.Errorf("seek flag not before input: %v", frame)
	}
	if !hasSequence(frame, "-frames:v", "1", "-q:v", "2") {
		t.Errorf("missing frame selection: %v", frame)
	}

	sample := SampleArgs(ports.SampleJob{
		InputPath:     "in.mp4",
		OutputPattern: "f_%05d.jpg",
		FPS:           2,
		Height:        360,
	})
	if !hasSequence(sample, "-vf", "fps=fps=2.000000,scale=-2:360") {
		t.Errorf("missing sampling filter: %v", sample)
	}
}

func TestMatchEncoderUnavailable(t *testing.T) {
	cases := []struct {
		stderr string
		want   bool
	}{
		{"Unknown encoder 'libx265'", true},
		{"[vost#0:0] Encoder 'libx265' not found", true},
		{"Error while opening encoder for output stream #0:0 - maybe incorrect parameters", false},
		{"in.mp4: No such file or directory", false},
		{"", false},
	}
	for _, c := range cases {
		if got := MatchEncoderUnavailable(c.stderr); got != c.want {
			t.Errorf("MatchEncoderUnavailable(%q) = %v, want %v", c.stderr, got, c.want)
		}
	}
}

func intPtr(v int) *int { return &v }
