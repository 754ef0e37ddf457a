package ffmpegenc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awmthink/viseeker/pkg/ports"
)

// common leading arguments for every invocation
func baseArgs(inputPath string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
	}
}

// TranscodeArgs assembles the ffmpeg argument list for a transcode
// job, without the binary name. Exported for testing.
func TranscodeArgs(job ports.TranscodeJob) []string {
	args := baseArgs(job.InputPath)

	if job.CopySubtitles {
		args = append(args, "-map", "0:v:0", "-map", "0:a?", "-map", "0:s?")
	} else {
		args = append(args, "-map", "0:v:0", "-map", "0:a:0?")
	}

	var filters []string
	if job.FPS != nil {
		filters = append(filters, fmt.Sprintf("fps=fps=%.6f", *job.FPS))
	}
	if job.Height != nil {
		filters = append(filters, fmt.Sprintf("scale=-2:%d", *job.Height))
	}
	if job.VideoFilter != "" {
		filters = append(filters, job.VideoFilter)
	}
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}

	args = append(args, "-c:v", job.VideoCodec)
	if job.VideoBitrate != "" {
		// Keep rate control stable; allow small bursts.
		args = append(args,
			"-b:v", job.VideoBitrate,
			"-maxrate", job.VideoBitrate,
			"-bufsize", job.VideoBitrate,
		)
	} else if job.CRF != nil {
		args = append(args, "-crf", strconv.Itoa(*job.CRF))
	}
	if job.Preset != "" {
		args = append(args, "-preset", job.Preset)
	}
	if job.PixFmt != "" {
		args = append(args, "-pix_fmt", job.PixFmt)
	}

	if job.AudioCodec == "copy" {
		args = append(args, "-c:a", "copy")
	} else if job.AudioCodec != "" {
		args = append(args, "-c:a", job.AudioCodec)
		if job.AudioBitrate != "" {
			args = append(args, "-b:a", job.AudioBitrate)
		}
		if job.AudioSampleRate > 0 {
			args = append(args, "-ar", strconv.Itoa(job.AudioSampleRate))
		}
		if job.AudioChannels > 0 {
			args = append(args, "-ac", strconv.Itoa(job.AudioChannels))
		}
	}
	if job.CopySubtitles {
		args = append(args, "-c:s", "copy")
	}

	if job.Faststart {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, "-y", job.OutputPath)
}

// RemuxArgs assembles the argument list for a stream-copy remux.
func RemuxArgs(job ports.RemuxJob) []string {
	args := baseArgs(job.InputPath)
	args = append(args, "-map", "0")
	if job.DropAudio {
		args = append(args, "-map", "-0:a")
	}
	args = append(args, "-c", "copy")
	return append(args, "-y", job.OutputPath)
}

// SegmentArgs assembles the argument list for stream-copy segmentation.
func SegmentArgs(job ports.SegmentJob) []string {
	args := baseArgs(job.InputPath)
	args = append(args,
		"-map", "0",
		"-c", "copy",
		"-f", "segment",
		"-reset_timestamps", "1",
	)
	if len(job.SegmentTimes) > 0 {
		times := make([]string, len(job.SegmentTimes))
		for i, t := range job.SegmentTimes {
			times[i] = fmt.Sprintf("%.6f", t)
		}
		args = append(args, "-segment_times", strings.Join(times, ","))
	} else if job.SegmentTime > 0 {
		args = append(args, "-segment_time", fmt.Sprintf("%.6f", job.SegmentTime))
	}
	return append(args, "-y", job.OutputPattern)
}

// FrameArgs assembles the argument list for single-frame extraction.
// The seek flag precedes the input for fast keyframe-relative seeking.
func FrameArgs(job ports.FrameJob) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.6f", job.Timestamp),
		"-i", job.InputPath,
		"-frames:v", "1",
	}
	quality := job.Quality
	if quality <= 0 {
		quality = 2
	}
	args = append(args, "-q:v", strconv.Itoa(quality))
	return append(args, "-y", job.OutputPath)
}

// SampleArgs assembles the argument list for fixed-rate frame
// sequence extraction.
func SampleArgs(job ports.SampleJob) []string {
	args := baseArgs(job.InputPath)
	filter := fmt.Sprintf("fps=fps=%.6f", job.FPS)
	if job.Height > 0 {
		filter += fmt.Sprintf(",scale=-2:%d", job.Height)
	}
	args = append(args, "-vf", filter, "-q:v", "2")
	return append(args, "-y", job.OutputPattern)
}
