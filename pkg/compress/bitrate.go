package compress

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	defaultAudioBps = 128_000
	floorVideoBps   = 200_000
)

// parseBitrate converts an ffmpeg-style bitrate string ("128k", "1.5m",
// "96000") to bits per second. Unparseable input falls back to the
// 128 kbit/s default rather than failing the search.
func parseBitrate(s string) int64 {
	t := strings.ToLower(strings.TrimSpace(s))
	mult := 1.0
	switch {
	case strings.HasSuffix(t, "k"):
		mult = 1_000
		t = strings.TrimSuffix(t, "k")
	case strings.HasSuffix(t, "m"):
		mult = 1_000_000
		t = strings.TrimSuffix(t, "m")
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || v <= 0 {
		return defaultAudioBps
	}
	return int64(v * mult)
}

// targetVideoBitrate derives the video bitrate for the final encode:
// the budget spread over the duration with a 5% container allowance,
// minus the audio share, clamped to a 200 kbit/s floor.
func targetVideoBitrate(budget int64, duration float64, audioBitrate string) int64 {
	total := float64(budget) * 8 / math.Max(0.1, duration)
	v := int64(math.Floor(total*0.95)) - parseBitrate(audioBitrate)
	if v < floorVideoBps {
		v = floorVideoBps
	}
	return v
}

// formatBitrate renders bits per second in the "k" notation ffmpeg
// accepts, truncating sub-kilobit remainders.
func formatBitrate(bps int64) string {
	return fmt.Sprintf("%dk", bps/1000)
}
