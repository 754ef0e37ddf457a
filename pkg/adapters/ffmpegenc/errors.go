package ffmpegenc

import "regexp"

// reEncoderUnavailable matches the stderr ffmpeg emits when the
// requested encoder is not compiled into the installed build. Only
// these patterns are treated as recoverable-by-codec-fallback; any
// other failure stays generic.
var reEncoderUnavailable = regexp.MustCompile(
	`(?i)unknown encoder|encoder '[^']+' not found|` +
		`no encoder named|encoder not found`)

// MatchEncoderUnavailable reports whether stderr indicates the
// requested codec is unavailable in this ffmpeg build.
func MatchEncoderUnavailable(stderr string) bool {
	return reEncoderUnavailable.MatchString(stderr)
}
