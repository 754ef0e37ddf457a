package compress

// fpsCandidates builds the frame-rate ladder. The first entry is nil
// (keep the source rate); the rest are the fixed rungs plus the floor,
// each strictly below the source rate, deduplicated, in listed order.
// The floor participates even when it falls between rungs. An unknown
// source rate is treated as 30.
func fpsCandidates(inputFPS, minFPS float64) []*float64 {
	if inputFPS <= 0 {
		inputFPS = 30
	}
	out := []*float64{nil}
	seen := map[float64]bool{}
	for _, f := range []float64{24, 15, 12, minFPS} {
		if f >= inputFPS || seen[f] {
			continue
		}
		seen[f] = true
		v := f
		out = append(out, &v)
	}
	return out
}

// heightCandidates builds the resolution ladder. The first entry is nil
// (keep the source height); the rest are the fixed rungs plus the
// floor, each strictly below the source height and at least the floor,
// deduplicated. An unknown source height yields only the keep entry.
func heightCandidates(inputHeight, minHeight int) []*int {
	out := []*int{nil}
	if inputHeight <= 0 {
		return out
	}
	seen := map[int]bool{}
	for _, h := range []int{2160, 1440, 1080, 720, minHeight} {
		if h >= inputHeight || h < minHeight || seen[h] {
			continue
		}
		seen[h] = true
		v := h
		out = append(out, &v)
	}
	return out
}
