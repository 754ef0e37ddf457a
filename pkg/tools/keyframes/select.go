package keyframes

// candidate is a frame under consideration before images are written.
type candidate struct {
	timestamp float64
	score     *float64
}

// applyMinInterval keeps candidates that are at least minInterval
// seconds after the previously kept one. Candidates must be in
// timestamp order.
func applyMinInterval(cands []candidate, minInterval float64) []candidate {
	if minInterval <= 0 {
		return cands
	}
	kept := []candidate{}
	last := -1.0
	for _, c := range cands {
		if last < 0 || c.timestamp-last >= minInterval {
			kept = append(kept, c)
			last = c.timestamp
		}
	}
	return kept
}

// uniformSampleByTime reduces candidates to at most max entries spread
// evenly over the covered time span, always keeping the first one.
func uniformSampleByTime(cands []candidate, max int) []candidate {
	if max <= 0 || len(cands) <= max {
		return cands
	}
	if max == 1 {
		return cands[:1]
	}
	t0 := cands[0].timestamp
	t1 := cands[len(cands)-1].timestamp
	if t1 <= t0 {
		step := len(cands) / max
		if step < 1 {
			step = 1
		}
		out := []candidate{}
		for i := 0; i < len(cands) && len(out) < max; i += step {
			out = append(out, cands[i])
		}
		return out
	}

	out := []candidate{}
	seen := map[float64]bool{}
	j := 0
	for i := 0; i < max; i++ {
		target := t0 + (t1-t0)*float64(i)/float64(max-1)
		for j+1 < len(cands) && cands[j+1].timestamp <= target {
			j++
		}
		if !seen[cands[j].timestamp] {
			out = append(out, cands[j])
			seen[cands[j].timestamp] = true
		}
	}
	return out
}
