package detect

import "math"

// reconcile revisits every pair of time-adjacent tracks with a shared band
// edge. Such pairs usually come from one signal appearing or vanishing next
// to another: the tracker then reports one track covering both bands and a
// second one covering the newcomer. The pair's bands are split at the shared
// edge and each track's start and end are searched again in its own band.
func (t *Tracker) reconcile(dets []*Detection, psds [][]float64, blockStart int) {
	tol := float64(t.cfg.ToleranceBins) * t.cfg.BinWidth()
	for j := range dets {
		for k := j + 1; k < len(dets); k++ {
			d1, d2 := dets[j], dets[k]
			if absInt(d2.StartSample-d1.EndSample) >= t.cfg.NeighborGap {
				continue
			}
			if math.Abs(d1.LowFreq-d2.LowFreq) >= tol && math.Abs(d1.HighFreq-d2.HighFreq) >= tol {
				continue
			}
			t.adjust(d1, d2, psds, blockStart, tol)
		}
	}
}

func (t *Tracker) adjust(d1, d2 *Detection, psds [][]float64, blockStart int, tol float64) {
	dt := t.cfg.ChunkSize
	before1, before2 := *d1, *d2

	// Split the frequency axis at the shared edge.
	if math.Abs(d1.LowFreq-d2.LowFreq) < tol {
		if d1.HighFreq > d2.HighFreq {
			d1.LowFreq = d2.HighFreq
		} else {
			d2.LowFreq = d1.HighFreq
		}
	} else {
		if d1.LowFreq > d2.LowFreq {
			d2.HighFreq = d1.LowFreq
		} else {
			d1.HighFreq = d2.LowFreq
		}
	}

	first := (d1.StartSample - blockStart) / dt
	limit := min((d2.EndSample+1-blockStart)/dt, len(psds))
	start2 := (d2.StartSample - blockStart) / dt
	lo1, hi1 := t.bandBins(d1)
	lo2, hi2 := t.bandBins(d2)

	above := func(chunk, lo, hi int, level float64) bool {
		m, ok := meanRange(psds[chunk], lo, hi)
		return ok && m > level
	}
	below := func(chunk, lo, hi int, level float64) bool {
		m, ok := meanRange(psds[chunk], lo, hi)
		return ok && m < level
	}

	thr := t.cfg.ThresholdFreq
	exit := thr + t.cfg.EndHysteresis

	for j := first; j < limit; j++ {
		if above(j, lo2, hi2, thr) {
			d2.StartSample = blockStart + j*dt
			start2 = j
			break
		}
	}
	start1 := first
	for j := first; j < limit; j++ {
		if above(j, lo1, hi1, thr) {
			d1.StartSample = blockStart + j*dt
			start1 = j
			break
		}
	}
	for j := start2 + 1; j < limit; j++ {
		if below(j, lo2, hi2, exit) {
			d2.EndSample = blockStart + j*dt - 1
			break
		}
	}
	// Without an exit in its own band the first track runs to the end of
	// the searched range.
	end1 := blockStart + limit*dt - 1
	for j := start1 + 1; j < limit; j++ {
		if below(j, lo1, hi1, exit) {
			end1 = blockStart + j*dt - 1
			break
		}
	}
	if end1 >= d1.StartSample {
		d1.EndSample = end1
	}

	t.log.Debug("tracks reconciled",
		"first", d1.ID, "first_before", before1.String(), "first_after", d1.String(),
		"second", d2.ID, "second_before", before2.String(), "second_after", d2.String())
}

// bandBins maps a detection's band onto shifted PSD bin indices [lo, hi).
func (t *Tracker) bandBins(d *Detection) (lo, hi int) {
	n := t.cfg.ChunkSize
	toBin := func(f float64) int {
		return min(max(int((f+0.5)*float64(n)), 0), n)
	}
	return toBin(d.LowFreq), toBin(d.HighFreq)
}

// meanRange returns the mean of x[lo:hi]; ok is false for an empty range.
func meanRange(x []float64, lo, hi int) (mean float64, ok bool) {
	if hi <= lo {
		return 0, false
	}
	var sum float64
	for _, v := range x[lo:hi] {
		sum += v
	}
	return sum / float64(hi-lo), true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
