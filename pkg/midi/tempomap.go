package midi

import "sort"

// TickTimeCurve maps every tick in [0, maxTick] to elapsed seconds.
// The curve is piecewise linear and monotonically non-decreasing; it is
// sampled once so both directions are O(1)/O(log n) lookups.
type TickTimeCurve []float64

// NewTickTimeCurve builds the curve from a tick-ordered tempo list.
// The list must start with a tick-0 entry; FromTracks guarantees this by
// always synthesizing the 500000 microseconds-per-beat default.
func NewTickTimeCurve(ticksPerBeat, maxTick int, tempi []TempoChange) TickTimeCurve {
	curve := make(TickTimeCurve, maxTick+1)

	acc := 0.0
	for i, tc := range tempi {
		start := tc.Tick
		if start > maxTick {
			break
		}
		secondsPerTick := float64(tc.Tempo) / 1000000.0 / float64(ticksPerBeat)

		end := maxTick
		if i+1 < len(tempi) && tempi[i+1].Tick < maxTick {
			end = tempi[i+1].Tick
		}
		for t := start; t <= end; t++ {
			curve[t] = acc + secondsPerTick*float64(t-start)
		}
		// carry the boundary value so segments join without jumps
		acc = curve[end]
	}
	return curve
}

// Time returns the elapsed seconds at tick.
func (c TickTimeCurve) Time(tick int) float64 {
	return c[tick]
}

// NearestTick returns the tick whose time is closest to sec, preferring
// the earlier tick on exact midpoints.
func (c TickTimeCurve) NearestTick(sec float64) int {
	i := sort.SearchFloat64s([]float64(c), sec)
	if i == 0 {
		return 0
	}
	if i == len(c) {
		return len(c) - 1
	}
	if sec-c[i-1] <= c[i]-sec {
		return i - 1
	}
	return i
}
