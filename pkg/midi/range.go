package midi

// clipNote restricts a note to the window [start, end). The note is
// rewritten in place; the return value reports whether anything of the
// note survives. Notes clipped to zero or negative length are dropped.
func clipNote(n *Note, start, end int, shift bool) bool {
	s := n.Start
	if s < start {
		s = start
	}
	e := n.End
	if e > end {
		e = end
	}
	if e < start {
		e = start
	}
	if e-s <= 0 {
		return false
	}
	if shift {
		s -= start
		e -= start
	}
	n.Start = s
	n.End = e
	return true
}

// includeEventsWithinRange filters a tick-ordered event stream down to
// the window [start, end). With front set, the nearest event preceding
// the window is carried forward whenever no included event lands exactly
// on the window start, so the segment opens with a defined state; the
// carried event is re-anchored to the window start. Lyric streams pass
// front=false: an empty lyric window stays empty.
func includeEventsWithinRange(events []Event, start, end int, shift, front bool) []Event {
	if len(events) == 0 {
		return events
	}

	// scan from the back; the first event before the window ends the scan
	var included []Event
	prev := -1
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Tick < start {
			prev = i
			break
		}
		if events[i].Tick < end {
			included = append(included, events[i])
		}
	}

	if front && prev >= 0 {
		if len(included) == 0 || included[len(included)-1].Tick != start {
			carried := events[prev]
			carried.Tick = start
			included = append(included, carried)
		}
	}

	// back to chronological order
	for l, r := 0, len(included)-1; l < r; l, r = l+1, r-1 {
		included[l], included[r] = included[r], included[l]
	}

	if shift {
		for i := range included {
			included[i].Tick -= start
		}
	}
	return included
}
