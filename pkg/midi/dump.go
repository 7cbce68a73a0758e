package midi

import (
	"errors"
	"sort"
)

// ErrInvalidSegment reports a malformed segment specification.
var ErrInvalidSegment = errors.New("invalid segment")

type segmentUnit int

const (
	segmentTicks segmentUnit = iota + 1
	segmentSeconds
)

// Segment selects a [start, end) window, bounded either in ticks or in
// seconds. Second boundaries are converted to ticks through the tempo
// curve's nearest-tick lookup; the two units cannot be mixed.
type Segment struct {
	unit      segmentUnit
	startTick int
	endTick   int
	startSec  float64
	endSec    float64
}

// TickSegment bounds a window in ticks.
func TickSegment(start, end int) Segment {
	return Segment{unit: segmentTicks, startTick: start, endTick: end}
}

// TimeSegment bounds a window in seconds.
func TimeSegment(start, end float64) Segment {
	return Segment{unit: segmentSeconds, startSec: start, endSec: end}
}

func (s Segment) resolve(m *MidiFile) (startTick, endTick int, err error) {
	switch s.unit {
	case segmentTicks:
		return s.startTick, s.endTick, nil
	case segmentSeconds:
		curve := m.TickToTimeCurve()
		return curve.NearestTick(s.startSec), curve.NearestTick(s.endSec), nil
	default:
		return 0, 0, ErrInvalidSegment
	}
}

// DumpOptions controls serialization. A nil *DumpOptions exports the
// whole model. Instruments selects instruments by index: nil exports
// all, an empty non-nil slice is a deliberate no-op. Shift applies only
// when a Segment is present and rebases the window to tick 0.
type DumpOptions struct {
	Segment     *Segment
	Shift       bool
	Instruments []int
}

// nonDrumChannels are the channels handed out round-robin to non-drum
// instruments; channel 9 is reserved for drums.
var nonDrumChannels = [15]uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 12, 13, 14, 15}

// eventRank is the tie-break rank applied between events sharing a
// tick: tempo < time signature < key signature < lyric < program change
// < pitch wheel < control change < note-off < note-on < end-of-track,
// with the documented per-type secondary keys folded in below the
// priority byte.
func eventRank(e Event) int {
	switch e.Type {
	case EventSetTempo:
		return 1 << 16
	case EventTimeSignature:
		return 2 << 16
	case EventKeySignature:
		return 3 << 16
	case EventLyric:
		return 4 << 16
	case EventProgramChange:
		return 5 << 16
	case EventPitchWheel:
		return 6<<16 + e.Pitch
	case EventControlChange:
		return 7<<16 + int(e.Control)<<8 + int(e.Value)
	case EventNoteOff:
		return 8<<16 + int(e.Note)<<8
	case EventNoteOn:
		return 9<<16 + int(e.Note)<<8 + int(e.Velocity)
	case EventEndOfTrack:
		return 10 << 16
	}
	return 0
}

func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tick != events[j].Tick {
			return events[i].Tick < events[j].Tick
		}
		return eventRank(events[i]) < eventRank(events[j])
	})
}

// fixNoteCollisions swaps adjacent same-tick, same-pitch pairs where a
// note-on precedes the note-off (note-on with velocity zero), so
// synthesizers processing events in emitted order do not drop re-struck
// notes.
func fixNoteCollisions(events []Event) {
	for n := 0; n+1 < len(events); n++ {
		e1, e2 := events[n], events[n+1]
		if e1.Tick == e2.Tick &&
			e1.Type == EventNoteOn && e2.Type == EventNoteOn &&
			e1.Note == e2.Note &&
			e1.Velocity != 0 && e2.Velocity == 0 {
			events[n], events[n+1] = e2, e1
		}
	}
}

// dumpTracks serializes the model into flat cumulative-tick event
// streams: one meta track followed by one track per selected
// instrument. The streams do not yet carry end-of-track events; the
// codec appends the sentinel at lastEventTick+1 while converting ticks
// back to deltas. A non-nil empty instrument selection yields nil
// tracks (a no-op).
func (m *MidiFile) dumpTracks(opts *DumpOptions) ([][]Event, error) {
	if opts == nil {
		opts = &DumpOptions{}
	}
	if opts.Instruments != nil && len(opts.Instruments) == 0 {
		return nil, nil
	}

	segmenting := opts.Segment != nil
	var startTick, endTick int
	if segmenting {
		var err error
		startTick, endTick, err = opts.Segment.resolve(m)
		if err != nil {
			return nil, err
		}
	}

	meta := m.metaEvents()
	if segmenting {
		shift := opts.Shift
		meta.timeSignatures = includeEventsWithinRange(meta.timeSignatures, startTick, endTick, shift, true)
		meta.tempi = includeEventsWithinRange(meta.tempi, startTick, endTick, shift, true)
		meta.lyrics = includeEventsWithinRange(meta.lyrics, startTick, endTick, shift, false)
		meta.keySignatures = includeEventsWithinRange(meta.keySignatures, startTick, endTick, shift, true)
	}

	metaTrack := make([]Event, 0,
		len(meta.timeSignatures)+len(meta.tempi)+len(meta.lyrics)+len(meta.keySignatures))
	metaTrack = append(metaTrack, meta.timeSignatures...)
	metaTrack = append(metaTrack, meta.tempi...)
	metaTrack = append(metaTrack, meta.lyrics...)
	metaTrack = append(metaTrack, meta.keySignatures...)
	sortEvents(metaTrack)

	tracks := [][]Event{metaTrack}

	selected := func(idx int) bool {
		if opts.Instruments == nil {
			return true
		}
		for _, want := range opts.Instruments {
			if want == idx {
				return true
			}
		}
		return false
	}

	for idx, inst := range m.Instruments {
		if !selected(idx) {
			continue
		}

		var track []Event
		if inst.Name != "" {
			track = append(track, Event{Type: EventTrackName, Name: inst.Name})
		}

		channel := uint8(9)
		if !inst.IsDrum {
			// channel assignment follows the instrument's position in the
			// full collection, not its position within the selection
			channel = nonDrumChannels[idx%len(nonDrumChannels)]
		}
		track = append(track, Event{Type: EventProgramChange, Program: inst.Program, Channel: channel})

		bends := make([]Event, 0, len(inst.PitchBends))
		for _, pb := range inst.PitchBends {
			bends = append(bends, Event{Type: EventPitchWheel, Tick: pb.Tick, Channel: channel, Pitch: pb.Pitch})
		}
		ccs := make([]Event, 0, len(inst.ControlChanges))
		for _, cc := range inst.ControlChanges {
			ccs = append(ccs, Event{Type: EventControlChange, Tick: cc.Tick, Channel: channel, Control: cc.Number, Value: cc.Value})
		}
		if segmenting {
			bends = includeEventsWithinRange(bends, startTick, endTick, opts.Shift, true)
			ccs = includeEventsWithinRange(ccs, startTick, endTick, opts.Shift, true)
		}
		track = append(track, bends...)
		track = append(track, ccs...)

		for _, note := range inst.Notes {
			if segmenting {
				// clip a copy so the model itself stays intact
				if !clipNote(&note, startTick, endTick, opts.Shift) {
					continue
				}
			}
			track = append(track,
				Event{Type: EventNoteOn, Tick: note.Start, Channel: channel, Note: note.Pitch, Velocity: note.Velocity},
				Event{Type: EventNoteOn, Tick: note.End, Channel: channel, Note: note.Pitch, Velocity: 0})
		}

		sortEvents(track)
		fixNoteCollisions(track)
		tracks = append(tracks, track)
	}

	return tracks, nil
}

type metaStreams struct {
	timeSignatures []Event
	tempi          []Event
	lyrics         []Event
	keySignatures  []Event
}

// metaEvents renders the model's global timelines as event streams,
// injecting the default tempo and 4/4 meter at tick 0 when the earliest
// recorded change starts later. Lyrics and key signatures get no
// synthesized defaults.
func (m *MidiFile) metaEvents() metaStreams {
	var s metaStreams

	if len(m.TimeSignatures) == 0 || m.TimeSignatures[0].Tick > 0 {
		s.timeSignatures = append(s.timeSignatures, Event{Type: EventTimeSignature, Numerator: 4, Denominator: 4})
	}
	for _, ts := range m.TimeSignatures {
		s.timeSignatures = append(s.timeSignatures, Event{
			Type: EventTimeSignature, Tick: ts.Tick, Numerator: ts.Numerator, Denominator: ts.Denominator,
		})
	}

	if len(m.TempoChanges) == 0 || m.TempoChanges[0].Tick > 0 {
		s.tempi = append(s.tempi, Event{Type: EventSetTempo, Tempo: DefaultTempo})
	}
	for _, tc := range m.TempoChanges {
		s.tempi = append(s.tempi, Event{Type: EventSetTempo, Tick: tc.Tick, Tempo: tc.Tempo})
	}

	for _, l := range m.Lyrics {
		s.lyrics = append(s.lyrics, Event{Type: EventLyric, Tick: l.Tick, Text: l.Text})
	}
	for _, ks := range m.KeySignatures {
		s.keySignatures = append(s.keySignatures, Event{Type: EventKeySignature, Tick: ks.Tick, Key: ks.Key})
	}
	return s
}
