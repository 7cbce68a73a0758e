package midi

// instKey is the identity an instrument is deduplicated by during
// reconstruction.
type instKey struct {
	program uint8
	channel uint8
	track   int
}

// slotKey addresses the per-(channel, track) straggler slot.
type slotKey struct {
	channel uint8
	track   int
}

// straggler buffers controller and bend events observed on a channel
// before any closed note has established an instrument identity there.
type straggler struct {
	controlChanges []ControlChange
	pitchBends     []PitchBend
}

// noteKey identifies the open-note list for one sounding pitch.
type noteKey struct {
	channel uint8
	pitch   uint8
}

type openNote struct {
	start    int
	velocity uint8
}

// instrumentTable resolves events to instruments while tracks are
// replayed. Each (channel, track) slot moves through three states:
// empty, straggler (events buffered, no instrument yet) and
// materialized. Materialization merges and discards the slot's
// straggler buffer.
type instrumentTable struct {
	order      []*Instrument
	byKey      map[instKey]*Instrument
	stragglers map[slotKey]*straggler
	trackNames map[int]string
}

func newInstrumentTable() *instrumentTable {
	return &instrumentTable{
		byKey:      make(map[instKey]*Instrument),
		stragglers: make(map[slotKey]*straggler),
		trackNames: make(map[int]string),
	}
}

// materialize returns the instrument for the key, creating it on first
// use. The track name in effect at creation time wins; instruments never
// pick up a name retroactively.
func (t *instrumentTable) materialize(program, channel uint8, track int) *Instrument {
	key := instKey{program: program, channel: channel, track: track}
	if inst, ok := t.byKey[key]; ok {
		return inst
	}
	inst := &Instrument{
		Program: program,
		IsDrum:  channel == 9,
		Name:    t.trackNames[track],
	}
	slot := slotKey{channel: channel, track: track}
	if s, ok := t.stragglers[slot]; ok {
		inst.ControlChanges = s.controlChanges
		inst.PitchBends = s.pitchBends
		delete(t.stragglers, slot)
	}
	t.byKey[key] = inst
	t.order = append(t.order, inst)
	return inst
}

func (t *instrumentTable) slot(channel uint8, track int) *straggler {
	key := slotKey{channel: channel, track: track}
	s, ok := t.stragglers[key]
	if !ok {
		s = &straggler{}
		t.stragglers[key] = s
	}
	return s
}

// addControlChange routes a controller event without creating a new
// instrument: an existing instrument takes it, otherwise the straggler
// slot buffers it until one materializes.
func (t *instrumentTable) addControlChange(program, channel uint8, track int, cc ControlChange) {
	if inst, ok := t.byKey[instKey{program: program, channel: channel, track: track}]; ok {
		inst.ControlChanges = append(inst.ControlChanges, cc)
		return
	}
	s := t.slot(channel, track)
	s.controlChanges = append(s.controlChanges, cc)
}

func (t *instrumentTable) addPitchBend(program, channel uint8, track int, pb PitchBend) {
	if inst, ok := t.byKey[instKey{program: program, channel: channel, track: track}]; ok {
		inst.PitchBends = append(inst.PitchBends, pb)
		return
	}
	s := t.slot(channel, track)
	s.pitchBends = append(s.pitchBends, pb)
}

// loadTrack replays one track's chronological events into the table.
func (t *instrumentTable) loadTrack(track int, events []Event) {
	var program [16]uint8
	open := make(map[noteKey][]openNote)

	for _, e := range events {
		switch e.Type {
		case EventTrackName:
			t.trackNames[track] = e.Name

		case EventProgramChange:
			program[e.Channel] = e.Program

		case EventNoteOn:
			if e.Velocity > 0 {
				key := noteKey{channel: e.Channel, pitch: e.Note}
				open[key] = append(open[key], openNote{start: e.Tick, velocity: e.Velocity})
			} else {
				t.closeNotes(open, program[e.Channel], track, e)
			}

		case EventNoteOff:
			t.closeNotes(open, program[e.Channel], track, e)

		case EventPitchWheel:
			t.addPitchBend(program[e.Channel], e.Channel, track, PitchBend{Pitch: e.Pitch, Tick: e.Tick})

		case EventControlChange:
			t.addControlChange(program[e.Channel], e.Channel, track, ControlChange{Number: e.Control, Value: e.Value, Tick: e.Tick})
		}
	}
}

// closeNotes resolves a note-off against the open-note list for its
// channel and pitch. One note-off closes every open note started at an
// earlier tick; notes started at this very tick stay open so that a
// same-tick re-strike can be closed by a later note-off. A note-off with
// no open notes is spurious and ignored.
func (t *instrumentTable) closeNotes(open map[noteKey][]openNote, program uint8, track int, e Event) {
	key := noteKey{channel: e.Channel, pitch: e.Note}
	opens, ok := open[key]
	if !ok {
		return
	}

	endTick := e.Tick
	var kept []openNote
	closed := 0
	for _, on := range opens {
		if on.start == endTick {
			kept = append(kept, on)
			continue
		}
		inst := t.materialize(program, e.Channel, track)
		inst.Notes = append(inst.Notes, Note{
			Pitch:    e.Note,
			Velocity: on.velocity,
			Start:    on.start,
			End:      endTick,
		})
		closed++
	}

	if closed > 0 && len(kept) > 0 {
		open[key] = kept
	} else {
		delete(open, key)
	}
}
