package midi

import (
	"errors"
	"fmt"
	"io"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrFmtNotSupported is a generic error reporting an unknown format.
var ErrFmtNotSupported = errors.New("format not supported")

// ReadFile reads a standard MIDI file and reconstructs the structured
// model from it.
func ReadFile(path string) (*MidiFile, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromSMF(s)
}

// ReadFrom reads standard MIDI data from r and reconstructs the
// structured model from it.
func ReadFrom(r io.Reader) (*MidiFile, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return FromSMF(s)
}

// FromSMF reconstructs the structured model from decoded SMF data. Only
// metrical (ticks-per-beat) time division is supported.
func FromSMF(s *smf.SMF) (*MidiFile, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%s - %v", ErrFmtNotSupported, s.TimeFormat)
	}

	tracks := make([][]Event, 0, len(s.Tracks))
	for _, tr := range s.Tracks {
		tracks = append(tracks, eventsFromTrack(tr))
	}
	return FromTracks(int(mt), tracks), nil
}

// Dump serializes the model back into SMF data: one meta track plus one
// track per selected instrument. A deliberate no-op selection (non-nil
// empty DumpOptions.Instruments) returns a nil SMF.
func (m *MidiFile) Dump(opts *DumpOptions) (*smf.SMF, error) {
	tracks, err := m.dumpTracks(opts)
	if err != nil || tracks == nil {
		return nil, err
	}
	return m.toSMF(tracks)
}

// WriteFile serializes the model and writes it to path. A no-op
// selection writes nothing.
func (m *MidiFile) WriteFile(path string, opts *DumpOptions) error {
	s, err := m.Dump(opts)
	if err != nil || s == nil {
		return err
	}
	return s.WriteFile(path)
}

// eventsFromTrack converts one delta-ticked SMF track into the flat
// cumulative-tick stream the reconstructor consumes. Messages the model
// does not represent are dropped here.
func eventsFromTrack(tr smf.Track) []Event {
	var events []Event
	tick := 0
	for _, ev := range tr {
		tick += int(ev.Delta)
		if e, ok := eventFromMessage(ev.Message, tick); ok {
			events = append(events, e)
		}
	}
	return events
}

func eventFromMessage(msg smf.Message, tick int) (Event, bool) {
	var (
		ch, key, vel           uint8
		control, value         uint8
		program                uint8
		rel                    int16
		abs                    uint16
		num, denom, cpt, dsqpq uint8
		text                   string
	)

	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		return Event{Type: EventNoteOn, Tick: tick, Channel: ch, Note: key, Velocity: vel}, true
	case msg.GetNoteOff(&ch, &key, &vel):
		return Event{Type: EventNoteOff, Tick: tick, Channel: ch, Note: key, Velocity: vel}, true
	case msg.GetProgramChange(&ch, &program):
		return Event{Type: EventProgramChange, Tick: tick, Channel: ch, Program: program}, true
	case msg.GetControlChange(&ch, &control, &value):
		return Event{Type: EventControlChange, Tick: tick, Channel: ch, Control: control, Value: value}, true
	case msg.GetPitchBend(&ch, &rel, &abs):
		return Event{Type: EventPitchWheel, Tick: tick, Channel: ch, Pitch: int(rel)}, true
	case msg.Is(smf.MetaTempoMsg):
		return Event{Type: EventSetTempo, Tick: tick, Tempo: tempoMicroseconds(msg)}, true
	case msg.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq):
		return Event{Type: EventTimeSignature, Tick: tick, Numerator: num, Denominator: denom}, true
	case msg.Is(smf.MetaKeySigMsg):
		sf, minor := keySignatureFromMessage(msg)
		return Event{Type: EventKeySignature, Tick: tick, Key: keyNumber(sf, minor)}, true
	case msg.GetMetaLyric(&text):
		return Event{Type: EventLyric, Tick: tick, Text: text}, true
	case msg.GetMetaTrackName(&text):
		return Event{Type: EventTrackName, Tick: tick, Name: text}, true
	case msg.Is(smf.MetaEndOfTrackMsg):
		return Event{Type: EventEndOfTrack, Tick: tick}, true
	}
	return Event{}, false
}

// tempoMicroseconds decodes the exact microseconds-per-beat payload of
// a tempo meta message. The BPM-based accessor would round it.
func tempoMicroseconds(msg smf.Message) int {
	raw := []byte(msg)
	if len(raw) < 6 {
		return DefaultTempo
	}
	return int(raw[3])<<16 | int(raw[4])<<8 | int(raw[5])
}

func keySignatureFromMessage(msg smf.Message) (sf int8, minor uint8) {
	raw := []byte(msg)
	if len(raw) < 5 {
		return 0, 0
	}
	return int8(raw[3]), raw[4]
}

// toSMF converts serialized cumulative-tick streams into SMF tracks,
// rewriting ticks as per-event deltas and closing every track with an
// end-of-track sentinel one tick after its last event.
func (m *MidiFile) toSMF(tracks [][]Event) (*smf.SMF, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.TicksPerBeat)

	for _, events := range tracks {
		var tr smf.Track
		tick := 0
		for _, e := range events {
			tr.Add(uint32(e.Tick-tick), messageFor(e))
			tick = e.Tick
		}
		tr.Close(1)
		if err := s.Add(tr); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func messageFor(e Event) smf.Message {
	switch e.Type {
	case EventNoteOn:
		return smf.Message(gomidi.NoteOn(e.Channel, e.Note, e.Velocity))
	case EventNoteOff:
		return smf.Message(gomidi.NoteOff(e.Channel, e.Note))
	case EventProgramChange:
		return smf.Message(gomidi.ProgramChange(e.Channel, e.Program))
	case EventControlChange:
		return smf.Message(gomidi.ControlChange(e.Channel, e.Control, e.Value))
	case EventPitchWheel:
		return smf.Message(gomidi.Pitchbend(e.Channel, int16(e.Pitch)))
	case EventSetTempo:
		return smf.Message([]byte{0xFF, 0x51, 0x03, byte(e.Tempo >> 16), byte(e.Tempo >> 8), byte(e.Tempo)})
	case EventTimeSignature:
		return smf.Message(smf.MetaMeter(e.Numerator, e.Denominator))
	case EventKeySignature:
		sf, minor := keySignatureBytes(e.Key)
		return smf.Message([]byte{0xFF, 0x59, 0x02, byte(sf), minor})
	case EventLyric:
		return smf.Message(smf.MetaLyric(e.Text))
	case EventTrackName:
		return smf.Message(smf.MetaTrackSequenceName(e.Name))
	}
	return nil
}
