package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestTempoMessageKeepsExactMicroseconds(t *testing.T) {
	// 417809 microseconds per beat has no exact BPM representation;
	// the raw payload must survive untouched
	msg := messageFor(Event{Type: EventSetTempo, Tempo: 417809})
	e, ok := eventFromMessage(msg, 0)
	require.True(t, ok)
	assert.Equal(t, EventSetTempo, e.Type)
	assert.Equal(t, 417809, e.Tempo)
}

func TestDump_SMFShape(t *testing.T) {
	m := New()
	m.Instruments = []*Instrument{{
		Program: 5,
		Notes:   []Note{{Pitch: 60, Velocity: 80, Start: 0, End: 480}},
	}}

	s, err := m.Dump(nil)
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, smf.MetricTicks(480), s.TimeFormat)
	// one meta track plus one instrument track
	assert.Len(t, s.Tracks, 2)
}

func TestRoundTrip(t *testing.T) {
	meta := []Event{
		{Type: EventSetTempo, Tick: 0, Tempo: 400000},
		{Type: EventTimeSignature, Tick: 0, Numerator: 3, Denominator: 4},
		{Type: EventKeySignature, Tick: 0, Key: 21},
		{Type: EventLyric, Tick: 240, Text: "la"},
		{Type: EventSetTempo, Tick: 480, Tempo: 600000},
	}
	lead := []Event{
		{Type: EventTrackName, Tick: 0, Name: "Lead"},
		{Type: EventProgramChange, Tick: 0, Channel: 0, Program: 5},
		{Type: EventControlChange, Tick: 0, Channel: 0, Control: 64, Value: 127},
		{Type: EventNoteOn, Tick: 0, Channel: 0, Note: 60, Velocity: 80},
		{Type: EventPitchWheel, Tick: 10, Channel: 0, Pitch: -2048},
		{Type: EventNoteOff, Tick: 120, Channel: 0, Note: 60},
		{Type: EventNoteOn, Tick: 120, Channel: 0, Note: 64, Velocity: 85},
		{Type: EventNoteOff, Tick: 240, Channel: 0, Note: 64},
	}
	drums := []Event{
		{Type: EventNoteOn, Tick: 0, Channel: 9, Note: 35, Velocity: 100},
		{Type: EventNoteOff, Tick: 480, Channel: 9, Note: 35},
	}

	m1 := FromTracks(480, [][]Event{meta, lead, drums})
	require.Len(t, m1.Instruments, 2)

	s, err := m1.Dump(nil)
	require.NoError(t, err)
	require.NotNil(t, s)

	m2, err := FromSMF(s)
	require.NoError(t, err)

	assert.Equal(t, m1.TicksPerBeat, m2.TicksPerBeat)
	assert.Equal(t, m1.TempoChanges, m2.TempoChanges)
	assert.Equal(t, m1.TimeSignatures, m2.TimeSignatures)
	assert.Equal(t, m1.KeySignatures, m2.KeySignatures)
	assert.Equal(t, m1.Lyrics, m2.Lyrics)

	require.Len(t, m2.Instruments, len(m1.Instruments))
	for i := range m1.Instruments {
		want, got := m1.Instruments[i], m2.Instruments[i]
		assert.Equal(t, want.Program, got.Program, "instrument %d", i)
		assert.Equal(t, want.IsDrum, got.IsDrum, "instrument %d", i)
		assert.Equal(t, want.Name, got.Name, "instrument %d", i)
		assert.Equal(t, want.Notes, got.Notes, "instrument %d", i)
		assert.Equal(t, want.ControlChanges, got.ControlChanges, "instrument %d", i)
		assert.Equal(t, want.PitchBends, got.PitchBends, "instrument %d", i)
	}
}

func TestRoundTrip_SecondPassStable(t *testing.T) {
	lead := []Event{
		{Type: EventNoteOn, Tick: 0, Channel: 0, Note: 60, Velocity: 80},
		{Type: EventNoteOn, Tick: 10, Channel: 0, Note: 60, Velocity: 90},
		{Type: EventNoteOff, Tick: 20, Channel: 0, Note: 60},
	}
	m1 := FromTracks(480, [][]Event{lead})

	s1, err := m1.Dump(nil)
	require.NoError(t, err)
	m2, err := FromSMF(s1)
	require.NoError(t, err)

	s2, err := m2.Dump(nil)
	require.NoError(t, err)
	m3, err := FromSMF(s2)
	require.NoError(t, err)

	require.Len(t, m2.Instruments, 1)
	require.Len(t, m3.Instruments, 1)
	assert.Equal(t, m2.Instruments[0].Notes, m3.Instruments[0].Notes)
	assert.Equal(t, m2.TempoChanges, m3.TempoChanges)
}
