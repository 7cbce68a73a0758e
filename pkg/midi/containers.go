package midi

import "fmt"

// TempoChange sets the tempo, in microseconds per beat, from Tick onward.
type TempoChange struct {
	Tempo int
	Tick  int
}

// TimeSignature sets the meter from Tick onward.
type TimeSignature struct {
	Numerator   uint8
	Denominator uint8
	Tick        int
}

// KeySignature sets the key from Tick onward. Key is a key number in
// [0, 23]; see KeyName for the mapping.
type KeySignature struct {
	Key  int
	Tick int
}

// Lyric is a piece of lyric text anchored at Tick.
type Lyric struct {
	Text string
	Tick int
}

// Note is a single played note with paired start and end ticks.
// Start < End always holds for reconstructed notes.
type Note struct {
	Pitch    uint8
	Velocity uint8
	Start    int
	End      int
}

func (n Note) String() string {
	return fmt.Sprintf("Note(pitch=%d, velocity=%d, start=%d, end=%d)", n.Pitch, n.Velocity, n.Start, n.End)
}

// ControlChange is a controller value change anchored at Tick.
type ControlChange struct {
	Number uint8
	Value  uint8
	Tick   int
}

// PitchBend is a pitch wheel position anchored at Tick.
// Pitch is the signed wheel value in [-8192, 8191].
type PitchBend struct {
	Pitch int
	Tick  int
}

// Instrument owns the notes and expressive event streams reconstructed
// for one (program, channel, track) identity.
type Instrument struct {
	Program uint8
	IsDrum  bool
	Name    string

	Notes          []Note
	ControlChanges []ControlChange
	PitchBends     []PitchBend
}

func (i *Instrument) String() string {
	return fmt.Sprintf("Instrument(program=%d, is_drum=%v, name=%q)", i.Program, i.IsDrum, i.Name)
}
