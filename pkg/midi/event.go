package midi

// EventType identifies one kind of channel or meta event at the codec
// boundary.
type EventType int

const (
	EventNoteOn EventType = iota + 1
	EventNoteOff
	EventProgramChange
	EventControlChange
	EventPitchWheel
	EventSetTempo
	EventTimeSignature
	EventKeySignature
	EventLyric
	EventTrackName
	EventEndOfTrack
)

// Event is one entry of the flat per-track stream exchanged with the
// SMF codec. Tick is cumulative: the codec resolves per-event deltas
// before events reach this package, and converts back on the way out.
// Only the fields relevant to Type carry meaning.
type Event struct {
	Type EventType
	Tick int

	Channel  uint8
	Note     uint8
	Velocity uint8
	Control  uint8
	Value    uint8
	Pitch    int // pitch wheel value, -8192..8191
	Program  uint8

	Tempo       int // microseconds per beat
	Numerator   uint8
	Denominator uint8
	Key         int // key number, 0..23
	Text        string
	Name        string
}
