package midi

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTempo is the tempo assumed when a stream carries no tempo
// information: 500000 microseconds per beat, i.e. 120 BPM.
const DefaultTempo = 500000

// DefaultTicksPerBeat is the resolution of an empty model.
const DefaultTicksPerBeat = 480

// MidiFile is the structured model reconstructed from a flat event
// stream: instruments with paired notes, plus the global tempo, meter,
// key and lyric timelines.
type MidiFile struct {
	TicksPerBeat int
	MaxTick      int

	TempoChanges   []TempoChange
	TimeSignatures []TimeSignature
	KeySignatures  []KeySignature
	Lyrics         []Lyric
	Instruments    []*Instrument
}

// New returns an empty model.
func New() *MidiFile {
	return &MidiFile{TicksPerBeat: DefaultTicksPerBeat}
}

// FromTracks reconstructs the structured model from per-track event
// streams. Events must be ordered by cumulative tick within each track;
// the codec establishes this before handing streams over.
func FromTracks(ticksPerBeat int, tracks [][]Event) *MidiFile {
	m := &MidiFile{TicksPerBeat: ticksPerBeat}

	m.TempoChanges = loadTempoChanges(tracks)
	m.MaxTick = lastTick(tracks) + 1
	m.KeySignatures, m.TimeSignatures = loadMetadata(tracks)
	m.Lyrics = loadLyrics(tracks)

	sort.SliceStable(m.TimeSignatures, func(i, j int) bool { return m.TimeSignatures[i].Tick < m.TimeSignatures[j].Tick })
	sort.SliceStable(m.KeySignatures, func(i, j int) bool { return m.KeySignatures[i].Tick < m.KeySignatures[j].Tick })
	sort.SliceStable(m.Lyrics, func(i, j int) bool { return m.Lyrics[i].Tick < m.Lyrics[j].Tick })

	table := newInstrumentTable()
	for i, track := range tracks {
		table.loadTrack(i, track)
	}
	m.Instruments = table.order

	return m
}

// TickToTimeCurve materializes the tick-to-seconds mapping implied by
// the model's tempo changes.
func (m *MidiFile) TickToTimeCurve() TickTimeCurve {
	return NewTickTimeCurve(m.TicksPerBeat, m.MaxTick, m.TempoChanges)
}

func (m *MidiFile) String() string {
	lines := []string{
		fmt.Sprintf("Ticks per beat: %d", m.TicksPerBeat),
		fmt.Sprintf("Max tick: %d", m.MaxTick),
		fmt.Sprintf("Tempo changes: %d", len(m.TempoChanges)),
		fmt.Sprintf("Time sig: %d", len(m.TimeSignatures)),
		fmt.Sprintf("Key sig: %d", len(m.KeySignatures)),
		fmt.Sprintf("Lyrics: %v", len(m.Lyrics) > 0),
		fmt.Sprintf("Instruments: %d", len(m.Instruments)),
	}
	return strings.Join(lines, "\n")
}

// loadTempoChanges collects tempo events across all tracks. Changes are
// late-bound: an event is recorded only when it differs from the last
// effective tempo, except that a tick-0 event replaces the default.
func loadTempoChanges(tracks [][]Event) []TempoChange {
	changes := []TempoChange{{Tempo: DefaultTempo, Tick: 0}}
	for _, track := range tracks {
		for _, e := range track {
			if e.Type != EventSetTempo {
				continue
			}
			if e.Tick == 0 {
				changes = []TempoChange{{Tempo: e.Tempo, Tick: 0}}
			} else if e.Tempo != changes[len(changes)-1].Tempo {
				changes = append(changes, TempoChange{Tempo: e.Tempo, Tick: e.Tick})
			}
		}
	}
	return changes
}

func loadMetadata(tracks [][]Event) ([]KeySignature, []TimeSignature) {
	var keys []KeySignature
	var meters []TimeSignature
	for _, track := range tracks {
		for _, e := range track {
			switch e.Type {
			case EventKeySignature:
				keys = append(keys, KeySignature{Key: e.Key, Tick: e.Tick})
			case EventTimeSignature:
				meters = append(meters, TimeSignature{Numerator: e.Numerator, Denominator: e.Denominator, Tick: e.Tick})
			}
		}
	}
	return keys, meters
}

func loadLyrics(tracks [][]Event) []Lyric {
	var lyrics []Lyric
	for _, track := range tracks {
		for _, e := range track {
			if e.Type == EventLyric {
				lyrics = append(lyrics, Lyric{Text: e.Text, Tick: e.Tick})
			}
		}
	}
	return lyrics
}

func lastTick(tracks [][]Event) int {
	max := 0
	for _, track := range tracks {
		for _, e := range track {
			if e.Tick > max {
				max = e.Tick
			}
		}
	}
	return max
}
