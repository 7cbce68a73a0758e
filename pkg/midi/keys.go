package midi

// keyNames is the fixed key-number table: twelve major keys in chromatic
// order, then twelve minor keys suffixed "m".
var keyNames = [24]string{
	"C", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B",
	"Cm", "C#m", "Dm", "D#m", "Em", "Fm", "F#m", "Gm", "G#m", "Am",
	"Bbm", "Bm",
}

// keySharps holds the sharps-or-flats count written to the key signature
// meta event for each key number (negative means flats).
var keySharps = [24]int8{
	0, -5, 2, -3, 4, -1, 6, 1, -4, 3, -2, 5,
	-3, 4, -1, 6, 1, -4, 3, -2, 5, 0, -5, 2,
}

// KeyName returns the name for a key number, or "" if out of range.
func KeyName(key int) string {
	if key < 0 || key >= len(keyNames) {
		return ""
	}
	return keyNames[key]
}

// keySignatureBytes returns the (sharps/flats, mode) pair encoded in the
// key signature meta event for the given key number.
func keySignatureBytes(key int) (sf int8, minor uint8) {
	if key < 0 || key >= len(keySharps) {
		return 0, 0
	}
	if key >= 12 {
		minor = 1
	}
	return keySharps[key], minor
}

// keyNumber maps a decoded (sharps/flats, mode) pair back onto the key
// number table. The tonic follows the circle of fifths; minor keys sit
// three semitones below their relative major.
func keyNumber(sf int8, minor uint8) int {
	tonic := int(sf) * 7
	if minor != 0 {
		tonic += 9
	}
	tonic %= 12
	if tonic < 0 {
		tonic += 12
	}
	if minor != 0 {
		return 12 + tonic
	}
	return tonic
}
