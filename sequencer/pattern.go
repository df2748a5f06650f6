package sequencer

// Instrument identifies one of the two voices
type Instrument int

const (
	Drum Instrument = iota
	Bass
	NumInstruments
)

func (i Instrument) String() string {
	switch i {
	case Drum:
		return "drum"
	case Bass:
		return "bass"
	}
	return "unknown"
}

// StepsPerPattern is the fixed pattern length (one bar of 16th notes)
const StepsPerPattern = 16

// StepValue is the content of one step: a rest, one note, or two notes.
// Note values are indices into the instrument's pitch mapping, not MIDI
// pitches.
type StepValue struct {
	Notes [2]int
	Count int // 0, 1, or 2
}

func Rest() StepValue {
	return StepValue{}
}

func Note(n int) StepValue {
	return StepValue{Notes: [2]int{n, 0}, Count: 1}
}

func Chord(a, b int) StepValue {
	return StepValue{Notes: [2]int{a, b}, Count: 2}
}

// Pitches resolves the step's note indices to MIDI pitches for the given
// instrument, in insertion order.
func (sv StepValue) Pitches(inst Instrument) []uint8 {
	if sv.Count == 0 {
		return nil
	}
	pitches := make([]uint8, 0, 2)
	for i := 0; i < sv.Count; i++ {
		pitches = append(pitches, inst.Pitch(sv.Notes[i]))
	}
	return pitches
}

// Pattern is a fixed-length sequence of step values
type Pattern []StepValue

// Step returns the value at idx, wrapping past the pattern length
func (p Pattern) Step(idx int) StepValue {
	if len(p) == 0 {
		return Rest()
	}
	return p[floorMod(idx, len(p))]
}

// Table is the read-only pattern store for one instrument class. Built once
// at startup, never mutated afterwards.
type Table struct {
	patterns []Pattern
}

func (t *Table) Len() int {
	return len(t.patterns)
}

// Pattern returns the pattern at idx. Out-of-range indices wrap via modulo;
// the sequencer always resolves to some pattern rather than failing.
func (t *Table) Pattern(idx int) Pattern {
	return t.patterns[floorMod(idx, len(t.patterns))]
}

func floorMod(a, n int) int {
	return ((a % n) + n) % n
}

// Drum slot indices (arguments to Note/Chord in the drum table)
const (
	slotKick = iota
	slotSnare
	slotClosedHat
	slotOpenHat
	slotClap
	slotCrash
)

// GM percussion pitches for the drum slots
var drumPitches = [...]uint8{
	36, // kick
	38, // snare
	42, // closed hi-hat
	46, // open hi-hat
	39, // clap
	49, // crash
}

// Minor pentatonic offsets for the bass voice, rooted at C2
const bassRoot = 36

var bassScale = [...]uint8{0, 3, 5, 7, 10}

// Pitch maps a note index to a MIDI pitch. Pure and total: any integer
// resolves to a pitch for either instrument.
func (i Instrument) Pitch(idx int) uint8 {
	switch i {
	case Drum:
		return drumPitches[floorMod(idx, len(drumPitches))]
	case Bass:
		octave := floorMod(idx, 2*len(bassScale)) / len(bassScale)
		return bassRoot + bassScale[floorMod(idx, len(bassScale))] + uint8(12*octave)
	}
	return 0
}

// HitKind is the drum animation variant a step value maps to
type HitKind int

const (
	HitNone HitKind = iota
	HitKick
	HitSnare
	HitHat
	HitAccent
	HitCombo // two sounds struck together
)

// Hit maps a drum step value to its animation variant
func (sv StepValue) Hit() HitKind {
	if sv.Count == 0 {
		return HitNone
	}
	if sv.Count == 2 {
		return HitCombo
	}
	switch floorMod(sv.Notes[0], len(drumPitches)) {
	case slotKick:
		return HitKick
	case slotSnare:
		return HitSnare
	case slotClosedHat, slotOpenHat:
		return HitHat
	}
	return HitAccent
}

// DrumTable returns the built-in percussive pattern store
func DrumTable() *Table {
	o := Rest()
	k := Note(slotKick)
	s := Note(slotSnare)
	h := Note(slotClosedHat)
	oh := Note(slotOpenHat)
	c := Note(slotClap)
	kh := Chord(slotKick, slotClosedHat)
	sh := Chord(slotSnare, slotClosedHat)
	kc := Chord(slotKick, slotCrash)

	return &Table{patterns: []Pattern{
		// four on the floor
		{kh, o, h, o, kh, o, h, o, kh, o, h, o, kh, o, h, o},
		// backbeat
		{k, o, h, o, sh, o, h, o, k, o, kh, o, sh, o, h, o},
		// offbeat open hats
		{k, o, oh, o, k, o, oh, o, k, o, oh, o, k, o, oh, o},
		// boom bap
		{k, o, h, k, s, o, h, o, o, k, h, o, s, o, h, oh},
		// half time
		{k, o, h, o, h, o, h, o, sh, o, h, o, h, o, h, h},
		// clap pattern
		{k, o, o, c, k, o, c, o, k, o, o, c, k, o, c, c},
		// crash fill
		{kc, o, h, o, s, s, h, o, kc, o, h, o, s, s, s, s},
	}}
}

// BassTable returns the built-in melodic pattern store
func BassTable() *Table {
	o := Rest()
	n := Note
	oct := func(a int) StepValue { return Chord(a, a+5) } // root plus octave

	return &Table{patterns: []Pattern{
		// root eighths
		{n(0), o, n(0), o, n(0), o, n(0), o, n(0), o, n(0), o, n(0), o, n(0), o},
		// climbing
		{n(0), o, n(1), o, n(2), o, n(3), o, n(4), o, n(3), o, n(2), o, n(1), o},
		// root and fifth
		{n(0), o, o, n(3), o, o, n(0), o, n(3), o, o, n(0), o, o, n(3), o},
		// octave bounce
		{n(0), n(5), n(0), n(5), n(0), n(5), n(0), n(5), n(1), n(6), n(1), n(6), n(0), n(5), n(0), n(5)},
		// syncopated
		{n(0), o, o, n(0), o, n(2), o, o, n(3), o, o, n(2), o, n(0), o, o},
		// walking
		{n(0), o, n(2), o, n(3), o, n(4), o, n(5), o, n(4), o, n(3), o, n(2), o},
		// stabs
		{oct(0), o, o, o, oct(0), o, o, o, oct(3), o, o, o, oct(2), o, oct(0), o},
	}}
}
