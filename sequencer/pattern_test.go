package sequencer

import "testing"

func TestTablesWellFormed(t *testing.T) {
	for _, tc := range []struct {
		name  string
		table *Table
	}{
		{"drum", DrumTable()},
		{"bass", BassTable()},
	} {
		if tc.table.Len() != 7 {
			t.Errorf("%s table has %d patterns, want 7", tc.name, tc.table.Len())
		}
		for i := 0; i < tc.table.Len(); i++ {
			p := tc.table.Pattern(i)
			if len(p) != StepsPerPattern {
				t.Errorf("%s pattern %d has %d steps, want %d", tc.name, i, len(p), StepsPerPattern)
			}
			for s, sv := range p {
				if sv.Count < 0 || sv.Count > 2 {
					t.Errorf("%s pattern %d step %d has count %d", tc.name, i, s, sv.Count)
				}
			}
		}
	}
}

func TestTableModuloLookup(t *testing.T) {
	tab := DrumTable()
	if got, want := tab.Pattern(999), tab.Pattern(999%7); &got[0] != &want[0] {
		t.Errorf("out-of-range index did not wrap to pattern %d", 999%7)
	}
	if got, want := tab.Pattern(-1), tab.Pattern(6); &got[0] != &want[0] {
		t.Error("negative index did not wrap to last pattern")
	}
}

func TestPatternStepWraps(t *testing.T) {
	p := Pattern{Note(0), Rest(), Note(1)}
	if got := p.Step(3); got != Note(0) {
		t.Errorf("Step(3) = %v, want wrap to first step", got)
	}
	if got := p.Step(-1); got != Note(1) {
		t.Errorf("Step(-1) = %v, want wrap to last step", got)
	}
}

func TestPitchMappingTotal(t *testing.T) {
	// Any integer resolves to a pitch for either instrument.
	for _, idx := range []int{0, 1, 5, 9, 10, 99, -3} {
		if p := Drum.Pitch(idx); p == 0 {
			t.Errorf("Drum.Pitch(%d) = 0", idx)
		}
		if p := Bass.Pitch(idx); p < bassRoot {
			t.Errorf("Bass.Pitch(%d) = %d, below root", idx, Bass.Pitch(idx))
		}
	}
	if Drum.Pitch(0) != 36 {
		t.Errorf("Drum.Pitch(0) = %d, want kick (36)", Drum.Pitch(0))
	}
	if Bass.Pitch(0) != bassRoot {
		t.Errorf("Bass.Pitch(0) = %d, want root (%d)", Bass.Pitch(0), bassRoot)
	}
	if Bass.Pitch(5) != bassRoot+12 {
		t.Errorf("Bass.Pitch(5) = %d, want root an octave up", Bass.Pitch(5))
	}
}

func TestStepValuePitches(t *testing.T) {
	if got := Rest().Pitches(Drum); got != nil {
		t.Errorf("rest resolved to %v", got)
	}
	got := Chord(slotKick, slotClosedHat).Pitches(Drum)
	if len(got) != 2 || got[0] != 36 || got[1] != 42 {
		t.Errorf("kick+hat resolved to %v, want [36 42] in insertion order", got)
	}
}

func TestHitVariants(t *testing.T) {
	cases := []struct {
		sv   StepValue
		want HitKind
	}{
		{Rest(), HitNone},
		{Note(slotKick), HitKick},
		{Note(slotSnare), HitSnare},
		{Note(slotClosedHat), HitHat},
		{Note(slotOpenHat), HitHat},
		{Note(slotClap), HitAccent},
		{Chord(slotKick, slotClosedHat), HitCombo},
	}
	for _, c := range cases {
		if got := c.sv.Hit(); got != c.want {
			t.Errorf("Hit(%v) = %v, want %v", c.sv, got, c.want)
		}
	}
}
