package sequencer

// voice is the runtime state of one instrument. The request stack holds the
// pattern indices currently held down, oldest first; the last entry is the
// selected pattern. Duplicates are allowed: two sources holding the same
// pattern each need their own release.
type voice struct {
	stack   []int
	playing bool
	step    int
	active  []uint8 // sounding pitches, insertion order, at most two
}

// press pushes a pattern request. Resets the step phase when this is the
// voice's first held request.
func (v *voice) press(pattern int) {
	if len(v.stack) == 0 {
		v.step = 0
	}
	v.stack = append(v.stack, pattern)
	v.playing = true
}

// release removes the most recent matching request and reports whether one
// was removed. Releasing a pattern that is not held is a no-op; mismatched
// or duplicate release events arrive in practice and must not underflow the
// stack.
func (v *voice) release(pattern int) bool {
	for i := len(v.stack) - 1; i >= 0; i-- {
		if v.stack[i] == pattern {
			v.stack = append(v.stack[:i], v.stack[i+1:]...)
			if len(v.stack) == 0 {
				v.playing = false
			}
			return true
		}
	}
	return false
}

// selected returns the most recently pressed still-held pattern, or -1 when
// nothing is held. Display-facing only; playback reads it at step boundaries.
func (v *voice) selected() int {
	if len(v.stack) == 0 {
		return -1
	}
	return v.stack[len(v.stack)-1]
}
