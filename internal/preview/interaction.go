package preview

// interactionMode tracks how the active term was chosen.
type interactionMode int

const (
	modeNone interactionMode = iota
	modeHovered
	modePinned
)

// Interaction is the hover/pin state machine for term selection. A pinned
// term takes precedence over hover: hover transitions are ignored while a
// pin is held, and clearing a pin returns to no selection rather than to
// whatever the pointer happens to rest on.
type Interaction struct {
	mode interactionMode
	term string
}

// Active returns the currently selected term, if any.
func (s Interaction) Active() (string, bool) {
	if s.mode == modeNone {
		return "", false
	}
	return s.term, true
}

// Pinned reports whether the selection is pinned.
func (s Interaction) Pinned() bool {
	return s.mode == modePinned
}

// Hover selects term while nothing is pinned.
func (s Interaction) Hover(term string) Interaction {
	if s.mode == modePinned {
		return s
	}
	return Interaction{mode: modeHovered, term: term}
}

// Unhover drops a hover selection; a pin survives.
func (s Interaction) Unhover() Interaction {
	if s.mode == modePinned {
		return s
	}
	return Interaction{}
}

// Click toggles a pin on term. Clicking the pinned term unpins it;
// clicking another term moves the pin.
func (s Interaction) Click(term string) Interaction {
	if s.mode == modePinned && s.term == term {
		return Interaction{}
	}
	return Interaction{mode: modePinned, term: term}
}

// Clear drops any selection, pinned or not.
func (s Interaction) Clear() Interaction {
	return Interaction{}
}
