package view

import "fmt"

// Mode selects how the list is browsed.
type Mode int

const (
	// ModePageControls shows one page at a time with numbered page controls.
	ModePageControls Mode = iota

	// ModeInfiniteScroll accumulates pages behind a load-more action.
	ModeInfiniteScroll
)

// String returns the mode name used in flags and logs.
func (m Mode) String() string {
	switch m {
	case ModePageControls:
		return "pagination"
	case ModeInfiniteScroll:
		return "load-more"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeInfiniteScroll {
		return ModePageControls
	}
	return ModeInfiniteScroll
}

// ParseMode parses a mode name as printed by String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "pagination", "pages":
		return ModePageControls, nil
	case "load-more", "infinite":
		return ModeInfiniteScroll, nil
	default:
		return ModePageControls, fmt.Errorf("unknown mode %q", s)
	}
}
