// FILE: internal/core/core.go
package core

import "fmt"

type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
	StateStalemate
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateStalemate:
		return "stalemate"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether no further moves may be made
func (s State) IsOver() bool {
	return s == StateWhiteWins || s == StateBlackWins || s == StateStalemate
}

// WinnerState returns the state in which the given color has won
func WinnerState(c Color) State {
	switch c {
	case ColorWhite:
		return StateWhiteWins
	case ColorBlack:
		return StateBlackWins
	default:
		return StateOngoing
	}
}

type Color byte

const (
	ColorNone  Color = 0 // Only used as the "nobody" value, e.g. no side in check
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "w"
	case ColorBlack:
		return "b"
	default:
		return "-"
	}
}

// Name returns the long form used in user-facing messages
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

// Opposite returns the other side, ColorNone stays ColorNone
func (c Color) Opposite() Color {
	switch c {
	case ColorWhite:
		return ColorBlack
	case ColorBlack:
		return ColorWhite
	default:
		return ColorNone
	}
}

// ParseColor accepts "w"/"b" and the long names
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w", "white", "White":
		return ColorWhite, true
	case "b", "black", "Black":
		return ColorBlack, true
	default:
		return ColorNone, false
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	if string(text) == "-" {
		*c = ColorNone
		return nil
	}
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", text)
	}
	*c = parsed
	return nil
}
