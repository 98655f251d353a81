package board

import (
	"errors"
	"fmt"
)

const Size = 8

// ErrSquareRange marks a letter-digit square whose file or rank is off the board
var ErrSquareRange = errors.New("square off the board")

// Square addresses a board cell. Row 0 is black's back rank (rank 8),
// row 7 is white's back rank (rank 1).
type Square struct {
	Row int
	Col int
}

func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

// Offset returns the square shifted by dr rows and dc columns, possibly off-board
func (s Square) Offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// String renders the square in algebraic coordinates, e.g. "e2"
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%c", 'a'+s.Col, '8'-s.Row)
}

// ParseSquare converts "e2" style coordinates
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("invalid square %q: expected 2 characters", s)
	}
	file, rank := s[0], s[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'z' || rank < '0' || rank > '9' {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	if file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrSquareRange, s)
	}
	return Square{Row: int('8' - rank), Col: int(file - 'a')}, nil
}
