package board

import (
	"errors"
	"fmt"

	"chessrules/internal/core"
)

// Kind is the closed set of piece types
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Letter returns the upper-case piece letter
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	default:
		return '?'
	}
}

// IsPromotionTarget reports whether a pawn may become this kind
func (k Kind) IsPromotionTarget() bool {
	return k == Queen || k == Rook || k == Bishop || k == Knight
}

// ErrPromotionPiece marks a suffix that names no promotion target
var ErrPromotionPiece = errors.New("not a promotion piece")

// ParsePromotion reads a promotion suffix (q, r, b, n), either case
func ParsePromotion(c byte) (Kind, error) {
	switch c {
	case 'q', 'Q':
		return Queen, nil
	case 'r', 'R':
		return Rook, nil
	case 'b', 'B':
		return Bishop, nil
	case 'n', 'N':
		return Knight, nil
	default:
		return NoKind, fmt.Errorf("%w: %q", ErrPromotionPiece, c)
	}
}

// PieceID indexes the board's piece arena
type PieceID int16

const NoPiece PieceID = -1

// Piece is one arena entry. Captured pieces stay in the arena so ids are stable.
type Piece struct {
	ID       PieceID
	Name     string
	Kind     Kind
	Color    core.Color
	Square   Square
	Captured bool

	// EnPassant is set on a pawn only right after its two-square advance
	EnPassant bool
	// CanCastle holds for kings and rooks that have not moved yet
	CanCastle bool
}

// Letter returns the piece letter, upper case for white
func (p *Piece) Letter() byte {
	l := p.Kind.Letter()
	if p.Color == core.ColorBlack {
		l += 'a' - 'A'
	}
	return l
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s(%s %s@%s)", p.Name, p.Color.Name(), p.Kind, p.Square)
}

// homeRow is the back rank of the given color
func homeRow(c core.Color) int {
	if c == core.ColorWhite {
		return Size - 1
	}
	return 0
}

// pawnRow is the starting rank of the given color's pawns
func pawnRow(c core.Color) int {
	if c == core.ColorWhite {
		return Size - 2
	}
	return 1
}

// forward is the row delta of a pawn step
func forward(c core.Color) int {
	if c == core.ColorWhite {
		return -1
	}
	return 1
}

// LastRow is the promotion rank for the given color's pawns
func LastRow(c core.Color) int {
	return homeRow(c.Opposite())
}
