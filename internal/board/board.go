// FILE: internal/board/board.go
package board

import (
	"fmt"
	"strings"

	"chessrules/internal/core"
)

// Board owns every piece in a flat arena; the grid stores arena indices.
// Copying a Board therefore never aliases piece state.
type Board struct {
	cells  [Size][Size]PieceID
	pieces []Piece

	// lastMoved is the piece that made the most recent move. A pawn's
	// en passant flag only counts while it is still the last mover.
	lastMoved PieceID
}

// New returns an empty board
func New() *Board {
	b := &Board{pieces: make([]Piece, 0, 32), lastMoved: NoPiece}
	for r := range b.cells {
		for c := range b.cells[r] {
			b.cells[r][c] = NoPiece
		}
	}
	return b
}

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Standard returns the initial chess position
func Standard() *Board {
	b := New()
	for _, color := range []core.Color{core.ColorBlack, core.ColorWhite} {
		prefix := colorPrefix(color)
		home := homeRow(color)
		for col, kind := range backRank {
			p := Piece{
				Name:      prefix + string(kind.Letter()) + standardIndex(kind, color, col),
				Kind:      kind,
				Color:     color,
				Square:    Sq(home, col),
				CanCastle: kind == King || kind == Rook,
			}
			b.add(p)
		}
		for col := 0; col < Size; col++ {
			// Pawns count from each player's own left
			n := col + 1
			if color == core.ColorBlack {
				n = Size - col
			}
			b.add(Piece{
				Name:   fmt.Sprintf("%sP%d", prefix, n),
				Kind:   Pawn,
				Color:  color,
				Square: Sq(pawnRow(color), col),
			})
		}
	}
	return b
}

func standardIndex(kind Kind, color core.Color, col int) string {
	switch kind {
	case King:
		return ""
	case Queen:
		return "1"
	}
	left := col < Size/2
	if color == core.ColorBlack {
		left = !left
	}
	if left {
		return "1"
	}
	return "2"
}

func colorPrefix(c core.Color) string {
	if c == core.ColorWhite {
		return "W"
	}
	return "B"
}

// PieceName builds the display name of the n-th piece of a kind
func PieceName(kind Kind, color core.Color, n int) string {
	if kind == King {
		return colorPrefix(color) + "K"
	}
	return fmt.Sprintf("%s%c%d", colorPrefix(color), kind.Letter(), n)
}

// Clone returns a fully independent copy
func (b *Board) Clone() *Board {
	nb := &Board{cells: b.cells, pieces: make([]Piece, len(b.pieces), cap(b.pieces)), lastMoved: b.lastMoved}
	copy(nb.pieces, b.pieces)
	return nb
}

func (b *Board) add(p Piece) PieceID {
	p.ID = PieceID(len(b.pieces))
	b.pieces = append(b.pieces, p)
	b.cells[p.Square.Row][p.Square.Col] = p.ID
	return p.ID
}

// Add places a new piece with an explicit name on an empty square
func (b *Board) Add(kind Kind, color core.Color, sq Square, name string) (PieceID, error) {
	if !sq.InBounds() {
		return NoPiece, fmt.Errorf("square %s out of bounds", sq)
	}
	if kind == NoKind {
		return NoPiece, fmt.Errorf("no piece kind given for %s", sq)
	}
	if color != core.ColorWhite && color != core.ColorBlack {
		return NoPiece, fmt.Errorf("invalid color for %s", sq)
	}
	if id := b.cells[sq.Row][sq.Col]; id != NoPiece {
		return NoPiece, fmt.Errorf("square %s already holds %s", sq, b.pieces[id].Name)
	}
	return b.add(Piece{Name: name, Kind: kind, Color: color, Square: sq}), nil
}

// Put is Add with a generated name and castling rights inferred from
// the piece standing on its original square
func (b *Board) Put(kind Kind, color core.Color, sq Square) (PieceID, error) {
	id, err := b.Add(kind, color, sq, PieceName(kind, color, b.Count(color, kind)+1))
	if err != nil {
		return NoPiece, err
	}
	p := &b.pieces[id]
	if sq.Row == homeRow(color) {
		switch {
		case kind == King && sq.Col == 4:
			p.CanCastle = true
		case kind == Rook && (sq.Col == 0 || sq.Col == Size-1):
			p.CanCastle = true
		}
	}
	return id, nil
}

// Count returns how many pieces of a kind a color has ever had, captured included
func (b *Board) Count(color core.Color, kind Kind) int {
	n := 0
	for i := range b.pieces {
		if b.pieces[i].Color == color && b.pieces[i].Kind == kind {
			n++
		}
	}
	return n
}

// At returns the id on a square, NoPiece when empty or off-board
func (b *Board) At(sq Square) PieceID {
	if !sq.InBounds() {
		return NoPiece
	}
	return b.cells[sq.Row][sq.Col]
}

// Empty reports whether an on-board square is unoccupied
func (b *Board) Empty(sq Square) bool {
	return sq.InBounds() && b.cells[sq.Row][sq.Col] == NoPiece
}

// PieceAt returns the piece on a square or nil
func (b *Board) PieceAt(sq Square) *Piece {
	id := b.At(sq)
	if id == NoPiece {
		return nil
	}
	return &b.pieces[id]
}

// Piece returns an arena entry or nil for an unknown id
func (b *Board) Piece(id PieceID) *Piece {
	if id < 0 || int(id) >= len(b.pieces) {
		return nil
	}
	return &b.pieces[id]
}

// Live returns ids of pieces still on the board, in arena order
func (b *Board) Live() []PieceID {
	ids := make([]PieceID, 0, len(b.pieces))
	for i := range b.pieces {
		if !b.pieces[i].Captured {
			ids = append(ids, b.pieces[i].ID)
		}
	}
	return ids
}

// FindByName looks up a live piece by its display name
func (b *Board) FindByName(name string) (PieceID, bool) {
	for i := range b.pieces {
		if !b.pieces[i].Captured && strings.EqualFold(b.pieces[i].Name, name) {
			return b.pieces[i].ID, true
		}
	}
	return NoPiece, false
}

// King returns the live king of a color
func (b *Board) King(color core.Color) PieceID {
	for i := range b.pieces {
		p := &b.pieces[i]
		if p.Kind == King && p.Color == color && !p.Captured {
			return p.ID
		}
	}
	return NoPiece
}

// Relocate moves a piece to an empty square without touching its flags
func (b *Board) Relocate(id PieceID, to Square) {
	p := &b.pieces[id]
	b.cells[p.Square.Row][p.Square.Col] = NoPiece
	p.Square = to
	b.cells[to.Row][to.Col] = id
}

// LastMoved returns the piece that moved most recently, NoPiece before the first move
func (b *Board) LastMoved() PieceID {
	return b.lastMoved
}

// SetLastMoved records the mover of the latest move
func (b *Board) SetLastMoved(id PieceID) {
	b.lastMoved = id
}

// SetEnPassant marks a pawn as having just advanced two squares.
// Used when setting up positions by hand.
func (b *Board) SetEnPassant(id PieceID) error {
	p := b.Piece(id)
	if p == nil || p.Captured || p.Kind != Pawn {
		return fmt.Errorf("piece %d is not a live pawn", id)
	}
	p.EnPassant = true
	b.lastMoved = id
	return nil
}

// Remove takes a piece off the board
func (b *Board) Remove(id PieceID) {
	p := &b.pieces[id]
	if p.Captured {
		return
	}
	if b.cells[p.Square.Row][p.Square.Col] == id {
		b.cells[p.Square.Row][p.Square.Col] = NoPiece
	}
	p.Captured = true
}

// Validate checks that the grid and the arena agree
func (b *Board) Validate() error {
	seen := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			id := b.cells[r][c]
			if id == NoPiece {
				continue
			}
			p := b.Piece(id)
			if p == nil {
				return fmt.Errorf("cell %s holds unknown id %d", Sq(r, c), id)
			}
			if p.Captured {
				return fmt.Errorf("cell %s holds captured piece %s", Sq(r, c), p.Name)
			}
			if p.Square != Sq(r, c) {
				return fmt.Errorf("piece %s thinks it is on %s but sits on %s", p.Name, p.Square, Sq(r, c))
			}
			seen++
		}
	}
	if live := len(b.Live()); live != seen {
		return fmt.Errorf("%d live pieces but %d occupied cells", live, seen)
	}
	return nil
}

// Position returns the 64 cells row by row, piece letters or '.'
func (b *Board) Position() string {
	var sb strings.Builder
	sb.Grow(Size * Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p := b.PieceAt(Sq(r, c)); p != nil {
				sb.WriteByte(p.Letter())
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", Size-r))
		for c := 0; c < Size; c++ {
			if p := b.PieceAt(Sq(r, c)); p != nil {
				sb.WriteString(fmt.Sprintf("%c ", p.Letter()))
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", Size-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
