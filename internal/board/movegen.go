// FILE: internal/board/movegen.go
package board

import (
	"slices"

	"chessrules/internal/core"
)

// Moves maps each candidate destination to the piece it captures, NoPiece for a quiet move.
// For en passant the captured pawn is not on the destination square.
type Moves map[Square]PieceID

// Destinations returns the keys in row-major order
func (m Moves) Destinations() []Square {
	out := make([]Square, 0, len(m))
	for sq := range m {
		out = append(out, sq)
	}
	slices.SortFunc(out, func(a, b Square) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})
	return out
}

// Captures reports whether any destination takes the given piece
func (m Moves) Captures(id PieceID) bool {
	for _, captured := range m {
		if captured == id {
			return true
		}
	}
	return false
}

type direction struct{ dr, dc int }

var (
	rookDirs   = []direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)

	knightJumps = []direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingSteps   = queenDirs
)

// Candidates returns pseudo-legal destinations for a live piece: everything
// its movement rules allow, ignoring whether its own king ends up attacked.
func Candidates(b *Board, id PieceID) Moves {
	moves := make(Moves)
	p := b.Piece(id)
	if p == nil || p.Captured {
		return moves
	}

	switch p.Kind {
	case Pawn:
		pawnMoves(b, p, moves)
	case Knight:
		stepMoves(b, p, knightJumps, moves)
	case Bishop:
		slideMoves(b, p, bishopDirs, moves)
	case Rook:
		slideMoves(b, p, rookDirs, moves)
	case Queen:
		slideMoves(b, p, queenDirs, moves)
	case King:
		stepMoves(b, p, kingSteps, moves)
		castleMoves(b, p, moves)
	}
	return moves
}

// target classifies a destination: ok is false when off-board or own piece
func target(b *Board, p *Piece, sq Square) (captured PieceID, ok bool) {
	if !sq.InBounds() {
		return NoPiece, false
	}
	id := b.cells[sq.Row][sq.Col]
	if id == NoPiece {
		return NoPiece, true
	}
	if b.pieces[id].Color == p.Color {
		return NoPiece, false
	}
	return id, true
}

func slideMoves(b *Board, p *Piece, dirs []direction, moves Moves) {
	for _, d := range dirs {
		for sq := p.Square.Offset(d.dr, d.dc); ; sq = sq.Offset(d.dr, d.dc) {
			captured, ok := target(b, p, sq)
			if !ok {
				break
			}
			moves[sq] = captured
			if captured != NoPiece {
				break
			}
		}
	}
}

func stepMoves(b *Board, p *Piece, dirs []direction, moves Moves) {
	for _, d := range dirs {
		sq := p.Square.Offset(d.dr, d.dc)
		if captured, ok := target(b, p, sq); ok {
			moves[sq] = captured
		}
	}
}

func pawnMoves(b *Board, p *Piece, moves Moves) {
	fwd := forward(p.Color)

	one := p.Square.Offset(fwd, 0)
	if b.Empty(one) {
		moves[one] = NoPiece
		two := one.Offset(fwd, 0)
		if p.Square.Row == pawnRow(p.Color) && b.Empty(two) {
			moves[two] = NoPiece
		}
	}

	for _, dc := range []int{-1, 1} {
		diag := p.Square.Offset(fwd, dc)
		if !diag.InBounds() {
			continue
		}
		if id := b.At(diag); id != NoPiece {
			if b.pieces[id].Color != p.Color {
				moves[diag] = id
			}
			continue
		}
		if side := b.PieceAt(p.Square.Offset(0, dc)); side != nil && b.enPassantTarget(side, p.Color) {
			moves[diag] = side.ID
		}
	}
}

// enPassantTarget reports whether a neighbour may be taken en passant by the given color
func (b *Board) enPassantTarget(side *Piece, by core.Color) bool {
	return side.Kind == Pawn && side.Color != by && side.EnPassant && side.ID == b.lastMoved
}

func castleMoves(b *Board, k *Piece, moves Moves) {
	home := homeRow(k.Color)
	if !k.CanCastle || k.Square != Sq(home, 4) {
		return
	}
	// Kingside: rook on col 7, cols 5 and 6 empty. Queenside: rook on col 0, cols 1-3 empty.
	sides := []struct {
		rookCol int
		between []int
		dest    int
	}{
		{Size - 1, []int{5, 6}, 6},
		{0, []int{1, 2, 3}, 2},
	}
	for _, side := range sides {
		rook := b.PieceAt(Sq(home, side.rookCol))
		if rook == nil || rook.Kind != Rook || rook.Color != k.Color || !rook.CanCastle {
			continue
		}
		clear := true
		for _, c := range side.between {
			if !b.Empty(Sq(home, c)) {
				clear = false
				break
			}
		}
		if clear {
			moves[Sq(home, side.dest)] = NoPiece
		}
	}
}

// CastleRook returns the rook square and its post-castle square for a king landing on dest
func CastleRook(dest Square) (from, to Square) {
	if dest.Col == 6 {
		return Sq(dest.Row, Size-1), Sq(dest.Row, 5)
	}
	return Sq(dest.Row, 0), Sq(dest.Row, 3)
}

// PassedSquare is the square a castling king crosses on its way to dest
func PassedSquare(from, dest Square) Square {
	if dest.Col > from.Col {
		return from.Offset(0, 1)
	}
	return from.Offset(0, -1)
}

// IsCastle reports whether a king move from -> to is a castling hop
func IsCastle(p *Piece, from, to Square) bool {
	if p.Kind != King || from.Row != to.Row {
		return false
	}
	dc := to.Col - from.Col
	return dc == 2 || dc == -2
}
