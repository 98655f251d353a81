// FILE: internal/engine/execute.go
package engine

import (
	"errors"
	"fmt"
	"maps"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Execute plays a legal move for the side to move. promo names the piece a
// pawn becomes on the last rank; board.NoKind means queen unless the state
// requires an explicit choice. Nothing is mutated when an error is returned.
func (s *State) Execute(id board.PieceID, to board.Square, promo board.Kind) error {
	p := s.board.Piece(id)
	if p == nil {
		return &MoveError{To: to, Err: ErrIllegalMove}
	}
	from := p.Square
	fail := func(err error) error {
		return &MoveError{Piece: p.Name, From: from, To: to, Err: err}
	}

	if !to.InBounds() {
		return fail(ErrOutOfBounds)
	}
	if p.Captured || p.Color != s.turn {
		return fail(ErrIllegalMove)
	}
	captured, ok := s.legal[id][to]
	if !ok {
		return fail(ErrIllegalMove)
	}

	if p.Kind == board.Pawn && to.Row == board.LastRow(p.Color) {
		switch {
		case promo == board.NoKind && s.opts.requirePromotion:
			return fail(ErrPromotionRequired)
		case promo == board.NoKind:
			promo = board.Queen
		case !promo.IsPromotionTarget():
			return fail(ErrInvalidPromotion)
		}
	} else if promo != board.NoKind {
		return fail(ErrInvalidPromotion)
	}

	s.apply(id, to, captured, promo)
	s.turn = s.turn.Opposite()
	s.refresh()
	return nil
}

// apply performs the board changes of a move already known to be legal
func (s *State) apply(id board.PieceID, to board.Square, captured board.PieceID, promo board.Kind) {
	b := s.board
	p := b.Piece(id)
	from := p.Square
	rec := Record{Piece: p.Name, From: from, To: to}

	if captured != board.NoPiece {
		rec.Captured = b.Piece(captured).Name
		b.Remove(captured)
	}

	b.Relocate(id, to)
	switch p.Kind {
	case board.Pawn:
		p.EnPassant = to.Row-from.Row == 2 || from.Row-to.Row == 2
	case board.King, board.Rook:
		p.CanCastle = false
	}
	b.SetLastMoved(id)

	if board.IsCastle(p, from, to) {
		rookFrom, rookTo := board.CastleRook(to)
		if rook := b.At(rookFrom); rook != board.NoPiece {
			b.Relocate(rook, rookTo)
			b.Piece(rook).CanCastle = false
		}
		rec.Castle = true
	}

	if p.Kind == board.Pawn && to.Row == board.LastRow(p.Color) {
		color := p.Color
		b.Remove(id)
		key := counterKey{color, promo}
		s.counters[key]++
		// Add may grow the arena, so p is not used past this point
		nid, err := b.Add(promo, color, to, board.PieceName(promo, color, s.counters[key]))
		if err != nil {
			// to was vacated by the pawn above
			panic(fmt.Sprintf("engine: promotion on %s: %v", to, err))
		}
		b.SetLastMoved(nid)
		rec.Promotion = promo
	}

	s.last = &rec
}

// refresh rebuilds the legal-move table and the check, mate and stalemate
// flags for the side to move.
func (s *State) refresh() {
	b := s.board
	candidates := make(map[board.PieceID]board.Moves)
	s.checked = make(map[core.Color]bool, 2)

	for _, id := range b.Live() {
		moves := board.Candidates(b, id)
		candidates[id] = moves
		for _, victim := range moves {
			if victim == board.NoPiece {
				continue
			}
			if v := b.Piece(victim); v.Kind == board.King {
				s.checked[v.Color] = true
			}
		}
	}

	s.legal = make(map[board.PieceID]board.Moves)
	for id, moves := range candidates {
		if b.Piece(id).Color != s.turn {
			continue
		}
		if s.lookahead {
			s.filter(id, moves)
		}
		s.legal[id] = moves
	}

	if !s.lookahead {
		s.checkmate, s.stalemate = false, false
		return
	}
	noMoves := s.MoveCount() == 0
	s.checkmate = noMoves && s.checked[s.turn]
	s.stalemate = noMoves && !s.checked[s.turn]
}

// filter drops candidates that would leave the mover's king capturable,
// then castling hops that start in check or cross an unsafe square.
func (s *State) filter(id board.PieceID, moves board.Moves) {
	mover := s.board.Piece(id)
	color := mover.Color

	for to, captured := range moves {
		next := s.scratch()
		promo := board.NoKind
		if mover.Kind == board.Pawn && to.Row == board.LastRow(color) {
			promo = board.Queen
		}
		next.apply(id, to, captured, promo)
		next.turn = color.Opposite()
		next.refresh()
		if next.checked[color] {
			delete(moves, to)
		}
	}

	if mover.Kind != board.King {
		return
	}
	from := mover.Square
	for to := range moves {
		if !board.IsCastle(mover, from, to) {
			continue
		}
		if _, ok := moves[board.PassedSquare(from, to)]; !ok || s.checked[color] {
			delete(moves, to)
		}
	}
}

// scratch is a copy used to test one candidate; it never filters in turn
func (s *State) scratch() *State {
	return &State{
		board:     s.board.Clone(),
		turn:      s.turn,
		lookahead: false,
		counters:  maps.Clone(s.counters),
		opts:      s.opts,
	}
}

// Play executes a move given in coordinate notation such as "e2e4" or "e7e8n"
func (s *State) Play(move string) error {
	from, to, promo, err := board.ParseMove(move)
	if err != nil {
		cause := ErrIllegalMove
		switch {
		case errors.Is(err, board.ErrSquareRange):
			cause = ErrOutOfBounds
		case errors.Is(err, board.ErrPromotionPiece):
			cause = ErrInvalidPromotion
		}
		return fmt.Errorf("%w: %v", cause, err)
	}
	id := s.board.At(from)
	if id == board.NoPiece {
		return &MoveError{From: from, To: to, Err: ErrIllegalMove}
	}
	return s.Execute(id, to, promo)
}
