// Package engine holds the authoritative state of one chess game: whose turn
// it is, which moves are legal, and whether a king is in check, mated or
// stalemated. Every executed move rebuilds the legal-move table from scratch.
package engine

import (
	"fmt"
	"maps"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Option configures a State
type Option func(*options)

type options struct {
	requirePromotion bool
}

// RequirePromotionChoice rejects promoting moves that do not name the new
// piece with ErrPromotionRequired instead of promoting to a queen.
func RequirePromotionChoice() Option {
	return func(o *options) {
		o.requirePromotion = true
	}
}

type counterKey struct {
	color core.Color
	kind  board.Kind
}

// Record describes the most recently executed move
type Record struct {
	Piece     string
	From      board.Square
	To        board.Square
	Captured  string
	Promotion board.Kind
	Castle    bool
}

// Notation returns the move in coordinate form, e.g. "e7e8q"
func (r Record) Notation() string {
	return board.FormatMove(r.From, r.To, r.Promotion)
}

// State is a game position with its derived legality data.
// A State is not safe for concurrent use.
type State struct {
	board *board.Board
	turn  core.Color

	// legal holds moves of the side to move only
	legal map[board.PieceID]board.Moves

	checked   map[core.Color]bool
	checkmate bool
	stalemate bool

	// lookahead is off on the scratch copies used to test a candidate
	lookahead bool

	counters map[counterKey]int
	last     *Record
	opts     options
}

// New returns the standard starting position with white to move
func New(opts ...Option) *State {
	s, _ := FromBoard(board.Standard(), core.ColorWhite, opts...)
	return s
}

// FromBoard starts a game from an arbitrary position. The board is cloned.
func FromBoard(b *board.Board, turn core.Color, opts ...Option) (*State, error) {
	if turn != core.ColorWhite && turn != core.ColorBlack {
		return nil, fmt.Errorf("invalid side to move %q", turn)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}

	s := &State{
		board:     b.Clone(),
		turn:      turn,
		lookahead: true,
		counters:  make(map[counterKey]int),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		for _, k := range []board.Kind{board.Queen, board.Rook, board.Bishop, board.Knight} {
			s.counters[counterKey{c, k}] = b.Count(c, k)
		}
	}
	s.refresh()
	return s, nil
}

// Clone returns an independent copy sharing no mutable state
func (s *State) Clone() *State {
	c := *s
	c.board = s.board.Clone()
	c.legal = make(map[board.PieceID]board.Moves, len(s.legal))
	for id, m := range s.legal {
		c.legal[id] = maps.Clone(m)
	}
	c.checked = maps.Clone(s.checked)
	c.counters = maps.Clone(s.counters)
	if s.last != nil {
		rec := *s.last
		c.last = &rec
	}
	return &c
}

func (s *State) Turn() core.Color {
	return s.turn
}

// Board returns a copy of the current board
func (s *State) Board() *board.Board {
	return s.board.Clone()
}

// PieceAt returns a copy of the piece on a square, nil when the square is empty
func (s *State) PieceAt(row, col int) (*board.Piece, error) {
	sq := board.Sq(row, col)
	if !sq.InBounds() {
		return nil, &MoveError{From: sq, To: sq, Err: ErrOutOfBounds}
	}
	p := s.board.PieceAt(sq)
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Piece returns a copy of an arena entry
func (s *State) Piece(id board.PieceID) (board.Piece, bool) {
	p := s.board.Piece(id)
	if p == nil {
		return board.Piece{}, false
	}
	return *p, true
}

// FindPiece resolves a live piece by name, e.g. "WP5"
func (s *State) FindPiece(name string) (board.PieceID, bool) {
	return s.board.FindByName(name)
}

// LegalMoves returns the legal destinations of one piece. Pieces of the side
// not to move have none.
func (s *State) LegalMoves(id board.PieceID) board.Moves {
	if m, ok := s.legal[id]; ok {
		return maps.Clone(m)
	}
	return board.Moves{}
}

// LegalMovesAt is LegalMoves for the piece standing on a square
func (s *State) LegalMovesAt(sq board.Square) (board.PieceID, board.Moves, error) {
	if !sq.InBounds() {
		return board.NoPiece, nil, &MoveError{From: sq, To: sq, Err: ErrOutOfBounds}
	}
	id := s.board.At(sq)
	if id == board.NoPiece {
		return board.NoPiece, board.Moves{}, nil
	}
	return id, s.LegalMoves(id), nil
}

// AllLegalMoves returns the full table for the side to move
func (s *State) AllLegalMoves() map[board.PieceID]board.Moves {
	out := make(map[board.PieceID]board.Moves, len(s.legal))
	for id, m := range s.legal {
		if len(m) > 0 {
			out[id] = maps.Clone(m)
		}
	}
	return out
}

// MoveCount is the number of legal moves available to the side to move
func (s *State) MoveCount() int {
	n := 0
	for _, m := range s.legal {
		n += len(m)
	}
	return n
}

// Check returns the color whose king is attacked, ColorNone if neither.
// The side to move takes precedence.
func (s *State) Check() core.Color {
	switch {
	case s.checked[s.turn]:
		return s.turn
	case s.checked[s.turn.Opposite()]:
		return s.turn.Opposite()
	default:
		return core.ColorNone
	}
}

func (s *State) Checkmate() bool {
	return s.checkmate
}

func (s *State) Stalemate() bool {
	return s.stalemate
}

// Status maps the position onto the game-level outcome
func (s *State) Status() core.State {
	switch {
	case s.checkmate:
		return core.WinnerState(s.turn.Opposite())
	case s.stalemate:
		return core.StateStalemate
	default:
		return core.StateOngoing
	}
}

// LastMove returns the most recent move, false before any move
func (s *State) LastMove() (Record, bool) {
	if s.last == nil {
		return Record{}, false
	}
	return *s.last, true
}
