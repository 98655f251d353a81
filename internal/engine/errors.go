package engine

import (
	"errors"
	"fmt"

	"chessrules/internal/board"
)

var (
	ErrOutOfBounds       = errors.New("square out of bounds")
	ErrIllegalMove       = errors.New("illegal move")
	ErrPromotionRequired = errors.New("promotion piece required")
	ErrInvalidPromotion  = errors.New("invalid promotion piece")
)

// MoveError carries the rejected move alongside the sentinel cause
type MoveError struct {
	Piece string
	From  board.Square
	To    board.Square
	Err   error
}

func (e *MoveError) Error() string {
	if e.Piece == "" {
		return fmt.Sprintf("move %s%s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("move %s %s%s: %v", e.Piece, e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
