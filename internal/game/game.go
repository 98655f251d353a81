// FILE: internal/game/game.go
package game

import (
	"errors"
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"
)

var ErrGameOver = errors.New("game is over")

type Snapshot struct {
	State         *engine.State `json:"-"`
	Position      string        `json:"position"`
	PreviousMove  string        `json:"previousMove"`
	NextTurnColor core.Color    `json:"nextTurnColor"`
	PlayerID      string        `json:"playerId"` // ID of the player whose turn it is
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        string     `json:"move"`
	Piece       string     `json:"piece"`
	PlayerColor core.Color `json:"playerColor"`
	GameState   core.State `json:"gameState"`
	Captured    string     `json:"captured,omitempty"`
	Check       bool       `json:"check"`
	Castle      bool       `json:"castle,omitempty"`
}

type Game struct {
	snapshots  []Snapshot
	players    map[core.Color]*core.Player
	lastResult *MoveResult
}

// New starts a game from the standard position
func New(whitePlayer, blackPlayer *core.Player, opts ...engine.Option) *Game {
	return FromState(engine.New(opts...), whitePlayer, blackPlayer)
}

// FromState starts a game from an arbitrary engine position
func FromState(initial *engine.State, whitePlayer, blackPlayer *core.Player) *Game {
	g := &Game{
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
	}
	g.addSnapshot(initial.Clone(), "")
	return g
}

func (g *Game) addSnapshot(st *engine.State, move string) {
	next := st.Turn()
	playerID := ""
	if p := g.players[next]; p != nil {
		playerID = p.ID
	}
	g.snapshots = append(g.snapshots, Snapshot{
		State:         st,
		Position:      st.Board().Position(),
		PreviousMove:  move,
		NextTurnColor: next,
		PlayerID:      playerID,
	})
}

// MakeMove plays a coordinate-notation move for the side to move
func (g *Game) MakeMove(move string) (*MoveResult, error) {
	cur := g.snapshots[len(g.snapshots)-1].State
	if cur.Status().IsOver() {
		return nil, ErrGameOver
	}

	next := cur.Clone()
	mover := next.Turn()
	if err := next.Play(move); err != nil {
		return nil, err
	}
	rec, _ := next.LastMove()
	g.addSnapshot(next, rec.Notation())

	g.lastResult = &MoveResult{
		Move:        rec.Notation(),
		Piece:       rec.Piece,
		PlayerColor: mover,
		GameState:   next.Status(),
		Captured:    rec.Captured,
		Check:       next.Check() != core.ColorNone,
		Castle:      rec.Castle,
	}
	return g.lastResult, nil
}

// Replay plays a recorded sequence of moves, stopping at the first failure.
// after, when non-nil, runs once each move is on the board with its
// 1-based number; an error from it stops the replay.
func (g *Game) Replay(moves []string, after func(n int) error) error {
	for i, mv := range moves {
		if _, err := g.MakeMove(mv); err != nil {
			return fmt.Errorf("replay move %d (%s): %w", i+1, mv, err)
		}
		if after == nil {
			continue
		}
		if err := after(i + 1); err != nil {
			return fmt.Errorf("replay move %d (%s): %w", i+1, mv, err)
		}
	}
	return nil
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// CurrentSnapshot returns the latest game snapshot
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// Current returns a copy of the current engine state
func (g *Game) Current() *engine.State {
	return g.CurrentSnapshot().State.Clone()
}

func (g *Game) Board() *board.Board {
	return g.CurrentSnapshot().State.Board()
}

// LegalMoves returns the legal destinations of the piece on a square
func (g *Game) LegalMoves(sq board.Square) (board.Piece, []board.Square, error) {
	st := g.CurrentSnapshot().State
	id, moves, err := st.LegalMovesAt(sq)
	if err != nil || id == board.NoPiece {
		return board.Piece{}, nil, err
	}
	p, _ := st.Piece(id)
	return p, moves.Destinations(), nil
}

func (g *Game) NextTurnColor() core.Color {
	return g.CurrentSnapshot().NextTurnColor
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurnColor()]
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	return g.players[color]
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.lastResult = nil
	return nil
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		moves = append(moves, g.snapshots[i].PreviousMove)
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

// State is derived from the current position
func (g *Game) State() core.State {
	return g.CurrentSnapshot().State.Status()
}

// Check returns the color in check at the current position
func (g *Game) Check() core.Color {
	return g.CurrentSnapshot().State.Check()
}
