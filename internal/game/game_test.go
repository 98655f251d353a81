package game

import (
	"errors"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"

	"github.com/google/go-cmp/cmp"
)

func newGame(opts ...engine.Option) *Game {
	return New(
		core.NewPlayer(core.PlayerConfig{}, core.ColorWhite),
		core.NewPlayer(core.PlayerConfig{Name: "bob"}, core.ColorBlack),
		opts...,
	)
}

func TestMakeMove(t *testing.T) {
	g := newGame()

	res, err := g.MakeMove("e2e4")
	if err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	want := &MoveResult{Move: "e2e4", Piece: "WP5", PlayerColor: core.ColorWhite, GameState: core.StateOngoing}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if g.NextTurnColor() != core.ColorBlack || g.NextPlayer().Name != "bob" {
		t.Errorf("next = %v %q; want black bob", g.NextTurnColor(), g.NextPlayer().Name)
	}
	if g.CurrentSnapshot().PlayerID != g.GetPlayer(core.ColorBlack).ID {
		t.Error("snapshot does not point at black's player id")
	}
	if g.LastResult() != res {
		t.Error("LastResult() is not the latest result")
	}
}

func TestMakeMoveRejectsIllegal(t *testing.T) {
	g := newGame()
	if _, err := g.MakeMove("e2e5"); !errors.Is(err, engine.ErrIllegalMove) {
		t.Fatalf("error = %v; want ErrIllegalMove", err)
	}
	if g.MoveCount() != 0 {
		t.Errorf("MoveCount() = %d after a rejected move", g.MoveCount())
	}
}

func TestUndo(t *testing.T) {
	g := newGame()
	if err := g.Replay([]string{"e2e4", "e7e5", "g1f3"}, nil); err != nil {
		t.Fatal(err)
	}
	start := New(nil, nil).Board().Position()

	if err := g.UndoMoves(4); err == nil {
		t.Error("undoing more moves than played should fail")
	}
	if err := g.UndoMoves(0); err == nil {
		t.Error("undo count 0 should fail")
	}
	if err := g.UndoMoves(2); err != nil {
		t.Fatalf("UndoMoves(2): %v", err)
	}
	if diff := cmp.Diff([]string{"e2e4"}, g.Moves()); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	if g.NextTurnColor() != core.ColorBlack || g.LastResult() != nil {
		t.Errorf("turn=%v last=%v; want black and no result", g.NextTurnColor(), g.LastResult())
	}

	if err := g.UndoMoves(1); err != nil {
		t.Fatal(err)
	}
	if got := g.Board().Position(); got != start {
		t.Errorf("position after full undo = %q; want start", got)
	}
}

func TestGameOver(t *testing.T) {
	g := newGame()
	if err := g.Replay([]string{"f2f3", "e7e5", "g2g4", "d8h4"}, nil); err != nil {
		t.Fatal(err)
	}
	if g.State() != core.StateBlackWins {
		t.Fatalf("State() = %v; want black wins", g.State())
	}
	if !g.LastResult().Check || g.LastResult().GameState != core.StateBlackWins {
		t.Errorf("last result = %+v", *g.LastResult())
	}
	if _, err := g.MakeMove("a2a3"); !errors.Is(err, ErrGameOver) {
		t.Errorf("error = %v; want ErrGameOver", err)
	}

	if err := g.UndoMoves(1); err != nil {
		t.Fatal(err)
	}
	if g.State() != core.StateOngoing {
		t.Errorf("State() after undo = %v; want ongoing", g.State())
	}
}

func TestReplayReportsFailingMove(t *testing.T) {
	g := newGame()
	err := g.Replay([]string{"e2e4", "e2e4"}, nil)
	if !errors.Is(err, engine.ErrIllegalMove) {
		t.Fatalf("error = %v; want ErrIllegalMove", err)
	}
	if g.MoveCount() != 1 {
		t.Errorf("MoveCount() = %d; want 1", g.MoveCount())
	}
}

func TestReplayCallback(t *testing.T) {
	g := newGame()
	errStop := errors.New("stop")

	var seen []string
	err := g.Replay([]string{"e2e4", "e7e5", "g1f3"}, func(n int) error {
		seen = append(seen, g.Moves()[n-1])
		if n == 2 {
			return errStop
		}
		return nil
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("error = %v; want the callback's error", err)
	}
	if diff := cmp.Diff([]string{"e2e4", "e7e5"}, seen); diff != "" {
		t.Errorf("callback saw (-want +got):\n%s", diff)
	}
	if g.MoveCount() != 2 {
		t.Errorf("MoveCount() = %d; want 2", g.MoveCount())
	}
}

func TestLegalMoves(t *testing.T) {
	g := newGame()

	p, dests, err := g.LegalMoves(board.Sq(7, 6))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "WN2" {
		t.Errorf("piece = %s; want WN2", p.Name)
	}
	want := []board.Square{board.Sq(5, 5), board.Sq(5, 7)}
	if diff := cmp.Diff(want, dests); diff != "" {
		t.Errorf("destinations mismatch (-want +got):\n%s", diff)
	}

	if _, dests, _ := g.LegalMoves(board.Sq(4, 4)); len(dests) != 0 {
		t.Errorf("empty square has destinations %v", dests)
	}
}

func TestStrictPromotion(t *testing.T) {
	b := board.New()
	for _, pl := range []struct {
		k  board.Kind
		c  core.Color
		sq board.Square
	}{
		{board.King, core.ColorWhite, board.Sq(7, 4)},
		{board.Pawn, core.ColorWhite, board.Sq(1, 0)},
		{board.King, core.ColorBlack, board.Sq(3, 7)},
	} {
		if _, err := b.Put(pl.k, pl.c, pl.sq); err != nil {
			t.Fatal(err)
		}
	}
	st, err := engine.FromBoard(b, core.ColorWhite, engine.RequirePromotionChoice())
	if err != nil {
		t.Fatal(err)
	}
	g := FromState(st, nil, nil)

	if _, err := g.MakeMove("a7a8"); !errors.Is(err, engine.ErrPromotionRequired) {
		t.Fatalf("error = %v; want ErrPromotionRequired", err)
	}
	res, err := g.MakeMove("a7a8n")
	if err != nil {
		t.Fatal(err)
	}
	if res.Move != "a7a8n" {
		t.Errorf("Move = %q; want a7a8n", res.Move)
	}
}
