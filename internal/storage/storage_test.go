package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

const startBoard = "rnbqkbnrpppppppp................................PPPPPPPPRNBQKBNR"

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "chess.db"), true, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return s
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestGameLifecycle(t *testing.T) {
	s := openStore(t)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.RecordNewGame(GameRecord{
		GameID:        "g1",
		WhitePlayerID: "p1",
		WhiteName:     "White",
		BlackPlayerID: "p2",
		BlackName:     "bob",
		StartTimeUTC:  start,
	})
	for i, mv := range []string{"e2e4", "e7e5", "g1f3"} {
		color := "w"
		if i%2 == 1 {
			color = "b"
		}
		s.RecordMove(MoveRecord{
			GameID:         "g1",
			MoveNumber:     i + 1,
			Move:           mv,
			BoardAfterMove: startBoard,
			PlayerColor:    color,
			MoveTimeUTC:    start.Add(time.Duration(i) * time.Second),
		})
	}
	flush(t, s)

	g, err := s.LoadGame("g1")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if g.BlackName != "bob" || g.WhitePlayerID != "p1" || !g.StartTimeUTC.Equal(start) {
		t.Errorf("LoadGame = %+v", g)
	}

	games, err := s.QueryGames("*", "p2")
	if err != nil || len(games) != 1 {
		t.Fatalf("QueryGames by player = %v, %v; want 1 game", games, err)
	}
	if games, _ := s.QueryGames("", "nobody"); len(games) != 0 {
		t.Errorf("QueryGames(nobody) = %d games; want 0", len(games))
	}

	moves, err := s.LoadMoves("g1")
	if err != nil {
		t.Fatalf("LoadMoves: %v", err)
	}
	var got []string
	for _, m := range moves {
		got = append(got, m.Move)
	}
	if diff := cmp.Diff([]string{"e2e4", "e7e5", "g1f3"}, got); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}

	s.DeleteUndoneMoves("g1", 1)
	flush(t, s)
	if moves, _ := s.LoadMoves("g1"); len(moves) != 1 || moves[0].Move != "e2e4" {
		t.Errorf("after undo moves = %+v; want only e2e4", moves)
	}

	s.DeleteGame("g1")
	flush(t, s)
	if _, err := s.LoadGame("g1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame after delete error = %v; want ErrNotFound", err)
	}
	if moves, _ := s.LoadMoves("g1"); len(moves) != 0 {
		t.Errorf("moves survived game deletion: %+v", moves)
	}
	if !s.IsHealthy() {
		t.Error("store degraded during normal use")
	}
}

func TestFailedWriteDegradesStore(t *testing.T) {
	s := openStore(t)

	// Unknown game violates the foreign key
	s.RecordMove(MoveRecord{GameID: "missing", MoveNumber: 1, Move: "e2e4", BoardAfterMove: startBoard, PlayerColor: "w"})

	deadline := time.Now().Add(5 * time.Second)
	for s.IsHealthy() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsHealthy() {
		t.Fatal("store still healthy after a failed write")
	}
	if err := s.Flush(context.Background()); err == nil {
		t.Error("Flush on a degraded store should fail")
	}
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	s, err := NewStore(path, false, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDB(); err != nil {
		t.Fatalf("DeleteDB: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database file still present: %v", err)
	}
}
