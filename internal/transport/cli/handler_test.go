package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/engine"
	"chessrules/internal/service"

	"github.com/rs/zerolog"
)

// session runs the REPL over a script and returns everything printed
func session(t *testing.T, lines ...string) string {
	t.Helper()
	svc := service.New(service.Config{
		Logger:        zerolog.Nop(),
		EngineOptions: []engine.Option{engine.RequirePromotionChoice()},
	})
	t.Cleanup(func() { svc.Shutdown(time.Second) })

	var out bytes.Buffer
	script := strings.Join(lines, "\n") + "\n"
	view := cli.New(cli.NewScanReader(strings.NewReader(script), &out), &out)
	New(svc, view).Run()
	return out.String()
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNoActiveGame(t *testing.T) {
	out := session(t, "e2e4", "history", "quit")
	if n := strings.Count(out, "No active game"); n != 2 {
		t.Errorf("'No active game' printed %d times; want 2\n%s", n, out)
	}
}

func TestPromptShowsTurn(t *testing.T) {
	out := session(t, "new", "e2e4", "quit")
	assertContains(t, out, "Game started.", "[w]> ", "[b]> ")
}

func TestIllegalMoveReported(t *testing.T) {
	out := session(t, "new", "e2e5", "e7e5")
	assertContains(t, out, "Error: invalid move:", "illegal move")
}

func TestPickFromLegalMoves(t *testing.T) {
	out := session(t, "new", "moves g1", "1", "history")
	assertContains(t, out,
		"WN2 (Knight) at g1:",
		"  1. f3",
		"  2. h3",
		"1. g1f3 | ...",
	)
}

func TestLegalMovesEmptySquare(t *testing.T) {
	out := session(t, "new", "moves e4", "moves z9")
	assertContains(t, out, "No piece on e4", "Error:")
}

func TestUndo(t *testing.T) {
	out := session(t, "new", "e2e4", "e7e5", "undo 2", "undo", "undo x")
	assertContains(t, out,
		"2 moves undone",
		"Error: cannot undo 1 moves",
		"Invalid undo count",
	)
}

func TestPromotionPrompt(t *testing.T) {
	out := session(t, "new",
		"h2h4", "g7g5", "h4g5", "g8f6", "g5g6", "f6g8", "g6g7", "g8f6",
		"g7h8", "n",
		"history",
	)
	assertContains(t, out, "Promote to (q/r/b/n): ", "5. g7h8n | ...")
}

func TestCheckmateEndsGame(t *testing.T) {
	out := session(t, "verbose", "new", "f2f3", "e7e5", "g2g4", "d8h4", "history")
	assertContains(t, out,
		"Verbose mode: true",
		"Black plays d8h4 (BQ1)",
		"Game Over: black wins",
		"No active game",
	)
}

func TestNewGameReportsFailedCleanup(t *testing.T) {
	svc := service.New(service.Config{Logger: zerolog.Nop()})
	t.Cleanup(func() { svc.Shutdown(time.Second) })

	var out bytes.Buffer
	h := New(svc, cli.New(cli.NewScanReader(strings.NewReader(""), &out), &out))
	h.ProcessCommand(&cli.Command{Type: cli.CmdNew})
	first := h.gameID

	// Removed behind the handler's back
	if err := svc.DeleteGame(first); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	h.ProcessCommand(&cli.Command{Type: cli.CmdNew})

	assertContains(t, out.String(), "Error: game not found")
	if h.gameID == "" || h.gameID == first {
		t.Errorf("gameID = %q; want a fresh game", h.gameID)
	}
}
