package commands

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"chessrules/internal/client/api"
	chesshttp "chessrules/internal/http"
	"chessrules/internal/processor"
	"chessrules/internal/service"

	"github.com/rs/zerolog"
)

// startServer runs the real API on a loopback port
func startServer(t *testing.T) string {
	t.Helper()
	svc := service.New(service.Config{Logger: zerolog.Nop(), WaitTimeout: 2 * time.Second})
	app := chesshttp.NewFiberApp(processor.New(svc, zerolog.Nop()), svc, true, zerolog.Nop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() {
		app.ShutdownWithTimeout(time.Second)
		svc.Shutdown(time.Second)
	})
	return "http://" + ln.Addr().String()
}

func newSession(t *testing.T) (*Session, *Registry, *bytes.Buffer) {
	t.Helper()
	base := startServer(t)
	out := &bytes.Buffer{}
	s := &Session{APIBaseURL: base, Client: api.New(base, out), Out: out}
	return s, NewRegistry(s), out
}

// run executes a line and returns what it printed
func run(t *testing.T, r *Registry, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	if err := r.Execute(line); err != nil {
		t.Fatalf("Execute(%q) = %v", line, err)
	}
	return out.String()
}

func TestGameSession(t *testing.T) {
	s, r, out := newSession(t)

	if got := run(t, r, out, "health"); !strings.Contains(got, "Status:  healthy") {
		t.Errorf("health output:\n%s", got)
	}

	if got := run(t, r, out, "new alice bob"); !strings.Contains(got, "alice vs bob") {
		t.Errorf("new output:\n%s", got)
	}
	if s.CurrentGame == "" {
		t.Fatal("no current game after new")
	}

	if got := run(t, r, out, "m e2e4"); !strings.Contains(got, "Move accepted") {
		t.Errorf("move output:\n%s", got)
	}
	if s.LastMoveCount != 1 || s.GameState.Turn != "b" {
		t.Errorf("after move: count %d, turn %q", s.LastMoveCount, s.GameState.Turn)
	}

	if got := run(t, r, out, "legal g8"); !strings.Contains(got, "BN1: f6 h6") {
		t.Errorf("legal output:\n%s", got)
	}

	got := run(t, r, out, "move e2e4")
	if !strings.Contains(got, "Error:") || !strings.Contains(got, "INVALID_MOVE") {
		t.Errorf("illegal move output:\n%s", got)
	}

	if got := run(t, r, out, "undo"); !strings.Contains(got, "Undid 1 move(s)") {
		t.Errorf("undo output:\n%s", got)
	}
	if s.LastMoveCount != 0 {
		t.Errorf("LastMoveCount after undo = %d; want 0", s.LastMoveCount)
	}

	// A move made elsewhere is picked up by poll without waiting
	if _, err := s.Client.MakeMove(s.CurrentGame, "d2d4"); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if got := run(t, r, out, "poll"); !strings.Contains(got, "New move: d2d4") {
		t.Errorf("poll output:\n%s", got)
	}

	if got := run(t, r, out, "show"); !strings.Contains(got, "History: 1.d2d4") {
		t.Errorf("show output:\n%s", got)
	}

	if got := run(t, r, out, "restore "+s.CurrentGame); !strings.Contains(got, "STORAGE_UNAVAILABLE") {
		t.Errorf("restore output:\n%s", got)
	}

	if got := run(t, r, out, "delete"); !strings.Contains(got, "Game deleted") {
		t.Errorf("delete output:\n%s", got)
	}
	if s.CurrentGame != "" {
		t.Errorf("CurrentGame = %q after delete", s.CurrentGame)
	}
}

func TestRegistry(t *testing.T) {
	s, r, out := newSession(t)

	if got := run(t, r, out, "frobnicate"); !strings.Contains(got, "Unknown command: frobnicate") {
		t.Errorf("unknown command output:\n%s", got)
	}
	if got := run(t, r, out, "move e2e4"); !strings.Contains(got, "no current game") {
		t.Errorf("move without game output:\n%s", got)
	}
	if got := run(t, r, out, "help move"); !strings.Contains(got, "Short form:") {
		t.Errorf("help move output:\n%s", got)
	}
	if got := run(t, r, out, "url localhost:1"); !strings.Contains(got, "http://localhost:1") || s.APIBaseURL != "http://localhost:1" {
		t.Errorf("url output:\n%s", got)
	}

	run(t, r, out, "help -v")
	if !s.Verbose {
		t.Error("trailing -v did not set verbose")
	}

	if err := r.Execute("x"); !errors.Is(err, ErrExit) {
		t.Errorf("Execute(x) = %v; want ErrExit", err)
	}
}
