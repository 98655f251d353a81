// FILE: internal/transport/cli/handler.go
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/engine"
	"chessrules/internal/service"
)

type CLIHandler struct {
	svc    *service.Service
	view   *cli.CLI
	gameID string
}

func New(svc *service.Service, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
	}
}

// Run reads and processes commands until quit or EOF
func (h *CLIHandler) Run() {
	for {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			h.view.ShowError(err)
			break
		}
		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// getPrompt shows whose turn it is during a game
func (h *CLIHandler) getPrompt() string {
	if h.gameID == "" {
		return "> "
	}
	v, err := h.svc.GetGame(h.gameID)
	if err != nil || v.State.IsOver() {
		return "> "
	}
	return fmt.Sprintf("[%s]> ", v.Turn)
}

// ProcessCommand handles one command, false means exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:

	case cli.CmdNew:
		h.handleNewGame()

	case cli.CmdMove:
		if !h.requireGame() {
			return true
		}
		h.playMove(cmd.Args[0])

	case cli.CmdMoves:
		if !h.requireGame() {
			return true
		}
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: moves <square>")
			return true
		}
		h.handleLegalMoves(cmd.Args[0])

	case cli.CmdUndo:
		if !h.requireGame() {
			return true
		}
		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
			count = n
		}

		v, err := h.svc.UndoMoves(h.gameID, count)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.view.DisplayBoard(v.Board)

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if v, err := h.svc.GetGame(h.gameID); err == nil {
			h.view.DisplayBoard(v.Board)
		}

	case cli.CmdVerbose:
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", h.view.ToggleVerbose()))

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		v, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowGameHistory(v.Moves, v.Board.Position(), v.State)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new'.")
		return false
	}
	return true
}

func (h *CLIHandler) handleNewGame() {
	if h.gameID != "" {
		if err := h.svc.DeleteGame(h.gameID); err != nil {
			h.view.ShowError(err)
		}
		h.gameID = ""
	}

	id := h.svc.GenerateGameID()
	white := core.NewPlayer(core.PlayerConfig{}, core.ColorWhite)
	black := core.NewPlayer(core.PlayerConfig{}, core.ColorBlack)
	v, err := h.svc.CreateGame(id, white, black)
	if err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return
	}

	h.gameID = id
	h.view.ShowMessage("Game started.")
	h.view.DisplayBoard(v.Board)
}

// playMove applies a move, asking for the piece when a pawn promotes without one
func (h *CLIHandler) playMove(move string) {
	v, err := h.svc.ApplyMove(h.gameID, move)
	if errors.Is(err, engine.ErrPromotionRequired) {
		choice := strings.ToLower(h.view.Ask("Promote to (q/r/b/n): "))
		if choice == "" {
			h.view.ShowMessage("Move cancelled")
			return
		}
		v, err = h.svc.ApplyMove(h.gameID, move+choice[:1])
	}
	if err != nil {
		h.view.ShowError(fmt.Errorf("invalid move: %w", err))
		return
	}

	if v.LastResult != nil {
		h.view.ShowMove(v.LastResult)
	}
	h.view.DisplayBoard(v.Board)

	switch {
	case v.State.IsOver():
		h.view.ShowGameOver(v.State)
		if err := h.svc.DeleteGame(h.gameID); err != nil {
			h.view.ShowError(err)
		}
		h.gameID = ""
	case v.Check != core.ColorNone:
		h.view.ShowCheck(v.Check)
	}
}

// handleLegalMoves lists the destinations of the piece on a square and
// lets the player pick one by number
func (h *CLIHandler) handleLegalMoves(square string) {
	sq, err := board.ParseSquare(strings.ToLower(square))
	if err != nil {
		h.view.ShowError(err)
		return
	}
	p, dests, err := h.svc.LegalMoves(h.gameID, sq)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	if p.Name == "" {
		h.view.ShowMessage(fmt.Sprintf("No piece on %s", sq))
		return
	}

	h.view.ShowLegalMoves(p, dests)

	v, err := h.svc.GetGame(h.gameID)
	if err != nil || len(dests) == 0 || p.Color != v.Turn {
		return
	}

	answer := h.view.Ask("Select a move number (ENTER to skip): ")
	if answer == "" {
		return
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(dests) {
		h.view.ShowMessage(fmt.Sprintf("Choose a number between 1 and %d", len(dests)))
		return
	}
	h.playMove(sq.String() + dests[n-1].String())
}
