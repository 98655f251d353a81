// FILE: internal/processor/command.go
package processor

import (
	"fmt"

	"chessrules/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdUndoMove
	CmdGetBoard
	CmdLegalMoves
	CmdRestoreGame
)

// String is used in logs
func (c CommandType) String() string {
	names := [...]string{"create", "get", "delete", "move", "undo", "board", "legal", "restore"}
	if int(c) < 0 || int(c) >= len(names) {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return names[c]
}

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

// LegalMovesArgs selects the square whose moves are listed
type LegalMovesArgs struct {
	Square string
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewUndoMoveCommand(gameID string, req core.UndoRequest) Command {
	return Command{
		Type:   CmdUndoMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

func NewLegalMovesCommand(gameID, square string) Command {
	return Command{
		Type:   CmdLegalMoves,
		GameID: gameID,
		Args:   LegalMovesArgs{Square: square},
	}
}

func NewRestoreGameCommand(gameID string) Command {
	return Command{
		Type:   CmdRestoreGame,
		GameID: gameID,
	}
}
