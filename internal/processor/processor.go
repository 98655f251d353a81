// FILE: internal/processor/processor.go
package processor

import (
	"errors"
	"fmt"
	"unicode"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"
	"chessrules/internal/game"
	"chessrules/internal/service"
	"chessrules/internal/storage"

	"github.com/rs/zerolog"
)

// Processor turns transport-neutral commands into service calls and API responses
type Processor struct {
	svc *service.Service
	log zerolog.Logger
}

func New(svc *service.Service, logger zerolog.Logger) *Processor {
	return &Processor{
		svc: svc,
		log: logger.With().Str("component", "processor").Logger(),
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdRestoreGame:
		return p.handleRestoreGame(cmd)
	default:
		return p.errorResponse(fmt.Sprintf("unknown command %s", cmd.Type), core.ErrInvalidRequest)
	}
}

// isMoveSafe rejects control characters and anything that is not 4-5 lower-case
// letters and digits. Board range and promotion letters are checked by the engine.
func (p *Processor) isMoveSafe(move string) bool {
	if len(move) < 4 || len(move) > 5 {
		return false
	}

	for _, r := range move {
		if unicode.IsControl(r) {
			return false
		}
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}

	return true
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	gameID := p.svc.GenerateGameID()
	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)
	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)

	view, err := p.svc.CreateGame(gameID, whitePlayer, blackPlayer)
	if err != nil {
		return p.failure("failed to create game", err)
	}
	return ProcessorResponse{Success: true, Data: p.buildGameResponse(view)}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	view, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.failure("game not found", err)
	}
	return ProcessorResponse{Success: true, Data: p.buildGameResponse(view)}
}

func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if !p.isMoveSafe(args.Move) {
		return p.errorResponse("invalid move format", core.ErrInvalidMove)
	}

	view, err := p.svc.ApplyMove(cmd.GameID, args.Move)
	if err != nil {
		return p.failure("move rejected", err)
	}
	return ProcessorResponse{Success: true, Data: p.buildGameResponse(view)}
}

func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.UndoRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	view, err := p.svc.UndoMoves(cmd.GameID, args.Count)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return p.failure("game not found", err)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}
	return ProcessorResponse{Success: true, Data: p.buildGameResponse(view)}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.failure("game not found", err)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	view, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.failure("game not found", err)
	}
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Position: view.Board.Position(),
			Board:    view.Board.ToASCII(),
		},
	}
}

func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(LegalMovesArgs)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	sq, err := board.ParseSquare(args.Square)
	if err != nil {
		code := core.ErrInvalidRequest
		if errors.Is(err, board.ErrSquareRange) {
			code = core.ErrOutOfBounds
		}
		return p.errorResponse(err.Error(), code)
	}

	piece, dests, err := p.svc.LegalMoves(cmd.GameID, sq)
	if err != nil {
		return p.failure("legal moves unavailable", err)
	}

	resp := core.LegalMovesResponse{
		Square:       sq.String(),
		Piece:        piece.Name,
		Destinations: make([]string, 0, len(dests)),
	}
	for _, d := range dests {
		resp.Destinations = append(resp.Destinations, d.String())
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleRestoreGame(cmd Command) ProcessorResponse {
	view, err := p.svc.RestoreGame(cmd.GameID)
	if err != nil {
		return p.failure("restore failed", err)
	}
	return ProcessorResponse{Success: true, Data: p.buildGameResponse(view)}
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(v *service.GameView) core.GameResponse {
	white, black := v.White, v.Black
	resp := core.GameResponse{
		GameID:    v.ID,
		Turn:      v.Turn.String(),
		State:     v.State.String(),
		Check:     v.Check.String(),
		Checkmate: v.State == core.StateWhiteWins || v.State == core.StateBlackWins,
		Stalemate: v.State == core.StateStalemate,
		Moves:     v.Moves,
		Players: core.PlayersResponse{
			White: &white,
			Black: &black,
		},
	}

	if result := v.LastResult; result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        result.Move,
			PlayerColor: result.PlayerColor.String(),
			Captured:    result.Captured,
		}
	}

	return resp
}

// failure maps a domain error onto an API error code
func (p *Processor) failure(message string, err error) ProcessorResponse {
	code := errorCode(err)
	if code == core.ErrInternalError {
		p.log.Error().Err(err).Msg(message)
	}
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error:   message,
			Code:    code,
			Details: err.Error(),
		},
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, storage.ErrNotFound):
		return core.ErrGameNotFound
	case errors.Is(err, game.ErrGameOver):
		return core.ErrGameOver
	case errors.Is(err, engine.ErrOutOfBounds):
		return core.ErrOutOfBounds
	case errors.Is(err, engine.ErrPromotionRequired):
		return core.ErrPromotionRequired
	case errors.Is(err, engine.ErrInvalidPromotion):
		return core.ErrInvalidPromotion
	case errors.Is(err, engine.ErrIllegalMove):
		return core.ErrInvalidMove
	case errors.Is(err, service.ErrGameExists), errors.Is(err, service.ErrRestoreMismatch):
		return core.ErrInvalidRequest
	case errors.Is(err, service.ErrStorageDisabled):
		return core.ErrStorageUnavailable
	default:
		return core.ErrInternalError
	}
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
