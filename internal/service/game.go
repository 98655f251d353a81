// FILE: internal/service/game.go
package service

import (
	"fmt"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/google/uuid"
)

// GameView is a consistent copy of a game taken under the read lock
type GameView struct {
	ID         string
	Turn       core.Color
	State      core.State
	Check      core.Color
	Moves      []string
	White      core.Player
	Black      core.Player
	LastResult *game.MoveResult
	Board      *board.Board
}

func newView(id string, g *game.Game) *GameView {
	v := &GameView{
		ID:    id,
		Turn:  g.NextTurnColor(),
		State: g.State(),
		Check: g.Check(),
		Moves: g.Moves(),
		Board: g.Board(),
	}
	if p := g.GetPlayer(core.ColorWhite); p != nil {
		v.White = *p
	}
	if p := g.GetPlayer(core.ColorBlack); p != nil {
		v.Black = *p
	}
	if r := g.LastResult(); r != nil {
		res := *r
		v.LastResult = &res
	}
	return v
}

// lookup must be called with s.mu held
func (s *Service) lookup(gameID string) (*game.Game, error) {
	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, whitePlayer, blackPlayer *core.Player) (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, id)
	}

	g := game.New(whitePlayer, blackPlayer, s.engineOpts...)
	s.games[id] = g

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        id,
			WhitePlayerID: whitePlayer.ID,
			WhiteName:     whitePlayer.Name,
			BlackPlayerID: blackPlayer.ID,
			BlackName:     blackPlayer.Name,
			StartTimeUTC:  time.Now().UTC(),
		})
	}

	s.log.Info().Str("game_id", id).Msg("game created")
	return newView(id, g), nil
}

// GetGame returns a snapshot of a game
func (s *Service) GetGame(gameID string) (*GameView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}
	return newView(gameID, g), nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove validates and plays a coordinate-notation move
func (s *Service) ApplyMove(gameID, move string) (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}

	result, err := g.MakeMove(move)
	if err != nil {
		return nil, err
	}
	moveCount := g.MoveCount()

	s.waiter.NotifyGame(gameID, moveCount)

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:         gameID,
			MoveNumber:     moveCount,
			Move:           result.Move,
			BoardAfterMove: g.CurrentSnapshot().Position,
			PlayerColor:    result.PlayerColor.String(),
			MoveTimeUTC:    time.Now().UTC(),
		})
	}

	ev := s.log.Debug()
	if result.GameState.IsOver() {
		ev = s.log.Info()
	}
	ev.Str("game_id", gameID).Str("move", result.Move).Stringer("state", result.GameState).Msg("move applied")

	return newView(gameID, g), nil
}

// UndoMoves takes back count moves
func (s *Service) UndoMoves(gameID string, count int) (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}

	if err := g.UndoMoves(count); err != nil {
		return nil, err
	}
	moveCount := g.MoveCount()

	s.waiter.NotifyGame(gameID, moveCount)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, moveCount)
	}

	return newView(gameID, g), nil
}

// DeleteGame removes a game and wakes anyone waiting on it
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(gameID); err != nil {
		return err
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)

	if s.store != nil {
		s.store.DeleteGame(gameID)
	}

	s.log.Info().Str("game_id", gameID).Msg("game deleted")
	return nil
}

// LegalMoves lists the legal destinations of the piece on a square
func (s *Service) LegalMoves(gameID string, sq board.Square) (board.Piece, []board.Square, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return board.Piece{}, nil, err
	}
	return g.LegalMoves(sq)
}

// RestoreGame rebuilds a stored game by replaying its moves
func (s *Service) RestoreGame(gameID string) (*GameView, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	record, err := s.store.LoadGame(gameID)
	if err != nil {
		return nil, err
	}
	moves, err := s.store.LoadMoves(gameID)
	if err != nil {
		return nil, err
	}

	white := &core.Player{ID: record.WhitePlayerID, Color: core.ColorWhite, Name: record.WhiteName}
	black := &core.Player{ID: record.BlackPlayerID, Color: core.ColorBlack, Name: record.BlackName}
	g := game.New(white, black, s.engineOpts...)

	played := make([]string, len(moves))
	for i, m := range moves {
		played[i] = m.Move
	}
	err = g.Replay(played, func(n int) error {
		if g.CurrentSnapshot().Position != moves[n-1].BoardAfterMove {
			return ErrRestoreMismatch
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[gameID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	s.games[gameID] = g

	s.log.Info().Str("game_id", gameID).Int("moves", len(moves)).Msg("game restored")
	return newView(gameID, g), nil
}
