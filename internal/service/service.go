// FILE: internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chessrules/internal/engine"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/rs/zerolog"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game already exists")
	ErrStorageDisabled = errors.New("storage disabled")
	ErrRestoreMismatch = errors.New("stored board does not match replayed moves")
)

// Config holds optional service settings
type Config struct {
	Store         *storage.Store // nil disables persistence
	Logger        zerolog.Logger
	WaitTimeout   time.Duration
	EngineOptions []engine.Option
}

// Service coordinates game state, long-poll waiters and storage.
// Every game mutation runs under the write lock, so moves on one game are serialized.
type Service struct {
	games      map[string]*game.Game
	mu         sync.RWMutex
	store      *storage.Store
	waiter     *WaitRegistry
	log        zerolog.Logger
	engineOpts []engine.Option
}

// New creates a new service instance with optional storage
func New(cfg Config) *Service {
	return &Service{
		games:      make(map[string]*game.Game),
		store:      cfg.Store,
		waiter:     NewWaitRegistry(cfg.WaitTimeout),
		log:        cfg.Logger.With().Str("component", "service").Logger(),
		engineOpts: cfg.EngineOptions,
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait registers a client to wait for game state changes. The
// returned channel is already closed when the game is gone or its move
// count no longer equals moveCount.
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	// Held across registration so a move cannot notify in between
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok || g.MoveCount() != moveCount {
		done := make(chan struct{})
		close(done)
		return done
	}
	return s.waiter.RegisterWait(ctx, gameID, moveCount)
}

// Shutdown releases waiters, drops in-memory games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
