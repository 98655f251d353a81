// FILE: internal/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultWaitTimeout is the maximum time a client can wait for notifications
const DefaultWaitTimeout = 25 * time.Second

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	closing  sync.Once
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates.
// notify is closed exactly once: on a change, a timeout, game removal or shutdown.
type WaitRequest struct {
	GameID    string
	MoveCount int // Last known move count
	notify    chan struct{}
	once      sync.Once
	timer     *time.Timer
}

func (r *WaitRequest) fire() {
	r.once.Do(func() { close(r.notify) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that is closed when the game moves past
// moveCount, the wait times out, the game is removed, or ctx ends.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &WaitRequest{
		GameID:    gameID,
		MoveCount: moveCount,
		notify:    make(chan struct{}),
	}

	select {
	case <-w.shutdown:
		req.fire()
		return req.notify
	default:
	}

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	req.timer = time.AfterFunc(w.timeout, req.fire)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			req.fire()
		case <-req.notify:
		case <-w.shutdown:
			req.fire()
		}
		req.timer.Stop()
		w.removeWaiter(gameID, req)
	}()

	return req.notify
}

// NotifyGame wakes every waiter whose known move count differs from the current one
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.Lock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.MoveCount != currentMoveCount {
			req.fire()
		}
	}
}

// RemoveGame wakes and drops all waiters for a game (called on game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Waiting returns the number of clients currently waiting on a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.closing.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

// removeWaiter removes a specific waiter from the registry
func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
