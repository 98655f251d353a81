// FILE: internal/storage/game.go
package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("record game", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, white_player_id, white_name, black_player_id, black_name, start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID,
			record.WhitePlayerID, record.WhiteName,
			record.BlackPlayerID, record.BlackName,
			record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("record move", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, move, board_after_move, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.Move,
			record.BoardAfterMove, record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after undo
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) {
	s.enqueue("undo", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber)
		return err
	})
}

// DeleteGame asynchronously removes a game and its moves
func (s *Store) DeleteGame(gameID string) {
	s.enqueue("delete game", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ?`, gameID); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM games WHERE game_id = ?`, gameID)
		return err
	})
}

// QueryGames retrieves games with optional filtering; "" and "*" match anything
func (s *Store) QueryGames(gameID, playerID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, white_player_id, white_name, black_player_id, black_name, start_time_utc
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if playerID != "" && playerID != "*" {
		query += " AND (white_player_id = ? OR black_player_id = ?)"
		args = append(args, playerID, playerID)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(
			&g.GameID,
			&g.WhitePlayerID, &g.WhiteName,
			&g.BlackPlayerID, &g.BlackName,
			&g.StartTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// LoadGame returns one game row or ErrNotFound
func (s *Store) LoadGame(gameID string) (GameRecord, error) {
	var g GameRecord
	err := s.db.QueryRow(`SELECT
		game_id, white_player_id, white_name, black_player_id, black_name, start_time_utc
	FROM games WHERE game_id = ?`, gameID).Scan(
		&g.GameID,
		&g.WhitePlayerID, &g.WhiteName,
		&g.BlackPlayerID, &g.BlackName,
		&g.StartTimeUTC,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	if err != nil {
		return g, fmt.Errorf("load game failed: %w", err)
	}
	return g, nil
}

// LoadMoves returns a game's moves in play order
func (s *Store) LoadMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, move, board_after_move, player_color, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Move,
			&m.BoardAfterMove, &m.PlayerColor, &m.MoveTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}
