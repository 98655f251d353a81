package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID        string    `db:"game_id"`
	WhitePlayerID string    `db:"white_player_id"`
	WhiteName     string    `db:"white_name"`
	BlackPlayerID string    `db:"black_player_id"`
	BlackName     string    `db:"black_name"`
	StartTimeUTC  time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID         int64     `db:"move_id"`
	GameID         string    `db:"game_id"`
	MoveNumber     int       `db:"move_number"`
	Move           string    `db:"move"`             // coordinate notation, e.g. e7e8q
	BoardAfterMove string    `db:"board_after_move"` // 64 cells, row 0 (rank 8) first
	PlayerColor    string    `db:"player_color"`
	MoveTimeUTC    time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	white_player_id TEXT NOT NULL,
	white_name TEXT NOT NULL DEFAULT '',
	black_player_id TEXT NOT NULL,
	black_name TEXT NOT NULL DEFAULT '',
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move TEXT NOT NULL,
	board_after_move TEXT NOT NULL CHECK(length(board_after_move) = 64),
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_white_player ON games(white_player_id);
CREATE INDEX IF NOT EXISTS idx_games_black_player ON games(black_player_id);
`
