// FILE: internal/core/api.go
package core

// Request types

type CreateGameRequest struct {
	White PlayerConfig `json:"white"`
	Black PlayerConfig `json:"black"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=4,max=5"` // coordinate move, e.g. e2e4 or e7e8q
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

// Response types

type GameResponse struct {
	GameID    string          `json:"gameId"`
	Turn      string          `json:"turn"`  // "w" or "b"
	State     string          `json:"state"` // "ongoing", "white wins", etc
	Check     string          `json:"check"` // color in check or "-"
	Checkmate bool            `json:"checkmate"`
	Stalemate bool            `json:"stalemate"`
	Moves     []string        `json:"moves"`
	Players   PlayersResponse `json:"players"`
	LastMove  *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Captured    string `json:"captured,omitempty"`
}

type BoardResponse struct {
	Position string `json:"position"` // 64 squares, row 0 first
	Board    string `json:"board"`    // ASCII representation
}

type LegalMovesResponse struct {
	Square       string   `json:"square"`
	Piece        string   `json:"piece"`
	Destinations []string `json:"destinations"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
