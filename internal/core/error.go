package core

// Error codes
const (
	ErrGameNotFound       = "GAME_NOT_FOUND"
	ErrInvalidMove        = "INVALID_MOVE"
	ErrOutOfBounds        = "OUT_OF_BOUNDS"
	ErrPromotionRequired  = "PROMOTION_REQUIRED"
	ErrInvalidPromotion   = "INVALID_PROMOTION"
	ErrGameOver           = "GAME_OVER"
	ErrRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent     = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest     = "INVALID_REQUEST"
	ErrInternalError      = "INTERNAL_ERROR"
	ErrStorageUnavailable = "STORAGE_UNAVAILABLE"
)
