// FILE: internal/http/handler.go
package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/processor"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
	log  zerolog.Logger
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc, log: log}
}

// NewFiberApp builds the API server. Access logs go through the given logger.
func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool, log zerolog.Logger) *fiber.App {
	log = log.With().Str("component", "http").Logger()
	h := NewHTTPHandler(proc, svc, log)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          35 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: !devMode,
	})

	// Order matters
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${status} ${method} ${path} ${latency}",
		Output: log,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Not rate limited
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   1 * time.Second,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))
	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Post("/games/:gameId/undo", h.UndoMove)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/legal", h.LegalMoves)
	api.Post("/games/:gameId/restore", h.RestoreGame)

	return app
}

// clientKey prefers the first X-Forwarded-For hop over the peer address
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	return c.IP()
}

// contentTypeValidator ensures POST requests carrying a body are JSON
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}
	contentType := c.Get("Content-Type")
	mediaType, _, _ := strings.Cut(contentType, ";")
	if contentType != "" && strings.TrimSpace(mediaType) != fiber.MIMEApplicationJSON {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
			Error:   "unsupported media type",
			Code:    core.ErrInvalidContent,
			Details: "Content-Type must be application/json",
		})
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps an API error code to its HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrStorageUnavailable:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// respond writes a processor response, using okStatus on success
func respond(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(okStatus)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// gameIDParam returns the path game id, writing a 400 when it is not a UUID
func gameIDParam(c *fiber.Ctx) (string, bool) {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
		return "", false
	}
	return gameID, true
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame starts a new game from the standard position
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewCreateGameCommand(req)), fiber.StatusCreated)
}

// GetGame returns the game state. With wait=true it blocks until the move
// count differs from moveCount, the wait times out or the server stops.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	view, err := h.svc.GetGame(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	if moveCount == len(view.Moves) {
		ctx := c.Context()
		select {
		case <-h.svc.RegisterWait(ctx, gameID, moveCount):
		case <-ctx.Done():
			return nil
		}
	}

	// The game may have been deleted while waiting
	return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
}

// MakeMove submits a move in coordinate notation
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.MoveRequest](c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewMakeMoveCommand(gameID, req))
	if resp.Success {
		h.log.Debug().Str("game", gameID).Str("move", req.Move).Msg("move applied")
	}
	return respond(c, resp, fiber.StatusOK)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := validatedBody[core.UndoRequest](c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewUndoMoveCommand(gameID, req)), fiber.StatusOK)
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewDeleteGameCommand(gameID)), fiber.StatusNoContent)
}

// GetBoard returns the position string and ASCII rendering
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)), fiber.StatusOK)
}

// LegalMoves lists destinations for the piece on ?square=
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	square := c.Query("square")
	if square == "" {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "missing square",
			Code:    core.ErrInvalidRequest,
			Details: "query parameter square is required, e.g. ?square=e2",
		})
	}
	return respond(c, h.proc.Execute(processor.NewLegalMovesCommand(gameID, square)), fiber.StatusOK)
}

// RestoreGame reloads a stored game by replaying its moves
func (h *HTTPHandler) RestoreGame(c *fiber.Ctx) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return nil
	}
	return respond(c, h.proc.Execute(processor.NewRestoreGameCommand(gameID)), fiber.StatusOK)
}
