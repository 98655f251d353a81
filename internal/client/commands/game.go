// FILE: internal/client/commands/game.go
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

func (r *Registry) registerGameCommands() {
	for _, cmd := range []*Command{
		{Name: "new", ShortName: "n", Description: "Create a new game", Usage: "new [whiteName] [blackName]", Handler: newGameHandler},
		{Name: "join", ShortName: "j", Description: "Join/set current game ID", Usage: "join <gameId>", Handler: joinGameHandler},
		{Name: "move", ShortName: "m", Description: "Make a move", Usage: "move <e2e4|e7e8q>", Handler: moveHandler},
		{Name: "legal", ShortName: "l", Description: "List legal moves of a piece", Usage: "legal <square>", Handler: legalHandler},
		{Name: "undo", ShortName: "u", Description: "Undo moves", Usage: "undo [count]", Handler: undoHandler},
		{Name: "show", ShortName: "h", Description: "Show board and game state", Usage: "show", Handler: showBoardHandler},
		{Name: "state", ShortName: "s", Description: "Show raw game JSON", Usage: "state", Handler: gameStateHandler},
		{Name: "delete", ShortName: "d", Description: "Delete a game", Usage: "delete [gameId]", Handler: deleteGameHandler},
		{Name: "poll", ShortName: "p", Description: "Long-poll for game updates", Usage: "poll", Handler: pollHandler},
		{Name: "restore", ShortName: "r", Description: "Restore a stored game", Usage: "restore <gameId>", Handler: restoreHandler},
	} {
		cmd.Group = "Game"
		r.Register(cmd)
	}
}

func newGameHandler(s *Session, args []string) error {
	req := &core.CreateGameRequest{}
	if len(args) > 0 {
		req.White.Name = args[0]
	}
	if len(args) > 1 {
		req.Black.Name = args[1]
	}

	resp, err := s.Client.CreateGame(req)
	if err != nil {
		return err
	}

	s.CurrentGame = resp.GameID
	s.track(resp)

	s.printf("%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	s.printf("%s%s vs %s%s\n", display.Cyan, resp.Players.White.Name, resp.Players.Black.Name, display.Reset)
	return nil
}

func joinGameHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	resp, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}

	s.CurrentGame = args[0]
	s.track(resp)

	s.printf("%sJoined game: %s%s\n", display.Green, args[0], display.Reset)
	s.printf("Turn: %s | State: %s | Moves: %d\n", resp.Turn, resp.State, len(resp.Moves))
	return nil
}

func moveHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <e2e4|e7e8q>")
	}
	gameID, err := s.requireGame()
	if err != nil {
		return err
	}

	resp, err := s.Client.MakeMove(gameID, strings.ToLower(args[0]))
	if api.ErrorCode(err) == core.ErrPromotionRequired {
		return fmt.Errorf("pawn promotes, add the piece letter, e.g. %sq", args[0])
	}
	if err != nil {
		return err
	}

	s.track(resp)
	s.printf("%sMove accepted%s\n", display.Green, display.Reset)
	if resp.LastMove != nil && resp.LastMove.Captured != "" {
		s.printf("Captured %s\n", resp.LastMove.Captured)
	}
	printStatus(s, resp)
	return nil
}

func legalHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: legal <square>")
	}
	gameID, err := s.requireGame()
	if err != nil {
		return err
	}

	resp, err := s.Client.LegalMoves(gameID, strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	if resp.Piece == "" {
		s.printf("No piece on %s\n", resp.Square)
		return nil
	}
	if len(resp.Destinations) == 0 {
		s.printf("%s has no legal moves\n", resp.Piece)
		return nil
	}
	s.printf("%s: %s\n", resp.Piece, strings.Join(resp.Destinations, " "))
	return nil
}

func undoHandler(s *Session, args []string) error {
	gameID, err := s.requireGame()
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		if count, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	resp, err := s.Client.UndoMoves(gameID, count)
	if err != nil {
		return err
	}

	s.track(resp)
	s.printf("%sUndid %d move(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func showBoardHandler(s *Session, args []string) error {
	gameID, err := s.requireGame()
	if err != nil {
		return err
	}

	game, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	board, err := s.Client.GetBoard(gameID)
	if err != nil {
		return err
	}
	s.track(game)

	s.printf("\n")
	display.RenderBoard(s.Out, board.Board)

	s.printf("\nTurn: %s | State: %s | Moves: %d\n",
		display.ColorForTurn(game.Turn), game.State, len(game.Moves))

	if len(game.Moves) > 0 {
		var sb strings.Builder
		for i, move := range game.Moves {
			if i%2 == 0 {
				if i > 0 {
					sb.WriteString(" ")
				}
				fmt.Fprintf(&sb, "%d.%s", i/2+1, move)
			} else {
				sb.WriteString(" " + move)
			}
		}
		s.printf("History: %s\n", sb.String())
	}

	if game.LastMove != nil {
		color := "White"
		if game.LastMove.PlayerColor == "b" {
			color = "Black"
		}
		s.printf("Last move: %s by %s\n", game.LastMove.Move, color)
	}
	printStatus(s, game)
	return nil
}

func gameStateHandler(s *Session, args []string) error {
	gameID, err := s.requireGame()
	if err != nil {
		return err
	}

	resp, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	s.track(resp)

	s.printf("%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(s.Out, resp)
	return nil
}

func deleteGameHandler(s *Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.CurrentGame {
		s.CurrentGame = ""
		s.GameState = nil
		s.LastMoveCount = 0
	}
	s.printf("%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func pollHandler(s *Session, args []string) error {
	gameID, err := s.requireGame()
	if err != nil {
		return err
	}

	s.printf("%sWaiting for a change after move %d...%s\n", display.Magenta, s.LastMoveCount, display.Reset)
	resp, err := s.Client.GetGameWithPoll(gameID, s.LastMoveCount)
	if err != nil {
		return err
	}

	if len(resp.Moves) == s.LastMoveCount {
		s.printf("No change\n")
		return nil
	}
	s.track(resp)
	if resp.LastMove != nil {
		s.printf("%sNew move: %s%s\n", display.Green, resp.LastMove.Move, display.Reset)
	} else {
		s.printf("%sMoves now: %d%s\n", display.Green, len(resp.Moves), display.Reset)
	}
	printStatus(s, resp)
	return nil
}

func restoreHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: restore <gameId>")
	}

	resp, err := s.Client.RestoreGame(args[0])
	if err != nil {
		return err
	}

	s.CurrentGame = resp.GameID
	s.track(resp)
	s.printf("%sRestored game %s with %d move(s)%s\n", display.Green, resp.GameID, len(resp.Moves), display.Reset)
	return nil
}

// printStatus reports check and game end
func printStatus(s *Session, resp *core.GameResponse) {
	switch {
	case resp.Checkmate:
		s.printf("%sCheckmate: %s%s\n", display.Yellow, resp.State, display.Reset)
	case resp.Stalemate:
		s.printf("%sStalemate%s\n", display.Yellow, display.Reset)
	case resp.Check != "-" && resp.Check != "":
		s.printf("%sCheck!%s\n", display.Yellow, display.Reset)
	}
}
