// Package main implements an interactive debugging client for the chess server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/commands"
	"chessrules/internal/client/display"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("url", "http://localhost:8080", "API base URL")
	flag.Parse()

	s := &commands.Session{
		APIBaseURL: *apiURL,
		Client:     api.New(*apiURL, os.Stdout),
		Out:        os.Stdout,
	}
	registry := commands.NewRegistry(s)

	items := make([]readline.PrefixCompleterInterface, 0)
	for _, name := range registry.Names() {
		items = append(items, readline.PcItem(name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     ".chess_history",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChess Debug Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		if errors.Is(registry.Execute(strings.TrimSpace(line)), commands.ErrExit) {
			fmt.Printf("%sGoodbye!%s\n", display.Cyan, display.Reset)
			break
		}
	}
}

func buildPrompt(s *commands.Session) string {
	promptStr := "chess"
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		promptStr += display.Yellow + " [" + display.White + id + display.Yellow + "]"
	}
	if st := s.GameState; st != nil {
		if st.State == "ongoing" {
			promptStr += " - Turn:" + display.ColorForTurn(st.Turn) + display.Yellow
		} else {
			promptStr += " - " + st.State
		}
	}
	return display.Prompt(promptStr)
}
