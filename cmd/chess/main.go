// FILE: cmd/chess/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/engine"
	"chessrules/internal/service"
	clitransport "chessrules/internal/transport/cli"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func main() {
	svc := service.New(service.Config{
		Logger:        zerolog.Nop(),
		EngineOptions: []engine.Option{engine.RequirePromotionChoice()},
	})
	defer svc.Shutdown(time.Second)

	var input cli.LineReader
	if term.IsTerminal(int(os.Stdin.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			fmt.Printf("Failed to start: %v\n", err)
			os.Exit(1)
		}
		defer rl.Close()
		input = rl
	} else {
		input = cli.NewScanReader(os.Stdin, os.Stdout)
	}

	view := cli.New(input, os.Stdout)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		view.SetTheme(cli.ThemeBrown)
	}

	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	handler.Run()
}
