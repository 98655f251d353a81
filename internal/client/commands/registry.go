// FILE: internal/client/commands/registry.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

// ErrExit is returned by the exit command
var ErrExit = errors.New("exit")

// Session is the client state shared by all commands
type Session struct {
	APIBaseURL    string
	Client        *api.Client
	Out           io.Writer
	CurrentGame   string
	LastMoveCount int
	GameState     *core.GameResponse
	Verbose       bool
}

// track remembers the latest server view of the current game
func (s *Session) track(resp *core.GameResponse) {
	s.GameState = resp
	s.LastMoveCount = len(resp.Moves)
}

func (s *Session) requireGame() (string, error) {
	if s.CurrentGame == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return s.CurrentGame, nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Group       string
	Handler     func(*Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *Session
	commands map[string]*Command
	order    []*Command
}

func NewRegistry(session *Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Group:       "Utility",
		Handler:     r.helpHandler,
	})
	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Group:       "Utility",
		Handler:     func(*Session, []string) error { return ErrExit },
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
	r.order = append(r.order, cmd)
}

// Execute runs one input line. Only ErrExit is returned, other errors are printed.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	// Trailing -v turns on verbose output for this command only
	r.session.Verbose = false
	if parts[len(parts)-1] == "-v" {
		r.session.Verbose = true
		parts = parts[:len(parts)-1]
		if len(parts) == 0 {
			return nil
		}
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		r.session.printf("%sUnknown command: %s%s\n", display.Red, parts[0], display.Reset)
		r.session.printf("Type 'help' for available commands\n")
		return nil
	}

	r.session.Client.SetVerbose(r.session.Verbose)

	err := cmd.Handler(r.session, parts[1:])
	if errors.Is(err, ErrExit) {
		return err
	}
	if err != nil {
		r.session.printf("%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return nil
}

func (r *Registry) helpHandler(s *Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.printf("\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			s.printf("Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		s.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	s.printf("\n%sAvailable Commands:%s\n", display.Cyan, display.Reset)
	for _, group := range []string{"Game", "Utility"} {
		s.printf("\n%s%s Commands:%s\n", display.Yellow, group, display.Reset)
		for _, cmd := range r.order {
			if cmd.Group != group {
				continue
			}
			s.printf("  [%s%s%s] %-10s %s\n", display.Cyan, cmd.ShortName, display.Reset, cmd.Name, cmd.Description)
		}
	}

	s.printf("\nType 'help <command>' for detailed usage\n")
	s.printf("Add '-v' to any command for verbose output\n")
	return nil
}

// Names lists registered long command names, used for completion
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, cmd := range r.order {
		names = append(names, cmd.Name)
	}
	slices.Sort(names)
	return names
}
