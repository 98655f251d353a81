// FILE: internal/cli/cli.go
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"

	"github.com/chzyer/readline"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdMove
	CmdMoves
	CmdUndo
	CmdColor
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m",
		darkBg:  "\033[48;5;22m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m",
		darkBg:  "\033[48;5;240m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// LineReader is satisfied by *readline.Instance
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// scanReader reads plain lines when input is not a terminal
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

// NewScanReader wraps a reader for piped input, prompts go to out
func NewScanReader(in io.Reader, out io.Writer) LineReader {
	return &scanReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *scanReader) SetPrompt(prompt string) {
	r.prompt = prompt
}

func (r *scanReader) Readline() (string, error) {
	fmt.Fprint(r.out, r.prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand prompts and reads one command. EOF reads as quit, ^C as an empty line.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	line, err := c.read(prompt)
	switch {
	case errors.Is(err, io.EOF):
		return &Command{Type: CmdQuit}, nil
	case errors.Is(err, readline.ErrInterrupt):
		return &Command{Type: CmdNone}, nil
	case err != nil:
		return nil, err
	}
	return ParseCommand(line), nil
}

// Ask prompts for a single answer, empty on EOF or interrupt
func (c *CLI) Ask(prompt string) string {
	line, err := c.read(prompt)
	if err != nil {
		return ""
	}
	return line
}

func (c *CLI) read(prompt string) (string, error) {
	c.input.SetPrompt(prompt)
	line, err := c.input.Readline()
	return strings.TrimSpace(line), err
}

func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew}
	case "moves", "m":
		return &Command{Type: CmdMoves, Args: args}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdMove, Args: []string{cmd}}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < board.Size; r++ {
		fmt.Fprintf(&sb, "%d ", board.Size-r)
		for f := 0; f < board.Size; f++ {
			p := b.PieceAt(board.Sq(r, f))

			if c.theme == ThemeOff {
				if p == nil {
					sb.WriteString(". ")
				} else {
					fmt.Fprintf(&sb, "%c ", p.Letter())
				}
				continue
			}

			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}
			if p == nil {
				fmt.Fprintf(&sb, "%s  %s", bg, theme.reset)
				continue
			}
			fg := theme.black
			if p.Color == core.ColorWhite {
				fg = theme.white
			}
			fmt.Fprintf(&sb, "%s%s%c %s", bg, fg, p.Letter(), theme.reset)
		}
		fmt.Fprintf(&sb, " %d\n", board.Size-r)
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

// ShowLegalMoves prints a numbered destination list for one piece
func (c *CLI) ShowLegalMoves(p board.Piece, dests []board.Square) {
	if len(dests) == 0 {
		c.ShowMessage(fmt.Sprintf("%s has no legal moves", p.Name))
		return
	}
	c.ShowMessage(fmt.Sprintf("%s (%s) at %s:", p.Name, p.Kind, p.Square))
	for i, d := range dests {
		c.ShowMessage(fmt.Sprintf("  %d. %s", i+1, d))
	}
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game
  <move>           - Make a move in coordinate notation (e.g. e2e4, e7e8q)
  moves <square>   - List legal destinations of the piece on a square
  undo [count]     - Undo last move(s), default 1
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle detailed move information
  history          - Show game move history
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, <move>, moves <square>, undo, color, verbose, history, help/?, quit")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(moves []string, position string, state core.State) {
	for i := 0; i < len(moves); i += 2 {
		black := "..."
		if i+1 < len(moves) {
			black = moves[i+1]
		}
		c.ShowMessage(fmt.Sprintf("%d. %s | %s", i/2+1, moves[i], black))
	}
	c.ShowMessage(fmt.Sprintf("Position: %s", position))
	c.ShowMessage(fmt.Sprintf("Game state: %s", state))
}

// ShowMove reports a played move; details only in verbose mode
func (c *CLI) ShowMove(result *game.MoveResult) {
	if !c.verbose {
		return
	}
	msg := fmt.Sprintf("%s plays %s (%s)", result.PlayerColor.Name(), result.Move, result.Piece)
	if result.Captured != "" {
		msg += ", captures " + result.Captured
	}
	if result.Castle {
		msg += ", castles"
	}
	c.ShowMessage(msg)
}

func (c *CLI) ShowCheck(color core.Color) {
	c.ShowMessage(fmt.Sprintf("%s is in check!", color.Name()))
}

func (c *CLI) ShowGameOver(state core.State) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s\n", state))
	c.ShowMessage("Start a new game with 'new'.")
}
