// FILE: internal/client/display/board.go
package display

import (
	"fmt"
	"io"
	"strings"
)

// RenderBoard colors the server's ASCII board: white pieces blue, black
// pieces red, file and rank labels cyan
func RenderBoard(w io.Writer, asciiBoard string) {
	lines := strings.Split(strings.TrimRight(asciiBoard, "\n"), "\n")
	last := len(lines) - 1

	for i, line := range lines {
		labelLine := i == 0 || i == last
		var sb strings.Builder
		for _, ch := range line {
			switch {
			case labelLine && ch >= 'a' && ch <= 'h':
				sb.WriteString(Cyan + string(ch) + Reset)
			case ch >= '1' && ch <= '8':
				sb.WriteString(Cyan + string(ch) + Reset)
			case ch >= 'A' && ch <= 'Z':
				sb.WriteString(Blue + string(ch) + Reset)
			case ch >= 'a' && ch <= 'z':
				sb.WriteString(Red + string(ch) + Reset)
			default:
				sb.WriteRune(ch)
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
