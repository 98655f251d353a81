package engine

import (
	"math/rand/v2"
	"slices"
	"testing"

	"chessrules/internal/board"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// notations lists every legal move of the side to move, one entry per promotion choice
func notations(s *State) []string {
	var out []string
	for id, moves := range s.AllLegalMoves() {
		p, _ := s.Piece(id)
		for to := range moves {
			if p.Kind == board.Pawn && to.Row == board.LastRow(p.Color) {
				for _, k := range promotionKinds {
					out = append(out, board.FormatMove(p.Square, to, k))
				}
				continue
			}
			out = append(out, board.FormatMove(p.Square, to, board.NoKind))
		}
	}
	slices.Sort(out)
	return out
}

// Random games checked ply by ply against an independent bitboard generator
func TestLegalMovesMatchDragontooth(t *testing.T) {
	games, plies := 6, 80
	if testing.Short() {
		games, plies = 2, 40
	}
	rng := rand.New(rand.NewPCG(7, 11))

	for g := 0; g < games; g++ {
		s := New()
		ref := dragontoothmg.ParseFen(startFEN)
		var history []string

		for ply := 0; ply < plies; ply++ {
			refMoves := ref.GenerateLegalMoves()
			want := make([]string, 0, len(refMoves))
			for i := range refMoves {
				want = append(want, refMoves[i].String())
			}
			slices.Sort(want)

			if diff := cmp.Diff(want, notations(s)); diff != "" {
				t.Fatalf("game %d after %v: legal moves mismatch (-dragontooth +engine):\n%s\n%s",
					g, history, diff, s.Board().ToASCII())
			}
			if len(want) == 0 {
				if !s.Checkmate() && !s.Stalemate() {
					t.Fatalf("game %d after %v: no moves but neither mate nor stalemate", g, history)
				}
				break
			}

			mv := want[rng.IntN(len(want))]
			for i := range refMoves {
				if refMoves[i].String() == mv {
					ref.Apply(refMoves[i])
					break
				}
			}
			if err := s.Play(mv); err != nil {
				t.Fatalf("game %d after %v: Play(%s): %v", g, history, mv, err)
			}
			history = append(history, mv)
		}
	}
}
