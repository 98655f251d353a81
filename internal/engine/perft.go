package engine

import "chessrules/internal/board"

var promotionKinds = []board.Kind{board.Queen, board.Rook, board.Bishop, board.Knight}

// Perft counts the leaf positions reachable in exactly depth plies.
// Each promotion choice counts as a separate move.
func (s *State) Perft(depth int) int {
	if depth <= 0 {
		return 1
	}
	nodes := 0
	for id, moves := range s.legal {
		p := s.board.Piece(id)
		for to := range moves {
			kinds := []board.Kind{board.NoKind}
			if p.Kind == board.Pawn && to.Row == board.LastRow(p.Color) {
				kinds = promotionKinds
			}
			for _, promo := range kinds {
				if depth == 1 {
					nodes++
					continue
				}
				next := s.Clone()
				if err := next.Execute(id, to, promo); err != nil {
					continue
				}
				nodes += next.Perft(depth - 1)
			}
		}
	}
	return nodes
}
