package board

import (
	"errors"
	"strings"
	"testing"

	"chessrules/internal/core"

	"github.com/google/go-cmp/cmp"
)

func mustSq(t *testing.T, s string) Square {
	t.Helper()
	sq, err := ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return sq
}

type placement struct {
	kind  Kind
	color core.Color
	sq    string
}

func setup(t *testing.T, ps ...placement) *Board {
	t.Helper()
	b := New()
	for _, p := range ps {
		if _, err := b.Put(p.kind, p.color, mustSq(t, p.sq)); err != nil {
			t.Fatalf("Put(%v, %s, %s): %v", p.kind, p.color, p.sq, err)
		}
	}
	return b
}

func TestStandard(t *testing.T) {
	b := Standard()

	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if got := len(b.Live()); got != 32 {
		t.Fatalf("len(Live()) = %d; want 32", got)
	}

	tests := []struct {
		sq        string
		name      string
		kind      Kind
		color     core.Color
		canCastle bool
	}{
		{"a1", "WR1", Rook, core.ColorWhite, true},
		{"b1", "WN1", Knight, core.ColorWhite, false},
		{"c1", "WB1", Bishop, core.ColorWhite, false},
		{"d1", "WQ1", Queen, core.ColorWhite, false},
		{"e1", "WK", King, core.ColorWhite, true},
		{"f1", "WB2", Bishop, core.ColorWhite, false},
		{"g1", "WN2", Knight, core.ColorWhite, false},
		{"h1", "WR2", Rook, core.ColorWhite, true},
		{"a2", "WP1", Pawn, core.ColorWhite, false},
		{"h2", "WP8", Pawn, core.ColorWhite, false},
		{"a7", "BP8", Pawn, core.ColorBlack, false},
		{"h7", "BP1", Pawn, core.ColorBlack, false},
		{"a8", "BR2", Rook, core.ColorBlack, true},
		{"b8", "BN2", Knight, core.ColorBlack, false},
		{"d8", "BQ1", Queen, core.ColorBlack, false},
		{"e8", "BK", King, core.ColorBlack, true},
		{"g8", "BN1", Knight, core.ColorBlack, false},
		{"h8", "BR1", Rook, core.ColorBlack, true},
	}
	for _, tt := range tests {
		t.Run(tt.sq, func(t *testing.T) {
			p := b.PieceAt(mustSq(t, tt.sq))
			if p == nil {
				t.Fatalf("PieceAt(%s) = nil", tt.sq)
			}
			if p.Name != tt.name || p.Kind != tt.kind || p.Color != tt.color {
				t.Errorf("PieceAt(%s) = %s %s %s; want %s %s %s", tt.sq, p.Name, p.Color, p.Kind, tt.name, tt.color, tt.kind)
			}
			if p.CanCastle != tt.canCastle {
				t.Errorf("%s CanCastle = %v; want %v", tt.name, p.CanCastle, tt.canCastle)
			}
		})
	}

	wantPos := "rnbqkbnrpppppppp" + strings.Repeat(".", 32) + "PPPPPPPPRNBQKBNR"
	if got := b.Position(); got != wantPos {
		t.Errorf("Position() = %q; want %q", got, wantPos)
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    Square
		wantErr bool
	}{
		{"e2", Sq(6, 4), false},
		{"a8", Sq(0, 0), false},
		{"h1", Sq(7, 7), false},
		{"E2", Sq(6, 4), false},
		{"i1", Square{}, true},
		{"a9", Square{}, true},
		{"a0", Square{}, true},
		{"e", Square{}, true},
		{"e22", Square{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSquare(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSquare(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSquare(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}

	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			sq := Sq(r, c)
			back, err := ParseSquare(sq.String())
			if err != nil || back != sq {
				t.Errorf("ParseSquare(%q) = %v, %v; want %v", sq.String(), back, err, sq)
			}
		}
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in      string
		from    string
		to      string
		promo   Kind
		wantErr bool
		is      error
	}{
		{"e2e4", "e2", "e4", NoKind, false, nil},
		{"e7e8q", "e7", "e8", Queen, false, nil},
		{"a2a1N", "a2", "a1", Knight, false, nil},
		{"e7e8k", "", "", NoKind, true, ErrPromotionPiece},
		{"e2", "", "", NoKind, true, nil},
		{"z2e4", "", "", NoKind, true, ErrSquareRange},
		{"e2e9", "", "", NoKind, true, ErrSquareRange},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, promo, err := ParseMove(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMove(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("ParseMove(%q) error = %v; want %v", tt.in, err, tt.is)
			}
			if tt.wantErr {
				return
			}
			if from != mustSq(t, tt.from) || to != mustSq(t, tt.to) || promo != tt.promo {
				t.Errorf("ParseMove(%q) = %v %v %v; want %s %s %v", tt.in, from, to, promo, tt.from, tt.to, tt.promo)
			}
			if got := FormatMove(from, to, promo); got != strings.ToLower(tt.in) {
				t.Errorf("FormatMove() = %q; want %q", got, strings.ToLower(tt.in))
			}
		})
	}
}

func TestPut(t *testing.T) {
	b := New()
	k, err := b.Put(King, core.ColorWhite, mustSq(t, "e1"))
	if err != nil {
		t.Fatalf("Put king: %v", err)
	}
	if !b.Piece(k).CanCastle || b.Piece(k).Name != "WK" {
		t.Errorf("king = %+v; want WK with castling rights", *b.Piece(k))
	}

	r, _ := b.Put(Rook, core.ColorWhite, mustSq(t, "d4"))
	if b.Piece(r).CanCastle {
		t.Error("rook off its home corner should not have castling rights")
	}
	q1, _ := b.Put(Queen, core.ColorBlack, mustSq(t, "d8"))
	q2, _ := b.Put(Queen, core.ColorBlack, mustSq(t, "a5"))
	if b.Piece(q1).Name != "BQ1" || b.Piece(q2).Name != "BQ2" {
		t.Errorf("queen names = %s, %s; want BQ1, BQ2", b.Piece(q1).Name, b.Piece(q2).Name)
	}

	if _, err := b.Put(Pawn, core.ColorWhite, mustSq(t, "e1")); err == nil {
		t.Error("Put on an occupied square should fail")
	}
	if _, err := b.Put(Pawn, core.ColorWhite, Sq(8, 0)); err == nil {
		t.Error("Put off the board should fail")
	}
}

func TestCandidates(t *testing.T) {
	w, bl := core.ColorWhite, core.ColorBlack

	tests := []struct {
		name    string
		pieces  []placement
		mover   string
		prepare func(t *testing.T, b *Board)
		want    []string
		capture map[string]string // destination -> square of the captured piece
	}{
		{
			name:   "knight in the corner",
			pieces: []placement{{Knight, w, "a1"}},
			mover:  "a1",
			want:   []string{"b3", "c2"},
		},
		{
			name:   "rook on an empty board",
			pieces: []placement{{Rook, w, "d4"}},
			mover:  "d4",
			want:   []string{"d8", "d7", "d6", "d5", "a4", "b4", "c4", "e4", "f4", "g4", "h4", "d3", "d2", "d1"},
		},
		{
			name:   "slider stops at own piece and on capture",
			pieces: []placement{{Rook, w, "a1"}, {Pawn, w, "a3"}, {Pawn, bl, "d1"}},
			mover:  "a1",
			want:   []string{"a2", "b1", "c1", "d1"},
			capture: map[string]string{
				"d1": "d1",
			},
		},
		{
			name:   "king away from home",
			pieces: []placement{{King, w, "e4"}},
			mover:  "e4",
			want:   []string{"d5", "e5", "f5", "d4", "f4", "d3", "e3", "f3"},
		},
		{
			name:   "pawn single and double push",
			pieces: []placement{{Pawn, w, "e2"}},
			mover:  "e2",
			want:   []string{"e4", "e3"},
		},
		{
			name:   "pawn double push blocked on the far square",
			pieces: []placement{{Pawn, w, "e2"}, {Knight, bl, "e4"}},
			mover:  "e2",
			want:   []string{"e3"},
		},
		{
			name:   "pawn fully blocked",
			pieces: []placement{{Pawn, w, "e2"}, {Knight, bl, "e3"}},
			mover:  "e2",
			want:   []string{},
		},
		{
			name:   "black pawn moves down the board",
			pieces: []placement{{Pawn, bl, "d7"}, {Bishop, w, "e6"}},
			mover:  "d7",
			want:   []string{"d6", "e6", "d5"},
			capture: map[string]string{
				"e6": "e6",
			},
		},
		{
			name:   "en passant captures the adjacent pawn",
			pieces: []placement{{Pawn, w, "e5"}, {Pawn, bl, "d5"}},
			mover:  "e5",
			prepare: func(t *testing.T, b *Board) {
				if err := b.SetEnPassant(b.At(mustSq(t, "d5"))); err != nil {
					t.Fatal(err)
				}
			},
			want: []string{"d6", "e6"},
			capture: map[string]string{
				"d6": "d5",
			},
		},
		{
			name:   "stale en passant flag is ignored",
			pieces: []placement{{Pawn, w, "e5"}, {Pawn, bl, "d5"}, {Knight, bl, "b8"}},
			mover:  "e5",
			prepare: func(t *testing.T, b *Board) {
				if err := b.SetEnPassant(b.At(mustSq(t, "d5"))); err != nil {
					t.Fatal(err)
				}
				b.SetLastMoved(b.At(mustSq(t, "b8")))
			},
			want: []string{"e6"},
		},
		{
			name:   "castling both sides",
			pieces: []placement{{King, w, "e1"}, {Rook, w, "a1"}, {Rook, w, "h1"}},
			mover:  "e1",
			want:   []string{"d2", "e2", "f2", "c1", "d1", "f1", "g1"},
		},
		{
			name:   "queenside castling needs b1 empty",
			pieces: []placement{{King, bl, "e8"}, {Rook, bl, "a8"}, {Knight, bl, "b8"}, {Rook, bl, "h8"}},
			mover:  "e8",
			want:   []string{"d8", "f8", "g8", "d7", "e7", "f7"},
		},
		{
			name:   "moved rook cannot castle",
			pieces: []placement{{King, w, "e1"}, {Rook, w, "h1"}},
			mover:  "e1",
			prepare: func(t *testing.T, b *Board) {
				b.PieceAt(mustSq(t, "h1")).CanCastle = false
			},
			want: []string{"d1", "f1", "d2", "e2", "f2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setup(t, tt.pieces...)
			if tt.prepare != nil {
				tt.prepare(t, b)
			}
			moves := Candidates(b, b.At(mustSq(t, tt.mover)))

			want := make(Moves)
			for _, s := range tt.want {
				want[mustSq(t, s)] = NoPiece
			}
			for dest, victim := range tt.capture {
				want[mustSq(t, dest)] = b.At(mustSq(t, victim))
			}
			if diff := cmp.Diff(want.Destinations(), moves.Destinations()); diff != "" {
				t.Errorf("destinations mismatch (-want +got):\n%s", diff)
			}
			for dest, victim := range want {
				if got := moves[dest]; got != victim {
					t.Errorf("moves[%s] = %d; want %d", dest, got, victim)
				}
			}
		})
	}
}

func TestCandidatesNeverTargetOwnPieces(t *testing.T) {
	b := Standard()
	total := 0
	for _, id := range b.Live() {
		mover := b.Piece(id)
		for dest, captured := range Candidates(b, id) {
			total++
			if occ := b.PieceAt(dest); occ != nil && occ.Color == mover.Color {
				t.Errorf("%s may move onto own piece %s at %s", mover.Name, occ.Name, dest)
			}
			if captured != NoPiece && b.Piece(captured).Color == mover.Color {
				t.Errorf("%s captures own piece %s", mover.Name, b.Piece(captured).Name)
			}
		}
	}
	// 16 pawn moves and 4 knight moves per side
	if total != 40 {
		t.Errorf("total candidates = %d; want 40", total)
	}
}

func TestDestinationsOrder(t *testing.T) {
	m := Moves{Sq(5, 2): NoPiece, Sq(0, 7): NoPiece, Sq(5, 0): NoPiece}
	want := []Square{Sq(0, 7), Sq(5, 0), Sq(5, 2)}
	if diff := cmp.Diff(want, m.Destinations()); diff != "" {
		t.Errorf("Destinations() mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := Standard()
	c := b.Clone()

	pawn := c.At(mustSq(t, "e2"))
	c.Relocate(pawn, mustSq(t, "e4"))
	c.Piece(pawn).EnPassant = true
	c.Remove(c.At(mustSq(t, "d7")))

	if b.At(mustSq(t, "e2")) != pawn || !b.Empty(mustSq(t, "e4")) {
		t.Error("relocating on the clone changed the original grid")
	}
	if b.Piece(pawn).EnPassant || b.Piece(pawn).Square != mustSq(t, "e2") {
		t.Error("mutating a cloned piece changed the original")
	}
	if len(b.Live()) != 32 || len(c.Live()) != 31 {
		t.Errorf("live counts = %d, %d; want 32, 31", len(b.Live()), len(c.Live()))
	}
	if err := c.Validate(); err != nil {
		t.Errorf("clone Validate() = %v", err)
	}
}

func TestToASCII(t *testing.T) {
	lines := strings.Split(Standard().ToASCII(), "\n")
	if len(lines) != 10 {
		t.Fatalf("ToASCII() has %d lines; want 10", len(lines))
	}
	want := map[int]string{
		0: "  a b c d e f g h",
		1: "8 r n b q k b n r  8",
		5: "4 . . . . . . . .  4",
		8: "1 R N B Q K B N R  1",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q; want %q", i, lines[i], w)
		}
	}
}
