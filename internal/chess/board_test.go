package chess_test

import (
	"testing"

	"github.com/fowchess/planner/internal/chess"
)

func TestFENRoundTrip(t *testing.T) {
	tests := []string{
		chess.StartFEN,
		"r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQ1RK1 b kq - 5 4",
		"rnbqkbnr/ppp2ppp/8/2Ppp3/8/8/PP1PPPPP/RNBQKBNR w KQkq d6 0 3",
	}

	for _, fen := range tests {
		t.Run(fen, func(t *testing.T) {
			b, err := chess.NewBoard(fen)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := b.FEN(); got != fen {
				t.Errorf("fen round-trip: got %q, want %q", got, fen)
			}
		})
	}
}

func TestStartposLegalMoveCount(t *testing.T) {
	b, err := chess.NewBoard(chess.StartFEN)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	moves := b.LegalMoves()
	if len(moves) != 20 {
		t.Errorf("startpos legal moves: got %d, want 20", len(moves))
	}
}

func TestApplyIsNoOpOnReceiver(t *testing.T) {
	b, err := chess.NewBoard(chess.StartFEN)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	before := b.FEN()
	moves := b.LegalMoves()
	if len(moves) == 0 {
		t.Fatal("expected legal moves")
	}

	_ = b.Apply(moves[0])
	if after := b.FEN(); after != before {
		t.Errorf("Apply mutated receiver: before %q, after %q", before, after)
	}
}

func TestCastlingRevokedByRookCapture(t *testing.T) {
	// black rook on a8 can be captured by a white rook on a1-file after
	// clearing the file; castling rights for black queenside must drop.
	b, err := chess.NewBoard("r3k3/8/8/8/8/8/8/R3K2R w KQq - 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var capture chess.Move
	found := false
	for _, m := range b.LegalMoves() {
		if m.To == chess.ParseSquare("a8") {
			capture = m
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a legal capture of a8")
	}

	nb := b.Apply(capture)
	if nb.Castling&chess.BlackQueenside != 0 {
		t.Errorf("black queenside castling rights should be revoked after rook is captured")
	}
}

func TestEnPassantCapture(t *testing.T) {
	b, err := chess.NewBoard("rnbqkbnr/ppp1pppp/8/8/2Pp4/8/PP1PPPPP/RNBQKBNR b KQkq c3 0 3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var ep chess.Move
	found := false
	for _, m := range b.LegalMoves() {
		if m.Flag == chess.EnPassantCapture {
			ep = m
			found = true
		}
	}
	if !found {
		t.Fatal("expected an en passant capture to be legal")
	}

	nb := b.Apply(ep)
	if nb.PieceAt(chess.ParseSquare("c4")) != chess.NoPiece {
		t.Errorf("captured pawn should be removed from c4")
	}
}
