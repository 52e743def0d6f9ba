// Package rules is the boundary to the chess rules library. Nothing outside
// this package knows how legality is computed.
package rules

import (
	"strings"

	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrParse       = errors.New("pgn parse failure")
)

// Position is a complete game state: board, side to move, castling and
// en passant rights, counters and the move record that led to it.
// A Position is never modified; Apply returns a new one.
// The zero value is the standard starting position.
type Position struct {
	game *chess.Game
}

func NewPosition() Position {
	return Position{game: chess.NewGame()}
}

// ParsePGN reads a game record. Blank text is the empty game.
func ParsePGN(text string) (Position, error) {
	if strings.TrimSpace(text) == "" {
		return NewPosition(), nil
	}
	opt, err := chess.PGN(strings.NewReader(text))
	if err != nil {
		return Position{}, errors.Wrap(ErrParse, err.Error())
	}
	return Position{game: chess.NewGame(opt)}, nil
}

func (p Position) current() *chess.Game {
	if p.game == nil {
		return chess.NewGame()
	}
	return p.game
}

func (p Position) Turn() model.Color {
	return fromChessColor(p.current().Position().Turn())
}

// FEN is the board layout encoding handed to the board widget.
func (p Position) FEN() string {
	return p.current().Position().String()
}

// PGN is the serialized game record.
func (p Position) PGN() string {
	return p.current().String()
}

func (p Position) Plies() int {
	return len(p.current().Moves())
}

// LegalMoves lists every legal move for the side to move. A promoting pawn
// move appears once per promotion piece.
func (p Position) LegalMoves() []model.Move {
	valid := p.current().ValidMoves()
	moves := make([]model.Move, 0, len(valid))
	for _, m := range valid {
		moves = append(moves, fromChessMove(m))
	}
	return moves
}

// Targets returns the distinct legal destinations of the piece on sq.
func (p Position) Targets(sq model.Square) []model.Square {
	var targets []model.Square
	seen := make(map[model.Square]bool)
	for _, m := range p.LegalMoves() {
		if m.From != sq || seen[m.To] {
			continue
		}
		seen[m.To] = true
		targets = append(targets, m.To)
	}
	return targets
}

func (p Position) Pieces() map[model.Square]model.Piece {
	pieces := make(map[model.Square]model.Piece)
	for sq, piece := range p.current().Position().Board().SquareMap() {
		if piece == chess.NoPiece {
			continue
		}
		pieces[fromChessSquare(sq)] = model.Piece{
			Type:  fromChessPieceType(piece.Type()),
			Color: fromChessColor(piece.Color()),
		}
	}
	return pieces
}

// Occupied returns the squares holding a piece of the given color.
func (p Position) Occupied(color model.Color) []model.Square {
	var squares []model.Square
	for sq, piece := range p.Pieces() {
		if piece.Color == color {
			squares = append(squares, sq)
		}
	}
	return squares
}

// Apply plays m and returns the resulting position. For a move that does
// not promote, m.Promotion is ignored, so a queen placeholder is harmless.
// A promoting move needs an explicit piece.
func (p Position) Apply(m model.Move) (Position, error) {
	if err := m.Validate(); err != nil {
		return p, errors.Wrap(ErrIllegalMove, err.Error())
	}
	next := p.current().Clone()
	from, to, promo := toChessSquare(m.From), toChessSquare(m.To), toChessPromotion(m.Promotion)
	for _, vm := range next.ValidMoves() {
		if vm.S1() != from || vm.S2() != to {
			continue
		}
		if vm.Promo() != chess.NoPieceType && vm.Promo() != promo {
			continue
		}
		if err := next.Move(vm); err != nil {
			return p, errors.Wrapf(ErrIllegalMove, "%s: %v", m.Attempt(), err)
		}
		return Position{game: next}, nil
	}
	return p, errors.Wrapf(ErrIllegalMove, "%s%s", m.Attempt(), m.Promotion.Notation())
}

// InCheck reports whether the side to move has its king attacked. This
// holds for set-up positions too, where there is no last move to look at.
func (p Position) InCheck() bool {
	pieces := p.Pieces()
	turn := p.Turn()
	king, ok := kingSquare(pieces, turn)
	if !ok {
		return false
	}
	return attacked(pieces, king, turn.Opposite())
}

// Outcome is the PGN result token: "*", "1-0", "0-1" or "1/2-1/2".
// A record without a result token is still in progress.
func (p Position) Outcome() string {
	return string(p.outcome())
}

func (p Position) outcome() chess.Outcome {
	o := p.current().Outcome()
	if o == "" {
		return chess.NoOutcome
	}
	return o
}

// Method names how a finished game ended; empty while it is in progress.
func (p Position) Method() string {
	if p.outcome() == chess.NoOutcome {
		return ""
	}
	return p.current().Method().String()
}

// History lists the plies of the game record in order.
func (p Position) History() []model.Ply {
	g := p.current()
	moves := g.Moves()
	positions := g.Positions()
	plies := make([]model.Ply, 0, len(moves))
	offset := 0
	if len(positions) > 0 && positions[0].Turn() == chess.Black {
		offset = 1
	}
	for i, m := range moves {
		pos := positions[i]
		plies = append(plies, model.Ply{
			Number: (i+offset)/2 + 1,
			Color:  fromChessColor(pos.Turn()),
			SAN:    chess.AlgebraicNotation{}.Encode(pos, m),
			UCI:    chess.UCINotation{}.Encode(pos, m),
		})
	}
	return plies
}

// Equivalent reports whether both positions have the same side to move
// and the same set of legal moves.
func (p Position) Equivalent(o Position) bool {
	if p.Turn() != o.Turn() {
		return false
	}
	a, b := p.LegalMoves(), o.LegalMoves()
	if len(a) != len(b) {
		return false
	}
	set := make(map[model.Move]bool, len(a))
	for _, m := range a {
		set[m] = true
	}
	for _, m := range b {
		if !set[m] {
			return false
		}
	}
	return true
}
