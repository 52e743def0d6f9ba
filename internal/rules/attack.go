package rules

import "github.com/benbeisheim/chessnote-backend/internal/model"

var (
	knightSteps   = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps     = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	straightLines = [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	diagonalLines = [][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

func offset(sq model.Square, df, dr int) (model.Square, bool) {
	to, err := model.NewSquare(sq.File()+df, sq.Rank()+dr)
	return to, err == nil
}

func kingSquare(pieces map[model.Square]model.Piece, color model.Color) (model.Square, bool) {
	for sq, p := range pieces {
		if p.Type == model.King && p.Color == color {
			return sq, true
		}
	}
	return 0, false
}

// attacked reports whether a piece of color by attacks sq.
func attacked(pieces map[model.Square]model.Piece, sq model.Square, by model.Color) bool {
	is := func(at model.Square, types ...model.PieceType) bool {
		p, ok := pieces[at]
		if !ok || p.Color != by {
			return false
		}
		for _, t := range types {
			if p.Type == t {
				return true
			}
		}
		return false
	}

	// a white pawn attacks upwards, so it sits one rank below sq
	dr := -1
	if by == model.Black {
		dr = 1
	}
	for _, df := range []int{-1, 1} {
		if at, ok := offset(sq, df, dr); ok && is(at, model.Pawn) {
			return true
		}
	}
	for _, s := range knightSteps {
		if at, ok := offset(sq, s[0], s[1]); ok && is(at, model.Knight) {
			return true
		}
	}
	for _, s := range kingSteps {
		if at, ok := offset(sq, s[0], s[1]); ok && is(at, model.King) {
			return true
		}
	}
	slide := func(lines [][2]int, types ...model.PieceType) bool {
		for _, l := range lines {
			at, ok := offset(sq, l[0], l[1])
			for ok {
				if _, occupied := pieces[at]; occupied {
					if is(at, types...) {
						return true
					}
					break
				}
				at, ok = offset(at, l[0], l[1])
			}
		}
		return false
	}
	return slide(straightLines, model.Rook, model.Queen) || slide(diagonalLines, model.Bishop, model.Queen)
}
