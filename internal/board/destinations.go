package board

import (
	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/benbeisheim/chessnote-backend/internal/rules"
	"golang.org/x/exp/slices"
)

// Destinations maps each movable square of the side to move to its legal targets.
type Destinations map[model.Square][]model.Square

// ComputeDestinations builds the full map from scratch. It is never patched
// incrementally: castling and en passant rights change targets anywhere on the board.
func ComputeDestinations(pos rules.Position) Destinations {
	dests := make(Destinations)
	for _, sq := range pos.Occupied(pos.Turn()) {
		targets := pos.Targets(sq)
		if len(targets) == 0 {
			continue
		}
		slices.Sort(targets)
		dests[sq] = targets
	}
	return dests
}

func (d Destinations) Allows(from, to model.Square) bool {
	return slices.Contains(d[from], to)
}

func (d Destinations) Origins() []model.Square {
	origins := make([]model.Square, 0, len(d))
	for sq := range d {
		origins = append(origins, sq)
	}
	slices.Sort(origins)
	return origins
}

// Count is the number of distinct (from, to) pairs.
func (d Destinations) Count() int {
	n := 0
	for _, targets := range d {
		n += len(targets)
	}
	return n
}

func (d Destinations) clone() map[model.Square][]model.Square {
	out := make(map[model.Square][]model.Square, len(d))
	for sq, targets := range d {
		out[sq] = slices.Clone(targets)
	}
	return out
}
