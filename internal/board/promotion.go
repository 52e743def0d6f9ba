package board

import "github.com/benbeisheim/chessnote-backend/internal/model"

// promotionResolver holds a move that is waiting for the user's piece choice.
// There is at most one; it is cleared only by reset.
type promotionResolver struct {
	move *model.MoveAttempt
}

func (r *promotionResolver) suspend(m model.MoveAttempt) bool {
	if r.move != nil {
		return false
	}
	r.move = &m
	return true
}

func (r *promotionResolver) pending() (model.MoveAttempt, bool) {
	if r.move == nil {
		return model.MoveAttempt{}, false
	}
	return *r.move, true
}

// resolve builds the full move for the given piece without clearing the request.
func (r *promotionResolver) resolve(piece model.PieceType) (model.Move, bool) {
	if r.move == nil || !piece.IsPromotionChoice() {
		return model.Move{}, false
	}
	return model.Move{From: r.move.From, To: r.move.To, Promotion: piece}, true
}

func (r *promotionResolver) reset() {
	r.move = nil
}
