package model

// BoardState names the two states of move mediation.
type BoardState string

const (
	StateIdle                    BoardState = "idle"
	StateAwaitingPromotionChoice BoardState = "awaitingPromotionChoice"
)

// BoardView is everything the board widget needs to draw and constrain the board.
type BoardView struct {
	FEN          string              `json:"fen"`
	TurnColor    Color               `json:"turnColor"`
	LastMove     *MoveAttempt        `json:"lastMove"` // Made nullable
	Destinations map[Square][]Square `json:"dests"`
	Free         bool                `json:"free"`
	State        BoardState          `json:"state"`
	Pending      *MoveAttempt        `json:"pendingMove"` // Made nullable
	PGN          string              `json:"pgn"`
	History      []Ply               `json:"history"`
	IsCheck      bool                `json:"isCheck"`
	Outcome      string              `json:"outcome"`
	Method       string              `json:"method,omitempty"`
}

// PromotionRequest is sent to the widget when a gesture needs a piece choice.
type PromotionRequest struct {
	From    Square      `json:"from"`
	To      Square      `json:"to"`
	Choices []PieceType `json:"choices"`
}
