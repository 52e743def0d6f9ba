package model

import "github.com/pkg/errors"

var ErrInvalidMove = errors.New("invalid move attempt")

// MoveAttempt is the raw (from, to) pair emitted by a board gesture.
type MoveAttempt struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m MoveAttempt) Validate() error {
	if !m.From.Valid() || !m.To.Valid() {
		return errors.Wrap(ErrInvalidMove, "square out of bounds")
	}
	if m.From == m.To {
		return errors.Wrapf(ErrInvalidMove, "origin equals target %s", m.From)
	}
	return nil
}

func (m MoveAttempt) String() string {
	return m.From.String() + m.To.String()
}

// Move is a fully specified move. Promotion is empty unless a pawn promotes.
type Move struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

func (m Move) Attempt() MoveAttempt {
	return MoveAttempt{From: m.From, To: m.To}
}

func (m Move) IsPromotion() bool {
	return m.Promotion != ""
}

func (m Move) Validate() error {
	if err := m.Attempt().Validate(); err != nil {
		return err
	}
	if m.Promotion != "" && !m.Promotion.IsPromotionChoice() {
		return errors.Wrapf(ErrInvalidPromotion, "%q", m.Promotion)
	}
	return nil
}

// Ply is one half-move of the game record.
type Ply struct {
	Number int    `json:"number"`
	Color  Color  `json:"color"`
	SAN    string `json:"san"`
	UCI    string `json:"uci"`
}
