package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrInvalidSquare = errors.New("invalid square")

// Square is one of the 64 board coordinates, a1 = 0 and h8 = 63,
// counted file first (b1 = 1).
type Square uint8

const NumSquares = 64

func NewSquare(file, rank int) (Square, error) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, errors.Wrapf(ErrInvalidSquare, "file %d rank %d", file, rank)
	}
	return Square(rank*8 + file), nil
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return 0, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	sq, err := NewSquare(file, rank)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}
	return sq, nil
}

func (s Square) Valid() bool {
	return s < NumSquares
}

func (s Square) File() int {
	return int(s) % 8
}

func (s Square) Rank() int {
	return int(s) / 8
}

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Square(%d)", uint8(s))
	}
	return fmt.Sprintf("%c%d", s.File()+97, s.Rank()+1)
}

func (s Square) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Wrapf(ErrInvalidSquare, "%d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PromotionChoices is the set offered to the user when a pawn reaches the last rank.
var PromotionChoices = []PieceType{Queen, Rook, Bishop, Knight}

var ErrInvalidPromotion = errors.New("invalid promotion piece")

// ParsePromotion accepts a piece name ("knight") or its letter ("n", "N").
func ParsePromotion(s string) (PieceType, error) {
	switch s {
	case "queen", "q", "Q":
		return Queen, nil
	case "rook", "r", "R":
		return Rook, nil
	case "bishop", "b", "B":
		return Bishop, nil
	case "knight", "n", "N":
		return Knight, nil
	}
	return "", errors.Wrapf(ErrInvalidPromotion, "%q", s)
}

func (p PieceType) IsPromotionChoice() bool {
	for _, c := range PromotionChoices {
		if p == c {
			return true
		}
	}
	return false
}

func (p PieceType) Notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}
