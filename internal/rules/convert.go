package rules

import (
	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/notnil/chess"
)

// Both libraries index squares a1 = 0 .. h8 = 63, file first.
func toChessSquare(sq model.Square) chess.Square {
	return chess.Square(sq)
}

func fromChessSquare(sq chess.Square) model.Square {
	return model.Square(sq)
}

func fromChessColor(c chess.Color) model.Color {
	if c == chess.White {
		return model.White
	}
	return model.Black
}

func fromChessPieceType(p chess.PieceType) model.PieceType {
	switch p {
	case chess.King:
		return model.King
	case chess.Queen:
		return model.Queen
	case chess.Rook:
		return model.Rook
	case chess.Bishop:
		return model.Bishop
	case chess.Knight:
		return model.Knight
	case chess.Pawn:
		return model.Pawn
	}
	return ""
}

func toChessPromotion(p model.PieceType) chess.PieceType {
	switch p {
	case model.Queen:
		return chess.Queen
	case model.Rook:
		return chess.Rook
	case model.Bishop:
		return chess.Bishop
	case model.Knight:
		return chess.Knight
	}
	return chess.NoPieceType
}

func fromChessMove(m *chess.Move) model.Move {
	return model.Move{
		From:      fromChessSquare(m.S1()),
		To:        fromChessSquare(m.S2()),
		Promotion: fromChessPieceType(m.Promo()),
	}
}
