// Package render draws a board as SVG for hosts that cannot run the
// interactive board widget.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Board is what gets drawn.
type Board struct {
	Pieces   map[model.Square]model.Piece
	Turn     model.Color
	LastMove *model.MoveAttempt
	Pending  *model.MoveAttempt
	IsCheck  bool
}

type Options struct {
	Orientation model.Color
	SquareSize  int
	Light       string
	Dark        string
	LastMove    string
	Pending     string
	Check       string
	Coordinates bool
}

func DefaultOptions() Options {
	return Options{
		Orientation: model.White,
		SquareSize:  45,
		Light:       "#f0d9b5",
		Dark:        "#b58863",
		LastMove:    "#cdd26a",
		Pending:     "#7fa650",
		Check:       "#e55c5c",
		Coordinates: true,
	}
}

var glyphs = map[model.Color]map[model.PieceType]string{
	model.White: {
		model.King: "♔", model.Queen: "♕", model.Rook: "♖",
		model.Bishop: "♗", model.Knight: "♘", model.Pawn: "♙",
	},
	model.Black: {
		model.King: "♚", model.Queen: "♛", model.Rook: "♜",
		model.Bishop: "♝", model.Knight: "♞", model.Pawn: "♟",
	},
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG writes the board picture to w.
func SVG(w io.Writer, b Board, opts Options) error {
	if opts.SquareSize <= 0 {
		return errors.Errorf("square size %d", opts.SquareSize)
	}
	if !opts.Orientation.Valid() {
		opts.Orientation = model.White
	}
	ew := &errWriter{w: w}
	size := opts.SquareSize * 8
	canvas := svg.New(ew)
	canvas.Start(size, size)

	marked := highlights(b, opts)
	for sq := model.Square(0); sq < model.NumSquares; sq++ {
		x, y := origin(sq, opts)
		fill := opts.Light
		if (sq.File()+sq.Rank())%2 == 0 {
			fill = opts.Dark
		}
		if c, ok := marked[sq]; ok {
			fill = c
		}
		canvas.Rect(x, y, opts.SquareSize, opts.SquareSize, "fill:"+fill)
	}

	if opts.Coordinates {
		coordinates(canvas, opts)
	}

	// fixed draw order keeps the output byte-stable
	squares := make([]model.Square, 0, len(b.Pieces))
	for sq := range b.Pieces {
		squares = append(squares, sq)
	}
	slices.Sort(squares)
	fontSize := opts.SquareSize * 4 / 5
	for _, sq := range squares {
		p := b.Pieces[sq]
		glyph, ok := glyphs[p.Color][p.Type]
		if !ok {
			continue
		}
		x, y := origin(sq, opts)
		canvas.Text(x+opts.SquareSize/2, y+opts.SquareSize*4/5, glyph,
			fmt.Sprintf("font-size:%dpx;text-anchor:middle", fontSize))
	}
	canvas.End()
	return ew.err
}

func highlights(b Board, opts Options) map[model.Square]string {
	marked := make(map[model.Square]string)
	if b.LastMove != nil {
		marked[b.LastMove.From] = opts.LastMove
		marked[b.LastMove.To] = opts.LastMove
	}
	if b.Pending != nil {
		marked[b.Pending.From] = opts.Pending
		marked[b.Pending.To] = opts.Pending
	}
	if b.IsCheck {
		for sq, p := range b.Pieces {
			if p.Type == model.King && p.Color == b.Turn {
				marked[sq] = opts.Check
			}
		}
	}
	return marked
}

func coordinates(canvas *svg.SVG, opts Options) {
	style := fmt.Sprintf("font-size:%dpx;fill:#333", opts.SquareSize/5)
	for i := 0; i < 8; i++ {
		file, _ := model.NewSquare(i, 0)
		rank, _ := model.NewSquare(0, i)
		fx, _ := origin(file, opts)
		_, ry := origin(rank, opts)
		canvas.Text(fx+opts.SquareSize-opts.SquareSize/5, opts.SquareSize*8-2, string(rune('a'+i)), style)
		canvas.Text(2, ry+opts.SquareSize/4, fmt.Sprint(i+1), style)
	}
}

// origin is the top-left corner of sq for the given orientation.
func origin(sq model.Square, opts Options) (int, int) {
	col, row := sq.File(), 7-sq.Rank()
	if opts.Orientation == model.Black {
		col, row = 7-sq.File(), sq.Rank()
	}
	return col * opts.SquareSize, row * opts.SquareSize
}
