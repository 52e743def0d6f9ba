package service

import (
	"io"

	"github.com/benbeisheim/chessnote-backend/internal/board"
	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/benbeisheim/chessnote-backend/internal/notes"
	"github.com/benbeisheim/chessnote-backend/internal/render"
	"github.com/pkg/errors"
)

type BoardService struct {
	boardManager *BoardManager
	store        *notes.Store
	initialText  string
}

func NewBoardService(boardManager *BoardManager, store *notes.Store, initialText string) *BoardService {
	return &BoardService{
		boardManager: boardManager,
		store:        store,
		initialText:  initialText,
	}
}

// CreateBoard opens a board on text, or on the configured initial text when
// text is nil.
func (bs *BoardService) CreateBoard(text *string) (string, model.BoardView, error) {
	t := bs.initialText
	if text != nil {
		t = *text
	}
	s, err := bs.boardManager.CreateBoard(t)
	if err != nil {
		return "", model.BoardView{}, errors.Wrap(err, "failed to create board")
	}
	return s.ID, s.View(), nil
}

func (bs *BoardService) DeleteBoard(boardID string) error {
	return bs.boardManager.DeleteBoard(boardID)
}

func (bs *BoardService) SetText(boardID string, text string) (model.BoardView, error) {
	s, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return model.BoardView{}, err
	}
	return s.SetText(text), nil
}

func (bs *BoardService) GetView(boardID string) (model.BoardView, error) {
	s, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return model.BoardView{}, err
	}
	return s.View(), nil
}

// GetNote returns the text as last saved to the host note.
func (bs *BoardService) GetNote(boardID string) (notes.Note, error) {
	if _, err := bs.boardManager.GetBoard(boardID); err != nil {
		return notes.Note{}, err
	}
	return bs.store.Get(boardID)
}

// HandleGesture parses a (from, to) gesture in coordinate notation and hands it to the board.
func (bs *BoardService) HandleGesture(boardID, from, to string) (board.Result, model.BoardView, error) {
	s, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return board.Ignored, model.BoardView{}, err
	}
	origin, err := model.ParseSquare(from)
	if err != nil {
		return board.Ignored, model.BoardView{}, err
	}
	target, err := model.ParseSquare(to)
	if err != nil {
		return board.Ignored, model.BoardView{}, err
	}
	res, view := s.AttemptMove(origin, target)
	return res, view, nil
}

func (bs *BoardService) HandlePromotion(boardID, piece string) (board.Result, model.BoardView, error) {
	s, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return board.Ignored, model.BoardView{}, err
	}
	p, err := model.ParsePromotion(piece)
	if err != nil {
		return board.Ignored, model.BoardView{}, err
	}
	res, view := s.ResolvePromotion(p)
	return res, view, nil
}

// RenderBoard writes the current board as SVG seen from orientation.
func (bs *BoardService) RenderBoard(boardID string, orientation model.Color, w io.Writer) error {
	s, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return err
	}
	pos, view := s.Snapshot()
	opts := render.DefaultOptions()
	opts.Orientation = orientation
	return render.SVG(w, render.Board{
		Pieces:   pos.Pieces(),
		Turn:     view.TurnColor,
		LastMove: view.LastMove,
		Pending:  view.Pending,
		IsCheck:  view.IsCheck,
	}, opts)
}

func (bs *BoardService) RegisterConnection(boardID string, c model.Client, conn Conn) (*Session, error) {
	s, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return nil, err
	}
	if err := s.Register(c, conn); err != nil {
		return nil, err
	}
	return s, nil
}

func (bs *BoardService) UnregisterConnection(boardID string, clientID string) {
	s, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return
	}
	s.Unregister(clientID)
}
