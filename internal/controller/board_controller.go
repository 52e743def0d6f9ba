package controller

import (
	"bytes"

	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/benbeisheim/chessnote-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type BoardController struct {
	boardService *service.BoardService
	log          zerolog.Logger
}

func NewBoardController(boardService *service.BoardService, log zerolog.Logger) *BoardController {
	return &BoardController{boardService: boardService, log: log}
}

type createBoardRequest struct {
	Text *string `json:"text"`
}

type textRequest struct {
	Text string `json:"text"`
}

type gestureRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type promotionRequest struct {
	Piece string `json:"piece"`
}

func (bc *BoardController) CreateBoard(c *fiber.Ctx) error {
	var req createBoardRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return bc.fail(c, fiber.StatusBadRequest, err)
		}
	}

	boardID, view, err := bc.boardService.CreateBoard(req.Text)
	if err != nil {
		return bc.fail(c, statusFor(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Board created",
		"board_id": boardID,
		"view":     view,
	})
}

func (bc *BoardController) GetBoard(c *fiber.Ctx) error {
	view, err := bc.boardService.GetView(c.Params("boardId"))
	if err != nil {
		return bc.fail(c, statusFor(err), err)
	}
	return c.JSON(view)
}

func (bc *BoardController) DeleteBoard(c *fiber.Ctx) error {
	if err := bc.boardService.DeleteBoard(c.Params("boardId")); err != nil {
		return bc.fail(c, statusFor(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetText is the host replacing the document shown on the board.
func (bc *BoardController) SetText(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return bc.fail(c, fiber.StatusBadRequest, err)
	}
	view, err := bc.boardService.SetText(c.Params("boardId"), req.Text)
	if err != nil {
		return bc.fail(c, statusFor(err), err)
	}
	return c.JSON(view)
}

func (bc *BoardController) GetText(c *fiber.Ctx) error {
	note, err := bc.boardService.GetNote(c.Params("boardId"))
	if err != nil {
		return bc.fail(c, statusFor(err), err)
	}
	return c.JSON(note)
}

func (bc *BoardController) Move(c *fiber.Ctx) error {
	var req gestureRequest
	if err := c.BodyParser(&req); err != nil {
		return bc.fail(c, fiber.StatusBadRequest, err)
	}
	res, view, err := bc.boardService.HandleGesture(c.Params("boardId"), req.From, req.To)
	if err != nil {
		return bc.fail(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"result": res.String(),
		"view":   view,
	})
}

func (bc *BoardController) Promote(c *fiber.Ctx) error {
	var req promotionRequest
	if err := c.BodyParser(&req); err != nil {
		return bc.fail(c, fiber.StatusBadRequest, err)
	}
	res, view, err := bc.boardService.HandlePromotion(c.Params("boardId"), req.Piece)
	if err != nil {
		return bc.fail(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"result": res.String(),
		"view":   view,
	})
}

// RenderBoard serves the board as an SVG picture.
func (bc *BoardController) RenderBoard(c *fiber.Ctx) error {
	orientation := model.Color(c.Query("orientation", string(model.White)))
	if !orientation.Valid() {
		return bc.fail(c, fiber.StatusBadRequest, errors.Errorf("orientation %q", orientation))
	}
	var buf bytes.Buffer
	if err := bc.boardService.RenderBoard(c.Params("boardId"), orientation, &buf); err != nil {
		return bc.fail(c, statusFor(err), err)
	}
	c.Type("svg")
	return c.Send(buf.Bytes())
}

func (bc *BoardController) fail(c *fiber.Ctx, status int, err error) error {
	if status >= fiber.StatusInternalServerError {
		bc.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func statusFor(err error) int {
	switch errors.Cause(err) {
	case service.ErrBoardNotFound:
		return fiber.StatusNotFound
	case service.ErrBoardExists:
		return fiber.StatusConflict
	case model.ErrInvalidSquare, model.ErrInvalidPromotion:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
