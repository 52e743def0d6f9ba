package controller

import (
	"encoding/json"

	"github.com/benbeisheim/chessnote-backend/internal/board"
	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/benbeisheim/chessnote-backend/internal/service"
	"github.com/benbeisheim/chessnote-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type WebSocketController struct {
	boardService *service.BoardService
	log          zerolog.Logger
}

func NewWebSocketController(boardService *service.BoardService, log zerolog.Logger) *WebSocketController {
	return &WebSocketController{
		boardService: boardService,
		log:          log,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	boardID := c.Params("boardId")
	clientID, _ := c.Locals("clientID").(string)
	client := model.Client{ID: clientID, Role: model.ParseRole(c.Query("role"))}
	log := wsc.log.With().Str("board_id", boardID).Str("client_id", clientID).Logger()

	// Register this connection with the board
	session, err := wsc.boardService.RegisterConnection(boardID, client, c)
	if err != nil {
		log.Warn().Err(err).Msg("failed to register connection")
		if errors.Cause(err) != service.ErrDuplicateClient {
			c.Close()
		}
		return
	}
	defer wsc.boardService.UnregisterConnection(boardID, clientID)

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("read error")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		wsc.dispatch(session, boardID, clientID, message, log)
	}
}

// dispatch decodes one frame and handles it, answering the sender with an
// error message when that fails.
func (wsc *WebSocketController) dispatch(session *service.Session, boardID, clientID string, frame []byte, log zerolog.Logger) {
	var msg ws.Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		log.Debug().Err(err).Msg("parse error")
		wsc.sendError(session, clientID, err)
		return
	}
	if err := wsc.handleMessage(session, boardID, clientID, msg); err != nil {
		log.Debug().Err(err).Str("type", string(msg.Type)).Msg("handle error")
		wsc.sendError(session, clientID, err)
	}
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(session *service.Session, boardID, clientID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeGesture:
		var g ws.GesturePayload
		if err := json.Unmarshal(msg.Payload, &g); err != nil {
			return err
		}
		res, view, err := wsc.boardService.HandleGesture(boardID, g.From.String(), g.To.String())
		if err != nil {
			return err
		}
		if res == board.Ignored {
			// the widget already moved the piece locally; snap it back
			if err := session.Send(clientID, ws.MessageTypeView, view); err != nil {
				return err
			}
		}
		return session.Send(clientID, ws.MessageTypeResult, ws.ResultPayload{Result: res.String()})

	case ws.MessageTypePromote:
		var p ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		res, _, err := wsc.boardService.HandlePromotion(boardID, p.Piece)
		if err != nil {
			return err
		}
		return session.Send(clientID, ws.MessageTypeResult, ws.ResultPayload{Result: res.String()})

	case ws.MessageTypeSetText:
		var t ws.TextPayload
		if err := json.Unmarshal(msg.Payload, &t); err != nil {
			return err
		}
		_, err := wsc.boardService.SetText(boardID, t.Text)
		return err

	default:
		return errors.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(session *service.Session, clientID string, err error) {
	if sendErr := session.Send(clientID, ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()}); sendErr != nil {
		wsc.log.Debug().Err(sendErr).Str("client_id", clientID).Msg("failed to send error")
	}
}
