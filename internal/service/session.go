package service

import (
	"sync"

	"github.com/benbeisheim/chessnote-backend/internal/board"
	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/benbeisheim/chessnote-backend/internal/notes"
	"github.com/benbeisheim/chessnote-backend/internal/persist"
	"github.com/benbeisheim/chessnote-backend/internal/rules"
	"github.com/benbeisheim/chessnote-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	model.Client
	mu   sync.Mutex
	conn Conn
}

func (c *client) send(msg ws.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// The connections for a specific board
type connections struct {
	mu      sync.RWMutex
	clients map[string]*client // clientID -> connection
}

// Session binds one note to one board. All events for the board go through
// mu, one at a time, so the controller never sees concurrent calls.
type Session struct {
	ID          string
	mu          sync.Mutex
	ctrl        *board.Controller
	connections *connections
	store       *notes.Store
	log         zerolog.Logger
}

func NewSession(id, text string, store *notes.Store, log zerolog.Logger) *Session {
	s := &Session{
		ID:          id,
		connections: &connections{clients: make(map[string]*client)},
		store:       store,
		log:         log.With().Str("board_id", id).Logger(),
	}
	channel := persist.NewChannel(persist.Fanout{store.Sink(id), persist.SinkFunc(s.pushText)}, s.log)
	s.ctrl = board.NewController(channel, s, s.log)
	s.SetText(text)
	return s
}

// SetText is the host loading a (possibly different) document into the board.
func (s *Session) SetText(text string) model.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Put(s.ID, text)
	s.ctrl.LoadText(text)
	return s.ctrl.View()
}

func (s *Session) AttemptMove(from, to model.Square) (board.Result, model.BoardView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.ctrl.AttemptMove(from, to)
	return res, s.ctrl.View()
}

func (s *Session) ResolvePromotion(piece model.PieceType) (board.Result, model.BoardView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.ctrl.ResolvePromotion(piece)
	return res, s.ctrl.View()
}

func (s *Session) View() model.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.View()
}

// Snapshot returns the position together with its view.
func (s *Session) Snapshot() (rules.Position, model.BoardView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Position(), s.ctrl.View()
}

func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Text()
}

// BoardChanged implements board.Notifier.
func (s *Session) BoardChanged(view model.BoardView) {
	s.broadcast(ws.MessageTypeView, view, nil)
}

// PromotionRequested implements board.Notifier. Only widgets get to choose.
func (s *Session) PromotionRequested(req model.PromotionRequest) {
	s.broadcast(ws.MessageTypePromotion, req, func(c *client) bool {
		return c.Role == model.RoleWidget
	})
}

// pushText is the persistence sink towards connected host editors.
func (s *Session) pushText(text string) error {
	return s.broadcast(ws.MessageTypeText, ws.TextPayload{Text: text}, func(c *client) bool {
		return c.Role == model.RoleHost
	})
}

func (s *Session) Register(c model.Client, conn Conn) error {
	s.connections.mu.Lock()
	if _, exists := s.connections.clients[c.ID]; exists {
		// keep the healthy connection and reject the new one
		s.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return errors.Wrapf(ErrDuplicateClient, "client %s", c.ID)
	}
	cl := &client{Client: c, conn: conn}
	s.connections.clients[c.ID] = cl
	s.connections.mu.Unlock()
	s.log.Info().Str("client_id", c.ID).Str("role", string(c.Role)).Msg("registered connection")

	// initial state
	msg, err := ws.NewMessage(ws.MessageTypeView, s.View())
	if err != nil {
		return err
	}
	if err := cl.send(msg); err != nil {
		s.Unregister(c.ID)
		return errors.Wrap(err, "send initial view")
	}
	return nil
}

func (s *Session) Unregister(clientID string) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if _, exists := s.connections.clients[clientID]; exists {
		delete(s.connections.clients, clientID)
		s.log.Info().Str("client_id", clientID).Msg("unregistered connection")
	}
}

// Send writes one message to one client.
func (s *Session) Send(clientID string, t ws.MessageType, payload interface{}) error {
	s.connections.mu.RLock()
	cl, ok := s.connections.clients[clientID]
	s.connections.mu.RUnlock()
	if !ok {
		return errors.Wrapf(ErrClientNotFound, "client %s", clientID)
	}
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return err
	}
	return cl.send(msg)
}

func (s *Session) ClientCount() int {
	s.connections.mu.RLock()
	defer s.connections.mu.RUnlock()
	return len(s.connections.clients)
}

// broadcast sends to every client accepted by filter (all when nil).
// Clients that fail to receive are dropped.
func (s *Session) broadcast(t ws.MessageType, payload interface{}, filter func(*client) bool) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		s.log.Error().Err(err).Str("type", string(t)).Msg("failed to marshal message")
		return err
	}

	// snapshot so no lock is held while writing
	s.connections.mu.RLock()
	targets := make([]*client, 0, len(s.connections.clients))
	for _, c := range s.connections.clients {
		if filter == nil || filter(c) {
			targets = append(targets, c)
		}
	}
	s.connections.mu.RUnlock()

	var errs error
	for _, c := range targets {
		if err := c.send(msg); err != nil {
			s.log.Warn().Err(err).Str("client_id", c.ID).Str("type", string(t)).Msg("failed to send, dropping connection")
			s.Unregister(c.ID)
			errs = multierror.Append(errs, errors.Wrapf(err, "client %s", c.ID))
		}
	}
	return errs
}

// Close disconnects every client.
func (s *Session) Close() error {
	s.connections.mu.Lock()
	clients := s.connections.clients
	s.connections.clients = make(map[string]*client)
	s.connections.mu.Unlock()

	var errs error
	for id, c := range clients {
		c.mu.Lock()
		c.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "board closed"),
		)
		if err := c.conn.Close(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "client %s", id))
		}
		c.mu.Unlock()
	}
	return errs
}
