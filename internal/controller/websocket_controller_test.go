package controller

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/benbeisheim/chessnote-backend/internal/notes"
	"github.com/benbeisheim/chessnote-backend/internal/service"
	"github.com/benbeisheim/chessnote-backend/internal/ws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	mu       sync.Mutex
	messages []ws.Message
}

func (r *recordingConn) WriteJSON(v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, v.(ws.Message))
	return nil
}

func (r *recordingConn) WriteMessage(int, []byte) error { return nil }

func (r *recordingConn) Close() error { return nil }

func (r *recordingConn) types() []ws.MessageType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ws.MessageType, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m.Type)
	}
	return out
}

func (r *recordingConn) last(t *testing.T, payload interface{}) ws.MessageType {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.messages)
	m := r.messages[len(r.messages)-1]
	require.NoError(t, json.Unmarshal(m.Payload, payload))
	return m.Type
}

func (r *recordingConn) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

type socketFixture struct {
	wsc     *WebSocketController
	store   *notes.Store
	session *service.Session
	boardID string
	widget  *recordingConn
	host    *recordingConn
}

func newSocketFixture(t *testing.T, text string) *socketFixture {
	t.Helper()
	store := notes.NewStore()
	bs := service.NewBoardService(service.NewBoardManager(store, zerolog.Nop()), store, "")
	id, _, err := bs.CreateBoard(&text)
	require.NoError(t, err)

	f := &socketFixture{
		wsc:     NewWebSocketController(bs, zerolog.Nop()),
		store:   store,
		boardID: id,
		widget:  &recordingConn{},
		host:    &recordingConn{},
	}
	f.session, err = bs.RegisterConnection(id, model.Client{ID: "w", Role: model.RoleWidget}, f.widget)
	require.NoError(t, err)
	_, err = bs.RegisterConnection(id, model.Client{ID: "h", Role: model.RoleHost}, f.host)
	require.NoError(t, err)
	f.widget.reset()
	f.host.reset()
	return f
}

func (f *socketFixture) send(clientID, frame string) {
	f.wsc.dispatch(f.session, f.boardID, clientID, []byte(frame), zerolog.Nop())
}

func TestSocketGestureMoves(t *testing.T) {
	f := newSocketFixture(t, "")
	f.send("w", `{"type":"gesture","payload":{"from":"e2","to":"e4"}}`)

	assert.Equal(t, []ws.MessageType{ws.MessageTypeView, ws.MessageTypeResult}, f.widget.types())
	var res ws.ResultPayload
	f.widget.last(t, &res)
	assert.Equal(t, "moved", res.Result)

	assert.Equal(t, []ws.MessageType{ws.MessageTypeText, ws.MessageTypeView}, f.host.types())

	note, err := f.store.Get(f.boardID)
	require.NoError(t, err)
	assert.Contains(t, note.Text, "e4")
}

func TestSocketIllegalGestureSnapsBack(t *testing.T) {
	f := newSocketFixture(t, "")
	f.send("w", `{"type":"gesture","payload":{"from":"e2","to":"e5"}}`)

	// the sender alone gets the unchanged view back
	assert.Equal(t, []ws.MessageType{ws.MessageTypeView, ws.MessageTypeResult}, f.widget.types())
	assert.Empty(t, f.host.types())

	var res ws.ResultPayload
	f.widget.last(t, &res)
	assert.Equal(t, "ignored", res.Result)

	f.widget.mu.Lock()
	var view model.BoardView
	require.NoError(t, json.Unmarshal(f.widget.messages[0].Payload, &view))
	f.widget.mu.Unlock()
	assert.Equal(t, model.White, view.TurnColor)
	assert.Nil(t, view.LastMove)
}

func TestSocketPromotion(t *testing.T) {
	f := newSocketFixture(t, "1. a4 b5 2. axb5 a6 3. bxa6 Bb7 4. axb7 Nf6 *")

	f.send("w", `{"type":"gesture","payload":{"from":"b7","to":"a8"}}`)
	assert.Equal(t, []ws.MessageType{ws.MessageTypePromotion, ws.MessageTypeView, ws.MessageTypeResult}, f.widget.types())
	assert.Equal(t, []ws.MessageType{ws.MessageTypeView}, f.host.types())
	var res ws.ResultPayload
	f.widget.last(t, &res)
	assert.Equal(t, "promotionPending", res.Result)

	f.widget.reset()
	f.send("w", `{"type":"promote","payload":{"piece":"king"}}`)
	var failure ws.ErrorPayload
	assert.Equal(t, ws.MessageTypeError, f.widget.last(t, &failure))
	assert.Contains(t, failure.Error, "invalid promotion")

	f.widget.reset()
	f.send("w", `{"type":"promote","payload":{"piece":"q"}}`)
	assert.Equal(t, []ws.MessageType{ws.MessageTypeView, ws.MessageTypeResult}, f.widget.types())
	f.widget.last(t, &res)
	assert.Equal(t, "moved", res.Result)

	note, err := f.store.Get(f.boardID)
	require.NoError(t, err)
	assert.Contains(t, note.Text, "bxa8=Q")
}

func TestSocketSetText(t *testing.T) {
	f := newSocketFixture(t, "")
	f.send("h", `{"type":"setText","payload":{"text":"1. d4 d5 2. c4 *"}}`)

	var view model.BoardView
	assert.Equal(t, ws.MessageTypeView, f.widget.last(t, &view))
	assert.Equal(t, model.Black, view.TurnColor)
	assert.Len(t, view.History, 3)
	// a load is not echoed back to the host as text
	assert.Equal(t, []ws.MessageType{ws.MessageTypeView}, f.host.types())

	note, err := f.store.Get(f.boardID)
	require.NoError(t, err)
	assert.Equal(t, "1. d4 d5 2. c4 *", note.Text)
}

func TestSocketErrors(t *testing.T) {
	for name, frame := range map[string]string{
		"bad json":       `{"type":`,
		"unknown type":   `{"type":"resign","payload":{}}`,
		"bad square":     `{"type":"gesture","payload":{"from":"z9","to":"e4"}}`,
		"bad payload":    `{"type":"setText","payload":{"text":7}}`,
		"missing pieces": `{"type":"promote","payload":{}}`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newSocketFixture(t, "")
			f.send("w", frame)

			var failure ws.ErrorPayload
			assert.Equal(t, ws.MessageTypeError, f.widget.last(t, &failure))
			assert.NotEmpty(t, failure.Error)
			assert.Len(t, f.widget.types(), 1)
			assert.Empty(t, f.host.types())
		})
	}
}
