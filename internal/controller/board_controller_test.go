package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/chessnote-backend/internal/middleware"
	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/benbeisheim/chessnote-backend/internal/notes"
	"github.com/benbeisheim/chessnote-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, initial string) *fiber.App {
	t.Helper()
	store := notes.NewStore()
	bm := service.NewBoardManager(store, zerolog.Nop())
	bs := service.NewBoardService(bm, store, initial)

	app := fiber.New()
	RegisterRoutes(app, NewBoardController(bs, zerolog.Nop()), NewWebSocketController(bs, zerolog.Nop()), websocket.Config{})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func createBoard(t *testing.T, app *fiber.App, body string) (string, model.BoardView) {
	t.Helper()
	resp, out := do(t, app, http.MethodPost, "/api/board", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(out))

	var created struct {
		BoardID string          `json:"board_id"`
		View    model.BoardView `json:"view"`
	}
	require.NoError(t, json.Unmarshal(out, &created))
	return created.BoardID, created.View
}

func TestCreateAndGetBoard(t *testing.T) {
	app := newTestApp(t, "")
	id, view := createBoard(t, app, "")
	assert.Equal(t, model.White, view.TurnColor)
	assert.Len(t, view.Destinations, 10)

	resp, out := do(t, app, http.MethodGet, "/api/board/"+id, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.ClientIDHeader))

	var got model.BoardView
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, view.FEN, got.FEN)
}

func TestMoveEndpoint(t *testing.T) {
	app := newTestApp(t, "")
	id, _ := createBoard(t, app, `{"text":"1. e4 e5 *"}`)

	resp, out := do(t, app, http.MethodPost, "/api/board/"+id+"/move", `{"from":"g1","to":"f3"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(out))
	var moved struct {
		Result string          `json:"result"`
		View   model.BoardView `json:"view"`
	}
	require.NoError(t, json.Unmarshal(out, &moved))
	assert.Equal(t, "moved", moved.Result)
	assert.Equal(t, model.Black, moved.View.TurnColor)

	_, out = do(t, app, http.MethodGet, "/api/board/"+id+"/text", "")
	var note notes.Note
	require.NoError(t, json.Unmarshal(out, &note))
	assert.Contains(t, note.Text, "Nf3")

	_, out = do(t, app, http.MethodPost, "/api/board/"+id+"/move", `{"from":"g1","to":"f3"}`)
	require.NoError(t, json.Unmarshal(out, &moved))
	assert.Equal(t, "ignored", moved.Result)

	resp, _ = do(t, app, http.MethodPost, "/api/board/"+id+"/move", `{"from":"i9","to":"f3"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPromotionEndpoint(t *testing.T) {
	app := newTestApp(t, "1. a4 b5 2. axb5 a6 3. bxa6 Bb7 4. axb7 Nf6 *")
	id, _ := createBoard(t, app, "")

	_, out := do(t, app, http.MethodPost, "/api/board/"+id+"/move", `{"from":"b7","to":"a8"}`)
	assert.Contains(t, string(out), `"result":"promotionPending"`)

	resp, _ := do(t, app, http.MethodPost, "/api/board/"+id+"/promotion", `{"piece":"pawn"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, out = do(t, app, http.MethodPost, "/api/board/"+id+"/promotion", `{"piece":"rook"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(out), `"result":"moved"`)
	assert.Contains(t, string(out), "bxa8=R")
}

func TestSetTextEndpoint(t *testing.T) {
	app := newTestApp(t, "")
	id, _ := createBoard(t, app, "")

	resp, out := do(t, app, http.MethodPut, "/api/board/"+id+"/text", `{"text":"1. d4 d5 2. c4 *"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view model.BoardView
	require.NoError(t, json.Unmarshal(out, &view))
	assert.Equal(t, model.Black, view.TurnColor)
	assert.Len(t, view.History, 3)
}

func TestRenderEndpoint(t *testing.T) {
	app := newTestApp(t, "")
	id, _ := createBoard(t, app, "")

	resp, out := do(t, app, http.MethodGet, "/api/board/"+id+"/board.svg?orientation=black", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "svg")
	assert.Contains(t, string(out), "<svg")

	resp, _ = do(t, app, http.MethodGet, "/api/board/"+id+"/board.svg?orientation=sideways", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUnknownAndDeletedBoards(t *testing.T) {
	app := newTestApp(t, "")
	resp, _ := do(t, app, http.MethodGet, "/api/board/nope", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	id, _ := createBoard(t, app, "")
	resp, _ = do(t, app, http.MethodDelete, "/api/board/"+id, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, app, http.MethodGet, "/api/board/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app := newTestApp(t, "")
	id, _ := createBoard(t, app, "")
	resp, _ := do(t, app, http.MethodGet, "/ws/board/"+id+"?clientId=w1", "")
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
