package viewer

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ziadkadry99/liftsim/internal/replay"
	"github.com/ziadkadry99/liftsim/internal/trace"
)

func sampleTrace() *trace.Trace {
	return &trace.Trace{
		Floors:       3,
		InitialFloor: 1,
		Events: []trace.Event{
			{TS: 0, EventType: trace.EventRequest, EventFloor: 2, ElevatorFloor: 1, Rider: trace.Rider(0)},
			{TS: 3, EventType: trace.EventFloorPassed, EventFloor: 2, ElevatorFloor: 2},
			{TS: 5, EventType: trace.EventPickup, EventFloor: 2, ElevatorFloor: 2, Rider: trace.Rider(0)},
			{TS: 10, EventType: trace.EventDropoff, EventFloor: 3, ElevatorFloor: 3, Rider: trace.Rider(0)},
		},
	}
}

func setupTest(t *testing.T) (*Viewer, chi.Router) {
	t.Helper()
	v, err := New(sampleTrace(), replay.DefaultLayout(), zaptest.NewLogger(t), 0)
	require.NoError(t, err)
	r := chi.NewRouter()
	v.RegisterRoutes(r)
	return v, r
}

func do(t *testing.T, r http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRejectsInvalidTrace(t *testing.T) {
	_, err := New(&trace.Trace{Floors: 0, InitialFloor: 1}, replay.DefaultLayout(), nil, 0)
	assert.ErrorIs(t, err, trace.ErrInvalidTrace)
}

func TestServeIndexAndAssets(t *testing.T) {
	_, r := setupTest(t)

	w := do(t, r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	for _, id := range []string{"my_canvas", "timestamp_display", "event_index_display", "event_display", "forward"} {
		assert.Contains(t, w.Body.String(), `id="`+id+`"`)
	}

	w = do(t, r, http.MethodGet, "/static/visualize.js")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `alert("No more steps!")`)
	assert.Contains(t, w.Body.String(), "isNaN(index)")

	w = do(t, r, http.MethodGet, "/static/style.css")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterRoutesMountsEmbeddedAssets(t *testing.T) {
	v, _ := setupTest(t)
	r := chi.NewRouter()
	require.NotPanics(t, func() { v.RegisterRoutes(r) })

	w := do(t, r, http.MethodGet, "/static/visualize.js")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTraceEndpoints(t *testing.T) {
	_, r := setupTest(t)

	w := do(t, r, http.MethodGet, "/api/trace")
	require.Equal(t, http.StatusOK, w.Code)
	var tr trace.Trace
	require.NoError(t, json.NewDecoder(w.Body).Decode(&tr))
	assert.Len(t, tr.Events, 4)

	w = do(t, r, http.MethodGet, "/api/trace/summary")
	var sum trace.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sum))
	assert.Equal(t, 1, sum.Riders)
	assert.Equal(t, 10.0, sum.Duration)

	w = do(t, r, http.MethodGet, "/api/layout")
	var l layoutResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&l))
	assert.Equal(t, 3, l.Floors)
	assert.Equal(t, 50.0, l.FloorHeight)
	assert.Equal(t, 170.0, l.Height)
}

func TestRESTReplay(t *testing.T) {
	_, r := setupTest(t)

	w := do(t, r, http.MethodPost, "/api/replay")
	require.Equal(t, http.StatusCreated, w.Code)
	var created sessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, -1, created.Frame.Index)

	step := func() sessionResponse {
		w := do(t, r, http.MethodPost, "/api/replay/"+created.SessionID+"/step")
		require.Equal(t, http.StatusOK, w.Code)
		var resp sessionResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		return resp
	}

	first := step()
	assert.Equal(t, 0, first.Frame.Index)
	assert.Equal(t, 1, first.Frame.FloorRiders[2].Count)
	assert.Equal(t, "red", first.Frame.FloorRiders[2].Color)

	step()
	pickup := step()
	assert.Equal(t, "PICKUP", pickup.Frame.EventText)
	assert.Equal(t, "blue", pickup.Frame.EventColor)
	assert.Equal(t, 1, pickup.Frame.CarRiders.Count)

	last := step()
	assert.True(t, last.Frame.Done)
	assert.False(t, last.Exhausted)

	exhausted := step()
	assert.True(t, exhausted.Exhausted)
	assert.Equal(t, 3, exhausted.Frame.Index)

	w = do(t, r, http.MethodPost, "/api/replay/"+created.SessionID+"/seek?index=1")
	require.Equal(t, http.StatusOK, w.Code)
	var sought sessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sought))
	assert.Equal(t, 1, sought.Frame.Index)

	w = do(t, r, http.MethodPost, "/api/replay/"+created.SessionID+"/seek?index=9")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodPost, "/api/replay/"+created.SessionID+"/seek?index=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/replay/"+created.SessionID+"/reset")
	require.Equal(t, http.StatusOK, w.Code)
	var reset sessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&reset))
	assert.Equal(t, -1, reset.Frame.Index)
	assert.Equal(t, 0, reset.Frame.CarRiders.Count)
}

func TestRESTUnknownSession(t *testing.T) {
	_, r := setupTest(t)
	w := do(t, r, http.MethodPost, "/api/replay/does-not-exist/step")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newSessionStore(time.Minute, func() time.Time { return now })

	p, err := replay.NewPlayer(sampleTrace(), replay.DefaultLayout())
	require.NoError(t, err)
	kept := store.create(p)
	dropped := store.create(p)

	now = now.Add(40 * time.Second)
	_, ok := store.get(kept)
	require.True(t, ok)

	now = now.Add(40 * time.Second)
	_, ok = store.get(dropped)
	assert.False(t, ok)
	_, ok = store.get(kept)
	assert.True(t, ok)
	assert.Equal(t, 1, store.len())
}

func TestWebSocketReplay(t *testing.T) {
	_, r := setupTest(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/replay"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() stepResponse {
		var resp stepResponse
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, conn.ReadJSON(&resp))
		return resp
	}

	initial := read()
	require.Equal(t, "frame", initial.Type)
	assert.Equal(t, -1, initial.Frame.Index)

	for i := 0; i < 4; i++ {
		require.NoError(t, conn.WriteJSON(stepRequest{Type: "forward"}))
		resp := read()
		require.Equal(t, "frame", resp.Type)
		assert.Equal(t, i, resp.Frame.Index)
	}

	require.NoError(t, conn.WriteJSON(stepRequest{Type: "forward"}))
	assert.Equal(t, "done", read().Type)

	two := 2
	require.NoError(t, conn.WriteJSON(stepRequest{Type: "seek", Index: &two}))
	sought := read()
	require.Equal(t, "frame", sought.Type)
	assert.Equal(t, 2, sought.Frame.Index)

	// A seek without a usable index must not jump to the first event.
	for _, raw := range []string{`{"type":"seek"}`, `{"type":"seek","index":null}`} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
		missing := read()
		assert.Equal(t, "error", missing.Type)
		assert.Contains(t, missing.Content, "index")
	}
	require.NoError(t, conn.WriteJSON(stepRequest{Type: "forward"}))
	assert.Equal(t, 3, read().Frame.Index)

	require.NoError(t, conn.WriteJSON(stepRequest{Type: "reset"}))
	assert.Equal(t, -1, read().Frame.Index)

	require.NoError(t, conn.WriteJSON(stepRequest{Type: "fly"}))
	bad := read()
	assert.Equal(t, "error", bad.Type)
	assert.Contains(t, bad.Content, "unknown message type")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, "error", read().Type)
}

func TestFramesAreIndependentPerConnection(t *testing.T) {
	v, _ := setupTest(t)
	a, b := v.newPlayer(), v.newPlayer()
	_, err := a.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, a.Index())
	assert.Equal(t, -1, b.Index())

	_, err = a.Seek(3)
	require.NoError(t, err)
	_, err = a.Step()
	assert.True(t, errors.Is(err, replay.ErrNoMoreSteps))
}
