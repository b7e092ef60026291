package viewer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/replay"
)

// layoutResponse is the geometry the page draws with, plus the building.
type layoutResponse struct {
	replay.Layout
	Floors       int     `json:"floors"`
	InitialFloor int     `json:"initial_floor"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
}

// sessionResponse is returned by every REST replay endpoint.
type sessionResponse struct {
	SessionID string       `json:"session_id"`
	Frame     replay.Frame `json:"frame"`
	Exhausted bool         `json:"exhausted,omitempty"`
}

func (v *Viewer) handleTrace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, v.trace)
}

func (v *Viewer) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, v.trace.Summary())
}

func (v *Viewer) handleLayout(w http.ResponseWriter, r *http.Request) {
	width, height := v.layout.CanvasSize(v.trace.Floors)
	writeJSON(w, http.StatusOK, layoutResponse{
		Layout:       v.layout,
		Floors:       v.trace.Floors,
		InitialFloor: v.trace.InitialFloor,
		Width:        width,
		Height:       height,
	})
}

func (v *Viewer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	p := v.newPlayer()
	id := v.sessions.create(p)
	v.logger.Debug("replay session created", zap.String("session_id", id))
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, Frame: p.Initial()})
}

// withSession runs fn on the session's player under the session lock and
// writes the resulting frame.
func (v *Viewer) withSession(w http.ResponseWriter, r *http.Request, fn func(*replay.Player) (replay.Frame, error)) {
	id := chi.URLParam(r, "id")
	sess, ok := v.sessions.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "replay session not found"})
		return
	}

	sess.mu.Lock()
	frame, err := fn(sess.player)
	if err == nil || errors.Is(err, replay.ErrNoMoreSteps) {
		if snap, snapErr := sess.player.Snapshot(); snapErr == nil {
			frame = snap
		}
	}
	sess.mu.Unlock()

	switch {
	case errors.Is(err, replay.ErrNoMoreSteps):
		writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Frame: frame, Exhausted: true})
	case err != nil:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Frame: frame})
	}
}

func (v *Viewer) handleStep(w http.ResponseWriter, r *http.Request) {
	v.withSession(w, r, func(p *replay.Player) (replay.Frame, error) {
		return p.Step()
	})
}

func (v *Viewer) handleReset(w http.ResponseWriter, r *http.Request) {
	v.withSession(w, r, func(p *replay.Player) (replay.Frame, error) {
		p.Reset()
		return p.Initial(), nil
	})
}

func (v *Viewer) handleSeek(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
		return
	}
	v.withSession(w, r, func(p *replay.Player) (replay.Frame, error) {
		return p.Seek(index)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
