// Package viewer serves the browser visualizer for a recorded trace. The
// page holds no replay logic of its own: every step is computed by a
// replay.Player on the server and pushed to the page as a frame.
package viewer

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/replay"
	"github.com/ziadkadry99/liftsim/internal/trace"
)

//go:embed assets
var assets embed.FS

// DefaultSessionTTL is how long an idle REST replay session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Viewer replays one trace to any number of browser tabs.
type Viewer struct {
	trace    *trace.Trace
	layout   replay.Layout
	logger   *zap.Logger
	sessions *sessionStore
}

// New validates tr and prepares a viewer for it. A zero ttl selects
// DefaultSessionTTL.
func New(tr *trace.Trace, layout replay.Layout, logger *zap.Logger, ttl time.Duration) (*Viewer, error) {
	// Building a player validates the trace once up front.
	if _, err := replay.NewPlayer(tr, layout); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Viewer{
		trace:    tr,
		layout:   layout,
		logger:   logger,
		sessions: newSessionStore(ttl, time.Now),
	}, nil
}

// RegisterRoutes mounts all viewer routes onto the given router.
func (v *Viewer) RegisterRoutes(r chi.Router) {
	static, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(fmt.Sprintf("viewer: embedded assets: %v", err))
	}

	r.Get("/", v.ServeIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/api/trace", v.handleTrace)
	r.Get("/api/trace/summary", v.handleSummary)
	r.Get("/api/layout", v.handleLayout)
	r.Post("/api/replay", v.handleCreateSession)
	r.Post("/api/replay/{id}/step", v.handleStep)
	r.Post("/api/replay/{id}/reset", v.handleReset)
	r.Post("/api/replay/{id}/seek", v.handleSeek)
	r.Get("/ws/replay", v.handleWebSocket)
}

// ServeIndex serves the embedded HTML page.
func (v *Viewer) ServeIndex(w http.ResponseWriter, r *http.Request) {
	page, err := assets.ReadFile("assets/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (v *Viewer) newPlayer() *replay.Player {
	// The trace was validated in New, so this cannot fail.
	p, _ := replay.NewPlayer(v.trace, v.layout)
	return p
}
