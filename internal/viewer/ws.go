package viewer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/replay"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stepRequest is the incoming WebSocket message format.
type stepRequest struct {
	Type  string `json:"type"` // "forward", "reset" or "seek"
	Index *int   `json:"index,omitempty"`
}

// stepResponse is the outgoing WebSocket message format.
type stepResponse struct {
	Type    string        `json:"type"` // "frame", "done" or "error"
	Frame   *replay.Frame `json:"frame,omitempty"`
	Content string        `json:"content,omitempty"`
}

// handleWebSocket gives every connection its own player. The initial frame
// is sent as soon as the connection is up.
func (v *Viewer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	player := v.newPlayer()
	initial := player.Initial()
	v.send(conn, stepResponse{Type: "frame", Frame: &initial})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				v.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req stepRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			v.sendError(conn, "invalid message format")
			continue
		}

		var frame replay.Frame
		switch req.Type {
		case "forward":
			frame, err = player.Step()
		case "reset":
			player.Reset()
			frame = player.Initial()
		case "seek":
			if req.Index == nil {
				v.sendError(conn, "seek needs an integer index")
				continue
			}
			frame, err = player.Seek(*req.Index)
		default:
			v.sendError(conn, "unknown message type: "+req.Type)
			continue
		}

		switch {
		case errors.Is(err, replay.ErrNoMoreSteps):
			v.send(conn, stepResponse{Type: "done"})
		case err != nil:
			v.sendError(conn, err.Error())
		default:
			v.send(conn, stepResponse{Type: "frame", Frame: &frame})
		}
	}
}

func (v *Viewer) send(conn *websocket.Conn, resp stepResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		v.logger.Warn("websocket write", zap.Error(err))
	}
}

func (v *Viewer) sendError(conn *websocket.Conn, message string) {
	v.send(conn, stepResponse{Type: "error", Content: message})
}
