package control

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 << 10,
	WriteBufferSize: 1 << 10,
	// producers are local tools, not browsers
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamFrames handles GET /frames/stream, a WebSocket on which a producer
// sends one JSON array of shapes per message. Each message is installed as
// the live frame and answered with {"seq": n} or {"seq": n, "error": "..."}.
// A rejected frame leaves the previous one playing and keeps the socket open.
func (h *Handler) StreamFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("frame stream upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	h.log.Info("frame stream opened", slog.String("remote", r.RemoteAddr))
	seq := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("frame stream closed", slog.String("error", err.Error()))
			} else {
				h.log.Info("frame stream closed", slog.Int("frames", seq))
			}
			return
		}
		seq++

		ack := streamAck{Seq: seq}
		shapes, err := DecodeShapes(data)
		if err == nil {
			err = h.svc.PushFrame(shapes)
		}
		if err != nil {
			ack.Error = err.Error()
			h.log.Debug("streamed frame rejected", slog.Int("seq", seq), slog.String("error", err.Error()))
		}

		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(ack); err != nil {
			h.log.Debug("frame stream ack failed", slog.String("error", err.Error()))
			return
		}
	}
}
