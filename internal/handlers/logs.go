package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"mcadmin/internal/logtail"
	"mcadmin/internal/models"
)

const (
	defaultTail = 200
	minTail     = 50
	maxTail     = 1000
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type LogsHandler struct {
	tailer   logtail.Tailer
	follower *logtail.Follower // nil when no log file is configured
}

func NewLogsHandler(tailer logtail.Tailer, follower *logtail.Follower) *LogsHandler {
	return &LogsHandler{tailer: tailer, follower: follower}
}

// GetLogs returns the last N lines, most recent last. The tail parameter is
// clamped to [50, 1000]; short output is returned without padding.
func (h *LogsHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	tail := defaultTail
	if raw := r.URL.Query().Get("tail"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid tail parameter")
			return
		}
		tail = n
	}
	if tail < minTail {
		tail = minTail
	}
	if tail > maxTail {
		tail = maxTail
	}

	lines, err := h.tailer.Tail(r.Context(), tail)
	if err != nil {
		writeActionError(w, err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, models.LogResponse{Lines: lines})
}

// FollowLogs streams appended log lines over a websocket, one text message
// per line. Only available when the server log file is configured.
func (h *LogsHandler) FollowLogs(w http.ResponseWriter, r *http.Request) {
	if h.follower == nil {
		writeDetail(w, http.StatusServiceUnavailable, "Log follow requires MC_ADMIN_LOG_FILE")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade log follow connection: %v", err)
		return
	}
	defer conn.Close()

	lines, err := h.follower.Follow(r.Context())
	if err != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "log file unavailable"))
		return
	}

	// Reader goroutine notices the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				return
			}
		}
	}
}
