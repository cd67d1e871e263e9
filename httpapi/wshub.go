package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ujesh-sakariya/deepresearch-go/progress"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Research progress is consumed by the same origin the API is served
	// from; this module has no cross-origin browser client of its own.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscribeMessage is the one client->server message this hub
// understands, per spec.md §4.10's subscribe_to_research convention.
type subscribeMessage struct {
	Type       string `json:"type"`
	ResearchID string `json:"research_id"`
}

// progressMessage is what the hub writes back for every published event.
type progressMessage struct {
	Event      string `json:"event"`
	ResearchID string `json:"research_id"`
	Progress   int    `json:"progress"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// handleWebSocket upgrades the connection, waits for a single
// subscribe_to_research message, then streams progress.Bus events for
// that research until the client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("httpapi: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	var sub subscribeMessage
	if err := conn.ReadJSON(&sub); err != nil {
		return
	}
	if sub.Type != "subscribe_to_research" || sub.ResearchID == "" {
		conn.WriteJSON(errorResponse{Error: "expected a subscribe_to_research message with research_id"})
		return
	}

	var writeMu sync.Mutex
	unsubscribe := s.bus.Subscribe(sub.ResearchID, func(e progress.Event) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(progressMessage{
			Event:      e.BroadcastName(),
			ResearchID: e.ResearchID,
			Progress:   e.Progress,
			Status:     e.Status,
			Message:    e.Message,
		}); err != nil {
			log.Printf("httpapi: websocket write for %s: %v", sub.ResearchID, err)
		}
	})
	defer unsubscribe()

	// Drain and discard further client messages; this also detects
	// disconnects so the handler returns and the subscription is cleaned
	// up via the deferred unsubscribe above.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
