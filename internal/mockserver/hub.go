package mockserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/schedge-app/schedge/internal/wire"
)

// Hub fans full-state snapshots out to connected SSE clients, keyed by
// user. Slow clients drop intermediate snapshots; the latest one always
// gets through.
type Hub struct {
	mu      sync.Mutex
	clients map[int64]map[chan []byte]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[chan []byte]struct{})}
}

// Broadcast sends a snapshot to every client subscribed to the user.
func (h *Hub) Broadcast(st wire.State) {
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients[st.UserID] {
		select {
		case ch <- payload:
		default:
			// client is behind; drain one stale snapshot and retry
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- payload:
			default:
			}
		}
	}
}

// Clients returns the number of connected clients for a user.
func (h *Hub) Clients(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

func (h *Hub) subscribe(userID int64) chan []byte {
	ch := make(chan []byte, 1)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[chan []byte]struct{})
	}
	h.clients[userID][ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(userID int64, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], ch)
}

// ServeSSE streams snapshots for one user until the client disconnects.
// An initial snapshot is sent immediately so new clients render without
// waiting for the next change.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request, userID int64, initial wire.State) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := h.subscribe(userID)
	defer h.unsubscribe(userID, ch)

	if payload, err := json.Marshal(initial); err == nil {
		fmt.Fprintf(w, "data: %s\n\n", payload)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
