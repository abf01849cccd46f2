package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tkerns/gatehouse/internal/notify"
	"github.com/tkerns/gatehouse/internal/session"
)

type sseEvent struct {
	Type         string               `json:"type"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

// handleEvents streams toasts and sign-out signals to the browser over
// SSE. A session observer watches the provider session for the lifetime
// of the connection; when it reports absence, a signed-out event tells
// an open dashboard tab to bounce back to the sign-in screen.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	toastCh := s.toasts.Subscribe()
	defer s.toasts.Unsubscribe(toastCh)

	signedOut := make(chan struct{}, 1)
	observer := session.NewObserver(s.sessions, func() {
		select {
		case signedOut <- struct{}{}:
		default:
		}
	})
	defer observer.Close()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	// Periodic keepalive so reverse proxies don't close an idle stream.
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		case <-signedOut:
			writeEvent(w, sseEvent{Type: "signed-out"})
			flusher.Flush()
		case n, ok := <-toastCh:
			if !ok {
				return
			}
			writeEvent(w, sseEvent{Type: "notification", Notification: &n})
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event sseEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
