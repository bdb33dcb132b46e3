// Package sse streams plan change events to browsers via Server-Sent Events.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/felixgeelhaar/cadence/pkg/application"
)

var _ application.ChangeNotifier = (*Handler)(nil)

// Handler fans plan change events out to every connected client. Events for a
// client whose buffer is full are dropped.
type Handler struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	clients map[chan application.PlanChangedEvent]struct{}
	seq     uint64
}

func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:  logger,
		clients: make(map[chan application.PlanChangedEvent]struct{}),
	}
}

// Notify broadcasts event without blocking.
func (h *Handler) Notify(_ context.Context, event application.PlanChangedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.Debug("sse client too slow, dropping event", "event", event.Type)
		}
	}
}

// Clients returns the number of connected streams.
func (h *Handler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP holds the connection open and writes one SSE message per event.
// The optional "types" query parameter is a comma separated event filter.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	typeFilter := make(map[string]bool)
	if types := r.URL.Query().Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			typeFilter[strings.TrimSpace(t)] = true
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := make(chan application.PlanChangedEvent, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			if len(typeFilter) > 0 && !typeFilter[event.Type] {
				continue
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("sse marshal", "error", err)
				continue
			}
			h.mu.Lock()
			h.seq++
			id := h.seq
			h.mu.Unlock()

			_, _ = fmt.Fprintf(w, "id: %d\n", id)
			_, _ = fmt.Fprintf(w, "event: %s\n", event.Type)
			_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
