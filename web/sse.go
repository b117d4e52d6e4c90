package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/kmaddali/mailmon/notification"
)

func sse(r *mux.Router) {
	sse := r.PathPrefix("/sse").Subrouter()
	sse.HandleFunc("/events", sseHandler)
}

// sseHandler streams aggregation progress events. A mailbox query parameter
// narrows the stream to one mailbox; the default is every in-flight query.
func sseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	key := r.URL.Query().Get("mailbox")
	if key == "" {
		key = notification.NOTIFICATION_ALL
	}
	events, cancel := notification.Subscribe(key)
	defer cancel()

	rc := http.NewResponseController(w)
	clientGone := r.Context().Done()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	slog.Info(fmt.Sprintf("Client connected to progress stream. key: %s", key))
	start := time.Now()
	for {
		select {
		case <-clientGone:
			slog.Info(fmt.Sprintf("Client disconnected from progress stream. key: %s Connection Duration: %s", key, time.Since(start)))
			return
		case progress := <-events:
			payload, err := json.Marshal(progress)
			if err != nil {
				slog.Warn(fmt.Sprintf("Unable to marshal progress event. err: %s", err.Error()))
				continue
			}
			timestamp := strconv.FormatInt(time.Now().UTC().UnixMilli(), 10)
			if _, err := fmt.Fprintf(w, "event:progress\nretry: 10000\nid:%s\ndata:%s\n\n", timestamp, payload); err != nil {
				slog.Warn(fmt.Sprintf("Unable to write progress event. key: %s err: %s", key, err.Error()))
				return
			}
			rc.SetWriteDeadline(time.Time{})
			rc.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			rc.SetWriteDeadline(time.Time{})
			rc.Flush()
		}
	}
}
