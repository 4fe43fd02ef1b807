package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studio622/booking-api/internal/notify"
)

const heartbeatInterval = 30 * time.Second

// EventsHandler streams "changed" pings to clients over server-sent
// events. The stream carries no payload: a ping only means the booking
// set may have changed and a re-query is warranted.
type EventsHandler struct {
	notifier notify.Notifier
}

// NewEventsHandler constructs handler.
func NewEventsHandler(notifier notify.Notifier) *EventsHandler {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &EventsHandler{notifier: notifier}
}

// Stream relays change signals until the client disconnects. Heartbeat
// comments keep intermediaries from timing out the connection.
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-store")
	c.Header("Connection", "keep-alive")

	changes, cancel := h.notifier.Subscribe(c.Request.Context())
	defer cancel()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case _, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent("changed", gin.H{"id": uuid.NewString()})
			return true
		case <-heartbeat.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
