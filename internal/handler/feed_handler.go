package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studio622/booking-api/pkg/response"
)

type feedService interface {
	Generate(ctx context.Context) (string, error)
}

// FeedHandler serves the iCalendar subscription document.
type FeedHandler struct {
	service feedService
}

// NewFeedHandler constructs handler.
func NewFeedHandler(svc feedService) *FeedHandler {
	return &FeedHandler{service: svc}
}

// Get renders a fresh feed on every request; subscribing clients rely on
// stable event UIDs to deduplicate across fetches.
func (h *FeedHandler) Get(c *gin.Context) {
	doc, err := h.service.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="studio.ics"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}
