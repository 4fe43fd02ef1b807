package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studio622/booking-api/internal/models"
	"github.com/studio622/booking-api/internal/service"
	appErrors "github.com/studio622/booking-api/pkg/errors"
	"github.com/studio622/booking-api/pkg/response"
)

type bookingService interface {
	Create(ctx context.Context, req service.CreateBookingRequest) (*models.BookingView, error)
	Get(ctx context.Context, id int64) (*models.BookingView, error)
	Delete(ctx context.Context, id int64) error
	ListUpcoming(ctx context.Context) ([]service.DayGroup, error)
}

// BookingHandler manages booking endpoints.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler constructs handler.
func NewBookingHandler(svc bookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// Create registers a new booking or announcement.
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	view, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Get fetches a single booking.
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Delete removes a booking.
func (h *BookingHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListUpcoming returns future bookings grouped by date.
func (h *BookingHandler) ListUpcoming(c *gin.Context) {
	groups, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid booking id")
	}
	return id, nil
}
