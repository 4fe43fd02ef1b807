package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studio622/booking-api/internal/service"
	appErrors "github.com/studio622/booking-api/pkg/errors"
	"github.com/studio622/booking-api/pkg/response"
)

type calendarService interface {
	Month(ctx context.Context, year int, month time.Month) (*service.MonthView, error)
	Day(ctx context.Context, date string) (*service.DayView, error)
}

type exportService interface {
	MonthCSV(ctx context.Context, year int, month time.Month) ([]byte, error)
	MonthPDF(ctx context.Context, year int, month time.Month) ([]byte, error)
}

// CalendarHandler serves the month and day read views plus month exports.
type CalendarHandler struct {
	calendar calendarService
	exports  exportService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendar calendarService, exports exportService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, exports: exports}
}

// Month returns per-day statuses for the month grid.
func (h *CalendarHandler) Month(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.calendar.Month(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Day returns the hour grid for a single date.
func (h *CalendarHandler) Day(c *gin.Context) {
	view, err := h.calendar.Day(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Export streams the month's bookings as a CSV or PDF attachment.
func (h *CalendarHandler) Export(c *gin.Context) {
	year, month, err := parseYearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	var (
		body        []byte
		contentType string
	)
	switch format {
	case "csv":
		body, err = h.exports.MonthCSV(c.Request.Context(), year, month)
		contentType = "text/csv; charset=utf-8"
	case "pdf":
		body, err = h.exports.MonthPDF(c.Request.Context(), year, month)
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("studio-%04d-%02d.%s", year, int(month), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}

func parseYearMonth(c *gin.Context) (int, time.Month, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2200 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "invalid year")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "invalid month")
	}
	return year, time.Month(month), nil
}
