package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studio622/booking-api/internal/models"
	"github.com/studio622/booking-api/internal/schedule"
	appErrors "github.com/studio622/booking-api/pkg/errors"
)

type calendarRepository interface {
	ListStartingBetween(ctx context.Context, studio string, from, to time.Time) ([]models.Booking, error)
}

// MonthView summarises one month for the calendar grid.
type MonthView struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Days  []schedule.DaySummary `json:"days"`
}

// DayView is the hourly projection of a single date plus the ordered
// booking list for it.
type DayView struct {
	Grid     schedule.DayGrid     `json:"grid"`
	Bookings []models.BookingView `json:"bookings"`
}

// CalendarService answers the month and day read queries.
type CalendarService struct {
	repo      calendarRepository
	logger    *zap.Logger
	studio    string
	loc       *time.Location
	openHour  int
	closeHour int
}

// NewCalendarService instantiates CalendarService.
func NewCalendarService(repo calendarRepository, logger *zap.Logger, studio string, loc *time.Location, openHour, closeHour int) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	if openHour == 0 && closeHour == 0 {
		openHour, closeHour = schedule.DefaultOpenHour, schedule.DefaultCloseHour
	}
	return &CalendarService{
		repo:      repo,
		logger:    logger,
		studio:    studio,
		loc:       loc,
		openHour:  openHour,
		closeHour: closeHour,
	}
}

// Month returns per-day statuses and announcement labels for the given
// month.
func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) (*MonthView, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)

	bookings, err := s.repo.ListStartingBetween(ctx, s.studio, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load month bookings")
	}

	return &MonthView{
		Year:  year,
		Month: int(month),
		Days:  schedule.MonthSummary(year, month, bookings, s.loc),
	}, nil
}

// Day returns the hour grid and ordered booking list for one date.
func (s *CalendarService) Day(ctx context.Context, date string) (*DayView, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	bookings, err := s.repo.ListStartingBetween(ctx, s.studio, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day bookings")
	}

	selected := schedule.SelectDay(day, bookings, s.loc)
	views := make([]models.BookingView, 0, len(selected))
	for _, b := range selected {
		views = append(views, schedule.View(b, s.loc))
	}

	return &DayView{
		Grid:     schedule.BuildDayGrid(day, selected, s.openHour, s.closeHour, s.loc),
		Bookings: views,
	}, nil
}
