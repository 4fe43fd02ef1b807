package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studio622/booking-api/internal/models"
	"github.com/studio622/booking-api/internal/notify"
	"github.com/studio622/booking-api/internal/schedule"
	appErrors "github.com/studio622/booking-api/pkg/errors"
)

type bookingRepository interface {
	Insert(ctx context.Context, b *models.Booking) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	ListUpcoming(ctx context.Context, studio string, from time.Time) ([]models.Booking, error)
	ListOverlapping(ctx context.Context, studio string, start, end time.Time) ([]models.Booking, error)
}

// CreateBookingRequest describes the payload for registering a booking or
// an announcement.
type CreateBookingRequest struct {
	Title     string `json:"title" validate:"required"`
	Owner     string `json:"owner" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Type      string `json:"type" validate:"required,oneof=normal live blackout announcement"`
	AllDay    bool   `json:"all_day"`
	StartTime string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"omitempty,datetime=15:04"`
}

// DayGroup bundles the upcoming bookings of one local calendar date.
type DayGroup struct {
	Date     string               `json:"date"`
	Label    string               `json:"label"`
	Bookings []models.BookingView `json:"bookings"`
}

var weekdayLabels = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// BookingService coordinates booking creation and deletion: it normalizes
// the candidate interval, runs the conflict check against a snapshot of
// the persisted set, writes the row and fires the change signal. The
// check and the write are not atomic; a rare concurrent double-booking is
// accepted and left to humans to resolve.
type BookingService struct {
	repo      bookingRepository
	notifier  notify.Notifier
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	studio    string
	loc       *time.Location
	now       func() time.Time
}

// NewBookingService instantiates BookingService.
func NewBookingService(repo bookingRepository, notifier notify.Notifier, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, studio string, loc *time.Location) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		repo:      repo,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		studio:    studio,
		loc:       loc,
		now:       time.Now,
	}
}

// Create validates, normalizes and conflict-checks the request, then
// inserts the booking and signals the change.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.BookingView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	typ := models.RequestType(req.Type)
	interval, err := s.normalize(req, typ)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	existing, err := s.repo.ListOverlapping(ctx, s.studio, interval.Start, interval.End)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing bookings")
	}

	if err := schedule.Check(interval, existing, s.now(), s.loc); err != nil {
		s.countRejection(err)
		return nil, err
	}

	booking := models.Booking{
		Title:     schedule.DecorateTitle(req.Title, typ),
		Owner:     req.Owner,
		Resource:  s.studio,
		StartTime: interval.Start,
		EndTime:   interval.End,
	}
	if err := s.repo.Insert(ctx, &booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	s.notifier.PublishChanged(ctx)
	if s.metrics != nil {
		s.metrics.CountBookingCreated(string(interval.Kind))
	}
	s.logger.Info("booking created",
		zap.Int64("id", booking.ID),
		zap.String("kind", string(interval.Kind)),
		zap.Time("start", booking.StartTime),
		zap.Time("end", booking.EndTime),
	)

	view := schedule.View(booking, s.loc)
	return &view, nil
}

// Get returns a single booking view.
func (s *BookingService) Get(ctx context.Context, id int64) (*models.BookingView, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	view := schedule.View(*booking, s.loc)
	return &view, nil
}

// Delete removes a booking and signals the change.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete booking")
	}

	s.notifier.PublishChanged(ctx)
	if s.metrics != nil {
		s.metrics.CountBookingDeleted()
	}
	s.logger.Info("booking deleted", zap.Int64("id", id))
	return nil
}

// ListUpcoming returns bookings that have not yet ended, grouped by local
// calendar date.
func (s *BookingService) ListUpcoming(ctx context.Context) ([]DayGroup, error) {
	bookings, err := s.repo.ListUpcoming(ctx, s.studio, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}

	groups := make([]DayGroup, 0)
	for _, b := range bookings {
		start := b.StartTime.In(s.loc)
		date := start.Format("2006-01-02")
		if len(groups) == 0 || groups[len(groups)-1].Date != date {
			groups = append(groups, DayGroup{
				Date:  date,
				Label: fmt.Sprintf("%d/%d(%s)", int(start.Month()), start.Day(), weekdayLabels[start.Weekday()]),
			})
		}
		groups[len(groups)-1].Bookings = append(groups[len(groups)-1].Bookings, schedule.View(b, s.loc))
	}
	return groups, nil
}

func (s *BookingService) normalize(req CreateBookingRequest, typ models.RequestType) (schedule.Interval, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return schedule.Interval{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking date")
	}

	var start, end schedule.TimeOfDay
	if typ != models.TypeAnnouncement && !req.AllDay {
		if req.StartTime == "" || req.EndTime == "" {
			return schedule.Interval{}, appErrors.Clone(appErrors.ErrValidation, "start and end times are required for timed bookings")
		}
		if start, err = schedule.ParseTimeOfDay(req.StartTime); err != nil {
			return schedule.Interval{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
		}
		if end, err = schedule.ParseTimeOfDay(req.EndTime); err != nil {
			return schedule.Interval{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
		}
	}

	return schedule.Normalize(date, typ, req.AllDay, start, end, s.loc)
}

func (s *BookingService) countRejection(err error) {
	if s.metrics == nil {
		return
	}
	if appErr := appErrors.FromError(err); appErr != nil {
		s.metrics.CountBookingRejected(appErr.Code)
	}
}

// WithClock overrides the time source, for tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	if now != nil {
		s.now = now
	}
	return s
}
