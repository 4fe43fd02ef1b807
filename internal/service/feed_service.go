package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studio622/booking-api/internal/feed"
	"github.com/studio622/booking-api/internal/models"
	appErrors "github.com/studio622/booking-api/pkg/errors"
)

type feedRepository interface {
	ListUpcoming(ctx context.Context, studio string, from time.Time) ([]models.Booking, error)
}

// FeedOptions tune the published calendar.
type FeedOptions struct {
	CalendarName string
	Timezone     string
	Lookback     time.Duration
}

// FeedService generates the iCalendar subscription document. The feed is
// rebuilt from a fresh snapshot on every request; nothing is cached.
type FeedService struct {
	repo    feedRepository
	logger  *zap.Logger
	metrics *MetricsService
	studio  string
	loc     *time.Location
	opts    FeedOptions
	now     func() time.Time
}

// NewFeedService instantiates FeedService.
func NewFeedService(repo feedRepository, logger *zap.Logger, metrics *MetricsService, studio string, loc *time.Location, opts FeedOptions) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 30 * 24 * time.Hour
	}
	return &FeedService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		studio:  studio,
		loc:     loc,
		opts:    opts,
		now:     time.Now,
	}
}

// Generate renders the current booking set as an iCalendar document.
func (s *FeedService) Generate(ctx context.Context) (string, error) {
	started := time.Now()
	now := s.now()

	bookings, err := s.repo.ListUpcoming(ctx, s.studio, now.Add(-s.opts.Lookback))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feed bookings")
	}

	doc := feed.Encode(bookings, now, s.loc, feed.Options{
		CalendarName: s.opts.CalendarName,
		Timezone:     s.opts.Timezone,
		Lookback:     s.opts.Lookback,
	})

	if s.metrics != nil {
		s.metrics.ObserveFeedGeneration(time.Since(started), len(bookings))
	}
	return doc, nil
}

// WithClock overrides the time source, for tests.
func (s *FeedService) WithClock(now func() time.Time) *FeedService {
	if now != nil {
		s.now = now
	}
	return s
}
