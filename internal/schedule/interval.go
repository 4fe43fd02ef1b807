// Package schedule implements the booking engine for the studio: interval
// normalization and classification, conflict detection, the hourly day grid
// and the month-view aggregation. Everything here is a pure function over an
// in-memory snapshot; persistence and transport live elsewhere.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/studio622/booking-api/internal/models"
	appErrors "github.com/studio622/booking-api/pkg/errors"
)

const (
	// DefaultOpenHour and DefaultCloseHour bound the display window and
	// the all-day span.
	DefaultOpenHour  = 8
	DefaultCloseHour = 22

	// announcementSpan keeps announcement rows orderable and
	// non-degenerate in storage even though no time is reserved.
	announcementSpan = time.Minute
)

// flaggedKeywords mark a booking title as exceptional (blackout, live
// event, maintenance) for display emphasis only.
var flaggedKeywords = []string{"NG", "ライブ", "LIVE", "メンテ", "メンテナンス"}

// TimeOfDay is a wall-clock position within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses the "15:04" form used by booking requests.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", raw, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Interval is a normalized candidate span with its derived kind.
type Interval struct {
	Start time.Time
	End   time.Time
	Kind  models.BookingKind
}

// Normalize turns a requested date, type and optional times of day into a
// canonical [start, end) pair:
//
//   - announcement: date at 00:00 plus one minute, times of day ignored
//   - all-day (live/blackout with the all-day flag): 08:00-22:00
//   - otherwise: the supplied times on the same calendar date
//
// For non-announcements it fails with InvalidRange when start >= end.
func Normalize(date time.Time, typ models.RequestType, allDay bool, start, end TimeOfDay, loc *time.Location) (Interval, error) {
	year, month, day := date.In(loc).Date()

	at := func(tod TimeOfDay) time.Time {
		return time.Date(year, month, day, tod.Hour, tod.Minute, 0, 0, loc)
	}

	if typ == models.TypeAnnouncement {
		s := at(TimeOfDay{})
		return Interval{Start: s, End: s.Add(announcementSpan), Kind: models.KindAnnouncement}, nil
	}

	if allDay {
		return Interval{
			Start: at(TimeOfDay{Hour: DefaultOpenHour}),
			End:   at(TimeOfDay{Hour: DefaultCloseHour}),
			Kind:  models.KindAllDay,
		}, nil
	}

	s, e := at(start), at(end)
	if !s.Before(e) {
		return Interval{}, appErrors.ErrInvalidRange
	}
	return Interval{Start: s, End: e, Kind: models.KindNormal}, nil
}

// Classify derives the kind of a stored booking from its interval. The
// derivation lives here, and only here, so every consumer agrees on what an
// announcement is.
func Classify(start, end time.Time, loc *time.Location) models.BookingKind {
	s := start.In(loc)
	if s.Hour() == 0 && s.Minute() == 0 {
		return models.KindAnnouncement
	}
	e := end.In(loc)
	sameDay := s.Year() == e.Year() && s.YearDay() == e.YearDay()
	if sameDay && s.Hour() == DefaultOpenHour && s.Minute() == 0 && e.Hour() == DefaultCloseHour && e.Minute() == 0 {
		return models.KindAllDay
	}
	return models.KindNormal
}

// Flagged reports whether a title contains one of the exceptional-status
// keywords.
func Flagged(title string) bool {
	for _, kw := range flaggedKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// DecorateTitle appends the marker suffix the studio convention attaches to
// live and blackout registrations.
func DecorateTitle(title string, typ models.RequestType) string {
	switch typ {
	case models.TypeLive:
		return title + " (LIVE)"
	case models.TypeBlackout:
		return title + " (NG)"
	default:
		return title
	}
}

// View builds the client read model for a stored booking.
func View(b models.Booking, loc *time.Location) models.BookingView {
	return models.BookingView{
		ID:       b.ID,
		Title:    b.Title,
		Owner:    b.Owner,
		Resource: b.Resource,
		Start:    b.StartTime.In(loc),
		End:      b.EndTime.In(loc),
		Kind:     Classify(b.StartTime, b.EndTime, loc),
		Flagged:  Flagged(b.Title),
	}
}
