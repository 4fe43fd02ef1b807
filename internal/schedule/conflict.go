package schedule

import (
	"time"

	"github.com/studio622/booking-api/internal/models"
	appErrors "github.com/studio622/booking-api/pkg/errors"
)

// Check accepts or rejects a normalized candidate interval against a
// snapshot of existing bookings for the same resource.
//
// Announcements are always accepted: they reserve no physical time and may
// coexist with anything, including each other. For every other kind the
// candidate is rejected with PastBooking when it starts before now, and
// with Conflict when any existing non-announcement booking overlaps under
// the open-interval test b.start < end && b.end > start. Intervals that
// merely touch at an endpoint do not conflict.
//
// The caller is expected to have fetched a consistent snapshot; the check
// and the eventual insert are not atomic against concurrent writers, and
// the persistence layer remains the final arbiter.
func Check(candidate Interval, existing []models.Booking, now time.Time, loc *time.Location) error {
	if candidate.Kind == models.KindAnnouncement {
		return nil
	}

	if candidate.Start.Before(now) {
		return appErrors.ErrPastBooking
	}

	for _, b := range existing {
		if Classify(b.StartTime, b.EndTime, loc) == models.KindAnnouncement {
			continue
		}
		if b.StartTime.Before(candidate.End) && b.EndTime.After(candidate.Start) {
			return appErrors.ErrConflict
		}
	}
	return nil
}
