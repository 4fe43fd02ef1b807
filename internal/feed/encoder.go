// Package feed serializes a booking collection into an iCalendar document
// for external calendar subscription.
package feed

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/studio622/booking-api/internal/models"
	"github.com/studio622/booking-api/internal/schedule"
)

const (
	productID = "-//StudioBooking//JA"
	uidDomain = "studio-booking"
)

// Options control the emitted calendar envelope and the publication window.
type Options struct {
	// CalendarName becomes X-WR-CALNAME.
	CalendarName string
	// Timezone becomes X-WR-TIMEZONE; event stamps themselves are UTC.
	Timezone string
	// Lookback drops bookings whose end is older than now minus this
	// window. Zero means one month.
	Lookback time.Duration
}

// Encode renders the bookings into a VCALENDAR document. Bookings ending
// before the lookback horizon are omitted, events are ordered by start,
// and each event's UID derives from the booking id alone so regenerating
// the feed for an unchanged set yields the same identities (only DTSTAMP
// moves between runs).
func Encode(bookings []models.Booking, now time.Time, loc *time.Location, opts Options) string {
	lookback := opts.Lookback
	if lookback <= 0 {
		lookback = 30 * 24 * time.Hour
	}
	horizon := now.Add(-lookback)

	published := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.EndTime.Before(horizon) {
			continue
		}
		published = append(published, b)
	}
	sort.SliceStable(published, func(i, j int) bool {
		if !published[i].StartTime.Equal(published[j].StartTime) {
			return published[i].StartTime.Before(published[j].StartTime)
		}
		return published[i].ID < published[j].ID
	})

	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	if opts.CalendarName != "" {
		cal.SetXWRCalName(opts.CalendarName)
	}
	if opts.Timezone != "" {
		cal.SetXWRTimezone(opts.Timezone)
	}

	for _, b := range published {
		event := cal.AddEvent(fmt.Sprintf("%d@%s", b.ID, uidDomain))
		event.SetDtStampTime(now.UTC())

		if schedule.Classify(b.StartTime, b.EndTime, loc) == models.KindAnnouncement {
			// Dateless label: one all-day event covering the booking's
			// calendar date, end exclusive.
			year, month, day := b.StartTime.In(loc).Date()
			date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			event.SetAllDayStartAt(date)
			event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		} else {
			event.SetStartAt(b.StartTime)
			event.SetEndAt(b.EndTime)
		}

		event.SetSummary(sanitize(b.Title))
		event.SetDescription(sanitize("代表者: " + b.Owner))
	}

	return cal.Serialize()
}

// sanitize strips raw line breaks so a title can never split a content
// line and corrupt the document structure.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
