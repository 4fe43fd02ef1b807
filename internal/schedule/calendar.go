package schedule

import (
	"sort"
	"time"

	"github.com/studio622/booking-api/internal/models"
)

// DayStatus summarises a calendar day for the month grid.
type DayStatus string

const (
	// StatusNone means no non-announcement bookings exist on the day.
	StatusNone DayStatus = "none"
	// StatusNormal means the day has bookings but none are flagged.
	StatusNormal DayStatus = "normal"
	// StatusSpecial means at least one booking carries a flagged keyword.
	StatusSpecial DayStatus = "special"
)

// DaySummary is one cell of the month calendar.
type DaySummary struct {
	Date          string    `json:"date"`
	Status        DayStatus `json:"status"`
	Announcements []string  `json:"announcements,omitempty"`
	BookingCount  int       `json:"booking_count"`
}

// MonthSummary groups bookings by local calendar date and computes a
// status per day of the given month. Announcements never affect the
// status; their titles are reported as a separate label list.
func MonthSummary(year int, month time.Month, bookings []models.Booking, loc *time.Location) []DaySummary {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	type dayAgg struct {
		announcements []string
		count         int
		flagged       bool
	}
	byDay := make(map[int]*dayAgg)

	for _, b := range bookings {
		s := b.StartTime.In(loc)
		if s.Year() != year || s.Month() != month {
			continue
		}
		agg := byDay[s.Day()]
		if agg == nil {
			agg = &dayAgg{}
			byDay[s.Day()] = agg
		}
		if Classify(b.StartTime, b.EndTime, loc) == models.KindAnnouncement {
			agg.announcements = append(agg.announcements, b.Title)
			continue
		}
		agg.count++
		if Flagged(b.Title) {
			agg.flagged = true
		}
	}

	summaries := make([]DaySummary, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		summary := DaySummary{
			Date:   time.Date(year, month, d, 0, 0, 0, 0, loc).Format("2006-01-02"),
			Status: StatusNone,
		}
		if agg := byDay[d]; agg != nil {
			summary.Announcements = agg.announcements
			summary.BookingCount = agg.count
			switch {
			case agg.count == 0:
				summary.Status = StatusNone
			case agg.flagged:
				summary.Status = StatusSpecial
			default:
				summary.Status = StatusNormal
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// SelectDay returns the bookings whose start falls on the given local
// date, ordered by start time ascending with ties broken by id.
func SelectDay(date time.Time, bookings []models.Booking, loc *time.Location) []models.Booking {
	dy, dm, dd := date.In(loc).Date()

	selected := make([]models.Booking, 0)
	for _, b := range bookings {
		by, bm, bd := b.StartTime.In(loc).Date()
		if by == dy && bm == dm && bd == dd {
			selected = append(selected, b)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if !selected[i].StartTime.Equal(selected[j].StartTime) {
			return selected[i].StartTime.Before(selected[j].StartTime)
		}
		return selected[i].ID < selected[j].ID
	})
	return selected
}
