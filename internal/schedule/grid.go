package schedule

import (
	"time"

	"github.com/studio622/booking-api/internal/models"
)

// Segment describes where inside an hour cell a booking's bar is drawn,
// both values expressed as fractions of the hour (0.0-1.0).
type Segment struct {
	Offset float64 `json:"offset"`
	Height float64 `json:"height"`
}

// HourCell is one hour-wide row of the daily schedule view. Only the cell
// matching the booking's start hour carries the full label; later occupied
// hours set Continues instead so multi-hour bookings are labelled once.
type HourCell struct {
	Hour      int     `json:"hour"`
	BookingID int64   `json:"booking_id,omitempty"`
	Title     string  `json:"title,omitempty"`
	Owner     string  `json:"owner,omitempty"`
	Flagged   bool    `json:"flagged,omitempty"`
	IsStart   bool    `json:"is_start,omitempty"`
	Continues bool    `json:"continues,omitempty"`
	Segment   Segment `json:"segment"`
}

// DayGrid is the projection of one calendar day onto hour cells.
// Announcements never occupy a cell; their titles are surfaced separately
// as a header list for the day.
type DayGrid struct {
	Date          string     `json:"date"`
	Cells         []HourCell `json:"cells"`
	Announcements []string   `json:"announcements"`
}

// OccupiesHour reports whether a booking is present in hour h. A booking
// occupies every hour of [startHour, endHour), plus the end hour itself
// when the end time has a nonzero minute component, so a 13:30-ending
// booking still partially fills the 13:00 cell.
func OccupiesHour(b models.Booking, h int, loc *time.Location) bool {
	s, e := b.StartTime.In(loc), b.EndTime.In(loc)
	if h >= s.Hour() && h < e.Hour() {
		return true
	}
	return h == e.Hour() && e.Minute() > 0
}

// HourSegment clips the booking to [h:00, h+1:00) and returns the
// fractional offset and height of the visible bar. An end landing exactly
// on a zero-minute boundary is treated as minute 60 of the previous hour,
// so a booking ending on the hour renders a full bar in its last occupied
// hour instead of bleeding a sliver into the next one.
func HourSegment(b models.Booking, h int, loc *time.Location) Segment {
	s, e := b.StartTime.In(loc), b.EndTime.In(loc)

	startMin := 0
	if s.Hour() == h {
		startMin = s.Minute()
	}

	endMin := 60
	if e.Hour() == h && e.Minute() > 0 {
		endMin = e.Minute()
	}

	if endMin < startMin {
		endMin = startMin
	}
	return Segment{
		Offset: float64(startMin) / 60,
		Height: float64(endMin-startMin) / 60,
	}
}

// BuildDayGrid projects the given day's bookings onto hour cells covering
// the display window openHour..closeHour inclusive. The booking slice is
// expected to be pre-filtered to the day (see SelectDay).
func BuildDayGrid(date time.Time, bookings []models.Booking, openHour, closeHour int, loc *time.Location) DayGrid {
	grid := DayGrid{
		Date:          date.In(loc).Format("2006-01-02"),
		Cells:         make([]HourCell, 0, closeHour-openHour+1),
		Announcements: []string{},
	}

	timed := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if Classify(b.StartTime, b.EndTime, loc) == models.KindAnnouncement {
			grid.Announcements = append(grid.Announcements, b.Title)
			continue
		}
		timed = append(timed, b)
	}

	for h := openHour; h <= closeHour; h++ {
		cell := HourCell{Hour: h}
		for _, b := range timed {
			if !OccupiesHour(b, h, loc) {
				continue
			}
			cell.BookingID = b.ID
			cell.Segment = HourSegment(b, h, loc)
			if b.StartTime.In(loc).Hour() == h {
				cell.IsStart = true
				cell.Title = b.Title
				cell.Owner = b.Owner
				cell.Flagged = Flagged(b.Title)
			} else {
				cell.Continues = true
			}
			break
		}
		grid.Cells = append(grid.Cells, cell)
	}
	return grid
}
