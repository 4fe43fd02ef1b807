package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studio622/booking-api/internal/models"
)

func TestOccupiesHour(t *testing.T) {
	b := booking(1, time.Date(2024, 6, 2, 10, 30, 0, 0, tokyo), time.Date(2024, 6, 2, 13, 0, 0, 0, tokyo))

	assert.False(t, OccupiesHour(b, 9, tokyo))
	assert.True(t, OccupiesHour(b, 10, tokyo))
	assert.True(t, OccupiesHour(b, 11, tokyo))
	assert.True(t, OccupiesHour(b, 12, tokyo))
	// Ends exactly on the hour: no phantom sliver in the 13:00 cell.
	assert.False(t, OccupiesHour(b, 13, tokyo))
}

func TestOccupiesHourPartialEndHour(t *testing.T) {
	b := booking(1, time.Date(2024, 6, 2, 12, 0, 0, 0, tokyo), time.Date(2024, 6, 2, 13, 30, 0, 0, tokyo))

	assert.True(t, OccupiesHour(b, 12, tokyo))
	assert.True(t, OccupiesHour(b, 13, tokyo))
	assert.False(t, OccupiesHour(b, 14, tokyo))
}

func TestHourSegment(t *testing.T) {
	b := booking(1, time.Date(2024, 6, 2, 10, 30, 0, 0, tokyo), time.Date(2024, 6, 2, 13, 0, 0, 0, tokyo))

	first := HourSegment(b, 10, tokyo)
	assert.InDelta(t, 0.5, first.Offset, 1e-9)
	assert.InDelta(t, 0.5, first.Height, 1e-9)

	middle := HourSegment(b, 11, tokyo)
	assert.InDelta(t, 0.0, middle.Offset, 1e-9)
	assert.InDelta(t, 1.0, middle.Height, 1e-9)

	// End on the hour renders a full bar in the last occupied hour.
	last := HourSegment(b, 12, tokyo)
	assert.InDelta(t, 0.0, last.Offset, 1e-9)
	assert.InDelta(t, 1.0, last.Height, 1e-9)
}

func TestHourSegmentsSumToDuration(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"half past to the hour", time.Date(2024, 6, 2, 10, 30, 0, 0, tokyo), time.Date(2024, 6, 2, 13, 0, 0, 0, tokyo)},
		{"quarter hours", time.Date(2024, 6, 2, 9, 15, 0, 0, tokyo), time.Date(2024, 6, 2, 11, 45, 0, 0, tokyo)},
		{"sub hour", time.Date(2024, 6, 2, 14, 10, 0, 0, tokyo), time.Date(2024, 6, 2, 14, 50, 0, 0, tokyo)},
		{"full window", time.Date(2024, 6, 2, 8, 0, 0, 0, tokyo), time.Date(2024, 6, 2, 22, 0, 0, 0, tokyo)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := booking(1, tc.start, tc.end)
			var total float64
			for h := 0; h < 24; h++ {
				if OccupiesHour(b, h, tokyo) {
					total += HourSegment(b, h, tokyo).Height
				}
			}
			assert.InDelta(t, tc.end.Sub(tc.start).Hours(), total, 1e-9)
		})
	}
}

func TestBuildDayGrid(t *testing.T) {
	day := time.Date(2024, 6, 2, 0, 0, 0, 0, tokyo)
	bookings := []models.Booking{
		{
			ID: 1, Title: "放課後ティータイム", Owner: "平沢",
			StartTime: time.Date(2024, 6, 2, 10, 30, 0, 0, tokyo),
			EndTime:   time.Date(2024, 6, 2, 12, 0, 0, 0, tokyo),
		},
		{
			ID: 2, Title: "文化祭のお知らせ", Owner: "生徒会",
			StartTime: time.Date(2024, 6, 2, 0, 0, 0, 0, tokyo),
			EndTime:   time.Date(2024, 6, 2, 0, 1, 0, 0, tokyo),
		},
	}

	grid := BuildDayGrid(day, bookings, 8, 22, tokyo)

	assert.Equal(t, "2024-06-02", grid.Date)
	require.Len(t, grid.Cells, 15)
	assert.Equal(t, []string{"文化祭のお知らせ"}, grid.Announcements)

	byHour := make(map[int]HourCell, len(grid.Cells))
	for _, cell := range grid.Cells {
		byHour[cell.Hour] = cell
	}

	start := byHour[10]
	assert.True(t, start.IsStart)
	assert.Equal(t, "放課後ティータイム", start.Title)
	assert.Equal(t, "平沢", start.Owner)
	assert.InDelta(t, 0.5, start.Segment.Offset, 1e-9)

	cont := byHour[11]
	assert.True(t, cont.Continues)
	assert.Empty(t, cont.Title)
	assert.Equal(t, int64(1), cont.BookingID)

	free := byHour[13]
	assert.Zero(t, free.BookingID)
	assert.False(t, free.IsStart)
	assert.False(t, free.Continues)
}
