package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studio622/booking-api/internal/models"
)

func TestMonthSummaryStatuses(t *testing.T) {
	bookings := []models.Booking{
		// 2024-06-01: flagged live booking plus an unflagged one.
		{ID: 1, Title: "夏フェス (LIVE)", StartTime: time.Date(2024, 6, 1, 18, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 1, 21, 0, 0, 0, tokyo)},
		{ID: 2, Title: "放課後ティータイム", StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 1, 12, 0, 0, 0, tokyo)},
		// 2024-06-02: only an announcement.
		{ID: 3, Title: "文化祭のお知らせ", StartTime: time.Date(2024, 6, 2, 0, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 2, 0, 1, 0, 0, tokyo)},
		// 2024-06-03: plain booking.
		{ID: 4, Title: "バンド練習", StartTime: time.Date(2024, 6, 3, 13, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 3, 15, 0, 0, 0, tokyo)},
		// Outside the month: ignored.
		{ID: 5, Title: "先月の練習", StartTime: time.Date(2024, 5, 31, 13, 0, 0, 0, tokyo), EndTime: time.Date(2024, 5, 31, 15, 0, 0, 0, tokyo)},
	}

	days := MonthSummary(2024, time.June, bookings, tokyo)
	require.Len(t, days, 30)

	assert.Equal(t, StatusSpecial, days[0].Status)
	assert.Equal(t, 2, days[0].BookingCount)

	// Announcements never affect the status but are listed as labels.
	assert.Equal(t, StatusNone, days[1].Status)
	assert.Equal(t, []string{"文化祭のお知らせ"}, days[1].Announcements)

	assert.Equal(t, StatusNormal, days[2].Status)

	for d := 3; d < 30; d++ {
		assert.Equal(t, StatusNone, days[d].Status, "day %d", d+1)
	}
}

func TestMonthSummaryCoversEveryDay(t *testing.T) {
	days := MonthSummary(2024, time.February, nil, tokyo)
	require.Len(t, days, 29)
	assert.Equal(t, "2024-02-01", days[0].Date)
	assert.Equal(t, "2024-02-29", days[28].Date)
}

func TestSelectDayFiltersAndOrders(t *testing.T) {
	target := time.Date(2024, 6, 2, 0, 0, 0, 0, tokyo)
	bookings := []models.Booking{
		{ID: 3, StartTime: time.Date(2024, 6, 2, 14, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 2, 16, 0, 0, 0, tokyo)},
		{ID: 1, StartTime: time.Date(2024, 6, 2, 10, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 2, 12, 0, 0, 0, tokyo)},
		{ID: 2, StartTime: time.Date(2024, 6, 3, 10, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 3, 12, 0, 0, 0, tokyo)},
		// Same start as id 5 below: id breaks the tie.
		{ID: 5, StartTime: time.Date(2024, 6, 2, 0, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 2, 0, 1, 0, 0, tokyo)},
		{ID: 4, StartTime: time.Date(2024, 6, 2, 0, 0, 0, 0, tokyo), EndTime: time.Date(2024, 6, 2, 0, 1, 0, 0, tokyo)},
	}

	selected := SelectDay(target, bookings, tokyo)
	require.Len(t, selected, 4)

	ids := make([]int64, 0, len(selected))
	for _, b := range selected {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{4, 5, 1, 3}, ids)
}

func TestSelectDayUsesStudioTimezone(t *testing.T) {
	target := time.Date(2024, 6, 2, 0, 0, 0, 0, tokyo)
	// 2024-06-01 16:00 UTC is 2024-06-02 01:00 JST.
	bookings := []models.Booking{
		{ID: 1, StartTime: time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC), EndTime: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)},
	}

	selected := SelectDay(target, bookings, tokyo)
	require.Len(t, selected, 1)
}
