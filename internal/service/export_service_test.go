package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studio622/booking-api/internal/models"
	appErrors "github.com/studio622/booking-api/pkg/errors"
)

func exportBookings() []models.Booking {
	return []models.Booking{
		{
			ID:        1,
			Title:     "放課後ティータイム",
			Owner:     "平沢",
			StartTime: time.Date(2024, 6, 5, 10, 0, 0, 0, tokyo),
			EndTime:   time.Date(2024, 6, 5, 12, 0, 0, 0, tokyo),
		},
		{
			ID:        2,
			Title:     "学園祭 (LIVE)",
			Owner:     "山中",
			StartTime: time.Date(2024, 6, 8, 13, 0, 0, 0, tokyo),
			EndTime:   time.Date(2024, 6, 8, 17, 0, 0, 0, tokyo),
		},
	}
}

func TestExportServiceMonthCSV(t *testing.T) {
	repo := &mockCalendarRepo{bookings: exportBookings()}
	svc := NewExportService(repo, nil, nil, nil, testStudio, tokyo)

	out, err := svc.MonthCSV(context.Background(), 2024, time.June)
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "date,start,end,title,owner,kind,flagged")
	assert.Contains(t, body, "2024-06-05,10:00,12:00,放課後ティータイム,平沢,normal,false")
	assert.Contains(t, body, "2024-06-08,13:00,17:00,学園祭 (LIVE),山中,normal,true")

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, tokyo), repo.from)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, tokyo), repo.to)
}

func TestExportServiceMonthPDF(t *testing.T) {
	repo := &mockCalendarRepo{bookings: exportBookings()}
	svc := NewExportService(repo, nil, nil, nil, testStudio, tokyo)

	out, err := svc.MonthPDF(context.Background(), 2024, time.June)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestExportServiceMonthCSVRepoFailure(t *testing.T) {
	repo := &mockCalendarRepo{err: errors.New("db down")}
	svc := NewExportService(repo, nil, nil, nil, testStudio, tokyo)

	_, err := svc.MonthCSV(context.Background(), 2024, time.June)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}
