package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/studio622/booking-api/internal/models"
)

func newBookingRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "band_name", "studio", "start_time", "end_time", "leader", "created_at"})
}

func TestBookingRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs("放課後ティータイム", "スタジオ622", sqlmock.AnyArg(), sqlmock.AnyArg(), "平沢").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), created))

	b := &models.Booking{
		Title:     "放課後ティータイム",
		Resource:  "スタジオ622",
		Owner:     "平沢",
		StartTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(context.Background(), b))
	require.Equal(t, int64(12), b.ID)
	require.Equal(t, created, b.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := bookingRows().
		AddRow(int64(3), "バンド練習", "スタジオ622", start, start.Add(2*time.Hour), "秋山", start.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, band_name, studio, start_time, end_time, leader, created_at FROM bookings WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	b, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), b.ID)
	require.Equal(t, "バンド練習", b.Title)
	require.Equal(t, "秋山", b.Owner)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryGetByIDMissing(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, band_name, studio")).
		WithArgs(int64(404)).
		WillReturnRows(bookingRows())

	_, err := repo.GetByID(context.Background(), 404)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListUpcoming(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := bookingRows().
		AddRow(int64(1), "午前の練習", "スタジオ622", from.Add(10*time.Hour), from.Add(12*time.Hour), "平沢", from).
		AddRow(int64(2), "午後の練習", "スタジオ622", from.Add(14*time.Hour), from.Add(16*time.Hour), "秋山", from)
	mock.ExpectQuery(regexp.QuoteMeta("end_time >= $2 ORDER BY start_time ASC, id ASC")).
		WithArgs("スタジオ622", from).
		WillReturnRows(rows)

	bookings, err := repo.ListUpcoming(context.Background(), "スタジオ622", from)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.Equal(t, int64(1), bookings[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListOverlapping(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	rows := bookingRows().
		AddRow(int64(8), "重なる予約", "スタジオ622", start.Add(-time.Hour), start.Add(time.Hour), "田井中", start)
	mock.ExpectQuery(regexp.QuoteMeta("start_time < $3 AND end_time > $2")).
		WithArgs("スタジオ622", start, end).
		WillReturnRows(rows)

	bookings, err := repo.ListOverlapping(context.Background(), "スタジオ622", start, end)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, int64(8), bookings[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListStartingBetween(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	repo := NewBookingRepository(db)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	mock.ExpectQuery(regexp.QuoteMeta("start_time >= $2 AND start_time < $3")).
		WithArgs("スタジオ622", from, to).
		WillReturnRows(bookingRows())

	bookings, err := repo.ListStartingBetween(context.Background(), "スタジオ622", from, to)
	require.NoError(t, err)
	require.Empty(t, bookings)
	require.NoError(t, mock.ExpectationsWereMet())
}
