package models

import "time"

// BookingKind is the derived classification of a stored booking. It is
// computed from the interval at read time and never persisted.
type BookingKind string

const (
	// KindNormal is a timed rehearsal slot.
	KindNormal BookingKind = "normal"
	// KindAllDay covers the whole display window (08:00-22:00).
	KindAllDay BookingKind = "allDay"
	// KindAnnouncement reserves no physical time; it only labels a date.
	KindAnnouncement BookingKind = "announcement"
)

// RequestType is the closed set of booking types a client may submit.
type RequestType string

const (
	TypeNormal       RequestType = "normal"
	TypeLive         RequestType = "live"
	TypeBlackout     RequestType = "blackout"
	TypeAnnouncement RequestType = "announcement"
)

// Booking represents a persisted reservation row. Bookings are immutable:
// the only lifecycle transitions are creation and deletion.
type Booking struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"band_name" json:"title"`
	Owner     string    `db:"leader" json:"owner"`
	Resource  string    `db:"studio" json:"resource"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookingView is the read model handed to clients, carrying the derived
// kind and flagged status alongside the stored fields.
type BookingView struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Owner    string      `json:"owner"`
	Resource string      `json:"resource"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Kind     BookingKind `json:"kind"`
	Flagged  bool        `json:"flagged"`
}
