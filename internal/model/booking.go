package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // reserved in app, grace window to scan the entrance code
	BookingStatusConfirmed BookingStatus = "confirmed" // scanned in, currently inside
	BookingStatusCompleted BookingStatus = "completed" // scanned out, or session limit reached
	BookingStatusExpired   BookingStatus = "expired"   // never scanned in, seat auto-released
	BookingStatusReleased  BookingStatus = "released"  // force-released by an admin
)

// Active reports whether the booking still holds a seat.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking is one entry in the append-only booking ledger. Student
// identity fields are copied at booking time, not live-joined.
//
// Transitions: pending -> confirmed|expired, confirmed ->
// completed|released. Terminal states are never left and pending is
// never revisited.
type Booking struct {
	ID  string `json:"id"`
	Seq int64  `json:"seq"`

	LibraryID   string `json:"libraryId"`
	LibraryName string `json:"libraryName"`
	Building    string `json:"building"`

	StudentName string `json:"studentName"`
	StudentERP  string `json:"studentErp"`
	Department  string `json:"department"`
	Year        string `json:"year"`
	Section     string `json:"section"`

	Status BookingStatus `json:"status"`

	BookedAt      time.Time  `json:"bookedAt"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	CheckedInAt   *time.Time `json:"checkedInAt"`
	SessionEndsAt *time.Time `json:"sessionEndsAt"`
	CheckedOutAt  *time.Time `json:"checkedOutAt"`
}
