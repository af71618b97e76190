package repository

// Storage keys for the three persisted documents. Each is read and
// written in full.
const (
	keyLibraries = "ss_libraries"
	keyBookings  = "ss_bookings"
	keyStudent   = "ss_student"
)
