package model

// Student is the single onboarded profile. It is a read-only input to
// booking creation; bookings copy its fields instead of referencing it.
type Student struct {
	Name       string `json:"name"`
	ERPID      string `json:"erpId"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Section    string `json:"section"`
}
