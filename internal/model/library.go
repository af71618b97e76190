package model

// Library is one physical library with a fixed pool of seats.
// TotalSpots is set at seeding and never changes; AvailableSpots is
// mutated only by the booking engine and always stays within
// [0, TotalSpots].
type Library struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Building       string  `json:"building"`
	TotalSpots     int     `json:"totalSpots"`
	AvailableSpots int     `json:"availableSpots"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AdminPin       string  `json:"adminPin"`
}

// Adjust applies a seat-count delta clamped to [0, TotalSpots].
// Callers that need an unclamped business error (booking when full)
// must check AvailableSpots before mutating; the clamp is a safety
// bound, not a failure signal.
func (l *Library) Adjust(delta int) {
	next := l.AvailableSpots + delta
	if next < 0 {
		next = 0
	}
	if next > l.TotalSpots {
		next = l.TotalSpots
	}
	l.AvailableSpots = next
}
