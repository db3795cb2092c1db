package booking

import "time"

type BayStatus string

const (
	BayAvailable   BayStatus = "Available"
	BayUnavailable BayStatus = "Unavailable"
)

type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "booked"
	StatusCancelled ReservationStatus = "cancelled"
)

// Bay is one independently bookable unit from the fixed pool.
// Provisioning is an admin concern; booking only ever reads bays,
// and Unavailable bays are never assignable.
type Bay struct {
	ID     int
	Status BayStatus
}

// Reservation is a single booking of one bay for a same-day window.
// Rows are never deleted; cancellation flips Status and nothing else.
type Reservation struct {
	ID            int64
	Email         string // lowercased at the boundary
	BayID         int
	Date          time.Time // calendar date, midnight UTC
	Start         ClockTime
	End           ClockTime
	DurationHours int
	Status        ReservationStatus
	CreatedAt     time.Time
}

// Overlaps reports whether the half-open windows [s1,e1) and [s2,e2)
// share at least one instant. Touching endpoints do not overlap.
func Overlaps(s1, e1, s2, e2 ClockTime) bool {
	return s1 < e2 && s2 < e1
}
