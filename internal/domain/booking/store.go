package booking

import (
	"context"
	"time"
)

// Store is the persistence boundary the booking flows depend on.
// Implementations must enforce the no-overlap invariant themselves:
// InsertReservation returns internaltypes.ErrConflict when a booked
// row for the same bay already covers part of the window, regardless
// of what any earlier availability read said.
type Store interface {
	// OverlappingBays returns the distinct bay ids of booked
	// reservations on date whose [start,end) window overlaps the
	// given one.
	OverlappingBays(ctx context.Context, date time.Time, start, end ClockTime) ([]int, error)

	// AvailableBays returns the ids of Available bays not in exclude,
	// in ascending id order.
	AvailableBays(ctx context.Context, exclude []int) ([]int, error)

	InsertReservation(ctx context.Context, r Reservation) (Reservation, error)

	// CancelReservation marks the reservation cancelled when id,
	// email and a current status of booked all match, and returns the
	// number of rows affected.
	CancelReservation(ctx context.Context, id int64, email string) (int64, error)
}
