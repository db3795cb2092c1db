package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/bay-booking/internal/domain/booking"
	"github.com/example/bay-booking/internal/internaltypes"
)

type CancelBooking struct {
	Store booking.Store
}

// Execute cancels the reservation matching id and email. The update is
// a single conditional write scoped to status=booked, so cancelling
// someone else's booking, or one already cancelled, reports ErrNotFound
// rather than touching the row.
func (u CancelBooking) Execute(ctx context.Context, id int64, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if id <= 0 {
		return fmt.Errorf("%w: booking id must be positive", internaltypes.ErrValidation)
	}
	if email == "" {
		return fmt.Errorf("%w: customer email is required", internaltypes.ErrValidation)
	}
	affected, err := u.Store.CancelReservation(ctx, id, email)
	if err != nil {
		return fmt.Errorf("%w: cancel reservation %d: %v", internaltypes.ErrLookup, id, err)
	}
	if affected == 0 {
		return internaltypes.ErrNotFound
	}
	return nil
}
