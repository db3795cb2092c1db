package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/bay-booking/internal/domain/booking"
	"github.com/example/bay-booking/internal/internaltypes"
)

type NewBookingParams struct {
	Email         string
	Date          time.Time
	StartTimeRaw  string // 12-hour clock with AM/PM, e.g. "02:00 PM"
	DurationHours int
}

type Confirmation struct {
	BookingID int64
	BayID     int
	Date      time.Time
}

type CreateBooking struct {
	Store booking.Store
}

// Execute validates the request, resolves a free bay and persists the
// reservation. The availability read is advisory only: the store's
// no-overlap constraint is what actually prevents double booking, so a
// conflicting insert triggers one re-resolution before the window is
// reported as unavailable.
func (u CreateBooking) Execute(ctx context.Context, p NewBookingParams) (Confirmation, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return Confirmation{}, fmt.Errorf("%w: customer email is required", internaltypes.ErrValidation)
	}
	if p.Date.IsZero() {
		return Confirmation{}, fmt.Errorf("%w: booking date is required", internaltypes.ErrValidation)
	}
	if p.DurationHours <= 0 {
		return Confirmation{}, fmt.Errorf("%w: duration must be a positive number of hours", internaltypes.ErrValidation)
	}
	start, err := booking.ParseClock12(p.StartTimeRaw)
	if err != nil {
		return Confirmation{}, fmt.Errorf("%w: %v", internaltypes.ErrValidation, err)
	}
	end, err := start.AddHours(p.DurationHours)
	if err != nil {
		return Confirmation{}, fmt.Errorf("%w: %v", internaltypes.ErrValidation, err)
	}
	date := p.Date.UTC().Truncate(24 * time.Hour)

	for attempt := 0; attempt < 2; attempt++ {
		bayID, ok, err := u.findAvailableBay(ctx, date, start, end)
		if err != nil {
			return Confirmation{}, err
		}
		if !ok {
			return Confirmation{}, internaltypes.ErrUnavailable
		}
		res, err := u.Store.InsertReservation(ctx, booking.Reservation{
			Email:         email,
			BayID:         bayID,
			Date:          date,
			Start:         start,
			End:           end,
			DurationHours: p.DurationHours,
			Status:        booking.StatusBooked,
		})
		if err != nil {
			if errors.Is(err, internaltypes.ErrConflict) {
				// Lost the race for this bay; re-resolve once.
				continue
			}
			return Confirmation{}, fmt.Errorf("insert reservation: %w", err)
		}
		return Confirmation{BookingID: res.ID, BayID: res.BayID, Date: res.Date}, nil
	}
	return Confirmation{}, internaltypes.ErrUnavailable
}

// findAvailableBay picks the lowest-id Available bay whose schedule is
// clear for [start,end) on date. ok=false means legitimately no bay;
// store failures come back as ErrLookup and are never folded into the
// no-availability outcome.
func (u CreateBooking) findAvailableBay(ctx context.Context, date time.Time, start, end booking.ClockTime) (int, bool, error) {
	occupied, err := u.Store.OverlappingBays(ctx, date, start, end)
	if err != nil {
		return 0, false, fmt.Errorf("%w: overlapping bays: %v", internaltypes.ErrLookup, err)
	}
	candidates, err := u.Store.AvailableBays(ctx, occupied)
	if err != nil {
		return 0, false, fmt.Errorf("%w: available bays: %v", internaltypes.ErrLookup, err)
	}
	if len(candidates) == 0 {
		return 0, false, nil
	}
	best := candidates[0]
	for _, id := range candidates[1:] {
		if id < best {
			best = id
		}
	}
	return best, true, nil
}
