package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/bay-booking/internal/domain/booking"
	"github.com/example/bay-booking/internal/internaltypes"
)

// memStore is an in-memory booking.Store that enforces the same
// no-overlap rule the postgres exclusion constraint does, atomically
// under a mutex, so racing inserts behave like the real store.
type memStore struct {
	mu     sync.Mutex
	bays   []booking.Bay
	rows   []booking.Reservation
	nextID int64

	overlappingErr error
	availableErr   error
	cancelErr      error
	conflictOnce   bool // reject the next insert as if a race was lost
}

func newMemStore(bays ...booking.Bay) *memStore {
	return &memStore{bays: bays, nextID: 1}
}

func (m *memStore) OverlappingBays(ctx context.Context, date time.Time, start, end booking.ClockTime) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlappingErr != nil {
		return nil, m.overlappingErr
	}
	seen := make(map[int]bool)
	var ids []int
	for _, r := range m.rows {
		if r.Status != booking.StatusBooked || !r.Date.Equal(date) {
			continue
		}
		if booking.Overlaps(r.Start, r.End, start, end) && !seen[r.BayID] {
			seen[r.BayID] = true
			ids = append(ids, r.BayID)
		}
	}
	return ids, nil
}

func (m *memStore) AvailableBays(ctx context.Context, exclude []int) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.availableErr != nil {
		return nil, m.availableErr
	}
	excluded := make(map[int]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	var ids []int
	for _, b := range m.bays {
		if b.Status == booking.BayAvailable && !excluded[b.ID] {
			ids = append(ids, b.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (m *memStore) InsertReservation(ctx context.Context, r booking.Reservation) (booking.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflictOnce {
		m.conflictOnce = false
		return booking.Reservation{}, internaltypes.ErrConflict
	}
	for _, ex := range m.rows {
		if ex.Status != booking.StatusBooked || ex.BayID != r.BayID || !ex.Date.Equal(r.Date) {
			continue
		}
		if booking.Overlaps(ex.Start, ex.End, r.Start, r.End) {
			return booking.Reservation{}, internaltypes.ErrConflict
		}
	}
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now()
	m.rows = append(m.rows, r)
	return r, nil
}

func (m *memStore) CancelReservation(ctx context.Context, id int64, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelErr != nil {
		return 0, m.cancelErr
	}
	for i := range m.rows {
		r := &m.rows[i]
		if r.ID == id && r.Email == email && r.Status == booking.StatusBooked {
			r.Status = booking.StatusCancelled
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memStore) reservations() []booking.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]booking.Reservation, len(m.rows))
	copy(out, m.rows)
	return out
}
