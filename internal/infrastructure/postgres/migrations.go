package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The exclusion constraint is the double-booking guard: two booked
// rows may never share a bay and an overlapping window. The range runs
// over date+time so one gist constraint covers both the date equality
// and the half-open interval overlap.
const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE IF NOT EXISTS bays (
	id INT PRIMARY KEY,
	status TEXT NOT NULL DEFAULT 'Available'
);

CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL,
	bay_id INT NOT NULL REFERENCES bays(id),
	date DATE NOT NULL,
	start_time TIME NOT NULL,
	end_time TIME NOT NULL,
	duration INT NOT NULL CHECK (duration > 0),
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT bookings_same_day_window CHECK (start_time < end_time)
);

ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap;
ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
	EXCLUDE USING gist (
		bay_id WITH =,
		tsrange(date + start_time, date + end_time) WITH &&
	) WHERE (status = 'booked');

CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date);
CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
