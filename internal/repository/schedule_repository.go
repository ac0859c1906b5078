package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleRepository stores the raw weekly-schedule document. One restaurant,
// one row; the document is kept as opaque JSON and interpreted by the hours
// engine, which fails closed on anything it cannot parse.
type ScheduleRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, raw []byte) error
}

type scheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository instantiates repository.
func NewScheduleRepository(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{pool: pool}
}

// Load returns the stored schedule document, or nil when none exists.
func (r *scheduleRepository) Load(ctx context.Context) ([]byte, error) {
	const query = `SELECT data FROM weekly_schedule WHERE id=1`
	var raw []byte
	if err := r.pool.QueryRow(ctx, query).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

// Save upserts the schedule document.
func (r *scheduleRepository) Save(ctx context.Context, raw []byte) error {
	const query = `
        INSERT INTO weekly_schedule (id, data) VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, raw)
	return err
}
