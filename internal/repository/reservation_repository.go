package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-orders/internal/domain"
)

// ReservationRepository encapsulates reservation persistence.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	ListByStatus(ctx context.Context, status domain.AggregateStatus) ([]domain.Reservation, error)
}

type reservationRepository struct {
	pool *pgxpool.Pool
}

// NewReservationRepository instantiates repository.
func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &reservationRepository{pool: pool}
}

const reservationColumns = `id, reservation_number, customer_id, customer_email, party_size, notes,
               status, payment_status, asap, requested_at, min_prep_minutes, admin_extra_minutes,
               committed_ready_at, auto_cancel_at, seen_at, escalated_at, version, created_at, updated_at`

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	const query = `
        INSERT INTO reservations (reservation_number, customer_id, customer_email, party_size, notes,
            status, payment_status, asap, requested_at, min_prep_minutes, admin_extra_minutes,
            committed_ready_at, auto_cancel_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, version, updated_at`
	return r.pool.QueryRow(ctx, query,
		reservation.ReservationNumber,
		reservation.CustomerID,
		reservation.CustomerEmail,
		reservation.PartySize,
		reservation.Notes,
		reservation.Status,
		reservation.PaymentStatus,
		reservation.ASAP,
		reservation.RequestedAt,
		reservation.MinPrepMinutes,
		reservation.AdminExtraMinutes,
		reservation.CommittedReadyAt,
		reservation.AutoCancelAt,
		reservation.CreatedAt,
	).Scan(&reservation.ID, &reservation.Version, &reservation.UpdatedAt)
}

// Update writes the mutable fields with an optimistic version check, same as
// orders.
func (r *reservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	const query = `
        UPDATE reservations SET status=$1, payment_status=$2, admin_extra_minutes=$3, committed_ready_at=$4,
            seen_at=$5, escalated_at=$6, version=version+1, updated_at=NOW()
        WHERE id=$7 AND version=$8
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		reservation.Status,
		reservation.PaymentStatus,
		reservation.AdminExtraMinutes,
		reservation.CommittedReadyAt,
		reservation.SeenAt,
		reservation.EscalatedAt,
		reservation.ID,
		reservation.Version,
	).Scan(&reservation.Version, &reservation.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVersionConflict
	}
	return err
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := scanReservation(r.pool.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id), &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) ListByStatus(ctx context.Context, status domain.AggregateStatus) ([]domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE status=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		var reservation domain.Reservation
		if err := scanReservation(rows, &reservation); err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, rows.Err()
}

func scanReservation(row pgx.Row, reservation *domain.Reservation) error {
	return row.Scan(
		&reservation.ID,
		&reservation.ReservationNumber,
		&reservation.CustomerID,
		&reservation.CustomerEmail,
		&reservation.PartySize,
		&reservation.Notes,
		&reservation.Status,
		&reservation.PaymentStatus,
		&reservation.ASAP,
		&reservation.RequestedAt,
		&reservation.MinPrepMinutes,
		&reservation.AdminExtraMinutes,
		&reservation.CommittedReadyAt,
		&reservation.AutoCancelAt,
		&reservation.SeenAt,
		&reservation.EscalatedAt,
		&reservation.Version,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
}
