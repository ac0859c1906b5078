package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-orders/internal/domain"
)

// ErrVersionConflict indicates a record changed between read and write. The
// caller holds a stale copy and must re-read before retrying.
var ErrVersionConflict = errors.New("record modified concurrently")

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	ListByStatus(ctx context.Context, status domain.AggregateStatus) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, order_number, customer_id, customer_email, kind, delivery, items, total_amount,
               status, payment_status, asap, requested_at, min_prep_minutes, admin_extra_minutes,
               committed_ready_at, auto_cancel_at, seen_at, escalated_at, version, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (order_number, customer_id, customer_email, kind, delivery, items, total_amount,
            status, payment_status, asap, requested_at, min_prep_minutes, admin_extra_minutes,
            committed_ready_at, auto_cancel_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id, version, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.OrderNumber,
		order.CustomerID,
		order.CustomerEmail,
		order.RecordKind(),
		order.Delivery,
		order.Items,
		order.TotalAmount,
		order.Status,
		order.PaymentStatus,
		order.ASAP,
		order.RequestedAt,
		order.MinPrepMinutes,
		order.AdminExtraMinutes,
		order.CommittedReadyAt,
		order.AutoCancelAt,
		order.CreatedAt,
	).Scan(&order.ID, &order.Version, &order.UpdatedAt)
}

// Update writes the mutable fields with an optimistic version check. A stale
// version yields ErrVersionConflict so concurrent admin and sweep writes can
// never clobber each other.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET status=$1, payment_status=$2, admin_extra_minutes=$3, committed_ready_at=$4,
            seen_at=$5, escalated_at=$6, version=version+1, updated_at=NOW()
        WHERE id=$7 AND version=$8
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		order.Status,
		order.PaymentStatus,
		order.AdminExtraMinutes,
		order.CommittedReadyAt,
		order.SeenAt,
		order.EscalatedAt,
		order.ID,
		order.Version,
	).Scan(&order.Version, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVersionConflict
	}
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.fetchSingle(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.fetchSingle(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, number)
}

func (r *orderRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var order domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, arg), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, status domain.AggregateStatus) ([]domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row, order *domain.Order) error {
	return row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerID,
		&order.CustomerEmail,
		&order.Kind,
		&order.Delivery,
		&order.Items,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.ASAP,
		&order.RequestedAt,
		&order.MinPrepMinutes,
		&order.AdminExtraMinutes,
		&order.CommittedReadyAt,
		&order.AutoCancelAt,
		&order.SeenAt,
		&order.EscalatedAt,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}
