package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/core/notify"
	"delivery-proof/internal/features/deliveries/domain"
	"delivery-proof/internal/features/deliveries/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostgresDeliveryRepository implements ports.DeliveryRepository over the
// authoritative postgres store. After every successful mutation it publishes
// an event on the delivery change feed so every live store re-fetches,
// whichever session performed the mutation.
type PostgresDeliveryRepository struct {
	db   *sql.DB
	feed notify.ChangeFeed
}

// NewPostgresDeliveryRepository creates a new PostgresDeliveryRepository.
func NewPostgresDeliveryRepository(db *sql.DB, feed notify.ChangeFeed) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{
		db:   db,
		feed: feed,
	}
}

// Insert creates a pending delivery and returns it with its assigned id.
func (r *PostgresDeliveryRepository) Insert(ctx context.Context, fields ports.NewDelivery) (*domain.Delivery, error) {
	d := domain.NewDelivery(uuid.NewString(), fields.ClientName, fields.Address, fields.Notes, time.Now().UTC())

	query := `INSERT INTO deliveries (id, client_name, address, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.ClientName, d.Address, d.Notes, d.Status, d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert delivery: %w", err)
	}

	r.publish(ctx, "insert")
	return d, nil
}

// Complete marks a pending delivery completed. Only pending rows match, so a
// second completion or an unknown id both report ErrDeliveryNotFound.
func (r *PostgresDeliveryRepository) Complete(ctx context.Context, id, photo string, completedAt time.Time) error {
	query := `UPDATE deliveries
		SET status = $2, completed_at = $3, photo = $4
		WHERE id = $1 AND status = $5`

	res, err := r.db.ExecContext(ctx, query,
		id, domain.DeliveryStatusCompleted, completedAt, photo, domain.DeliveryStatusPending,
	)
	if err != nil {
		return fmt.Errorf("complete delivery: %w", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrDeliveryNotFound
	}

	r.publish(ctx, "update")
	return nil
}

// List returns all deliveries ordered by creation time descending.
func (r *PostgresDeliveryRepository) List(ctx context.Context) ([]domain.Delivery, error) {
	query := `SELECT id, client_name, address, notes, status, created_at, completed_at, photo
		FROM deliveries
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		var completedAt sql.NullTime
		var photo sql.NullString

		err := rows.Scan(&d.ID, &d.ClientName, &d.Address, &d.Notes, &d.Status, &d.CreatedAt, &completedAt, &photo)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}

		if completedAt.Valid {
			t := completedAt.Time
			d.CompletedAt = &t
		}
		if photo.Valid {
			d.Photo = photo.String
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}

	return out, nil
}

// publish emits a change-feed event. Best effort: a live store that misses an
// event still converges on the next one, and the mutating session refreshes
// itself unconditionally.
func (r *PostgresDeliveryRepository) publish(ctx context.Context, event string) {
	if err := r.feed.Publish(ctx, notify.ChannelDeliveries, event); err != nil {
		logger.Named("deliveries").Warn("Failed to publish change event", zap.Error(err), zap.String("event", event))
	}
}
