package adapters

import (
	"context"
	"database/sql"
	"fmt"

	"delivery-proof/internal/features/roles/domain"
)

// PostgresRoleRepository implements ports.RoleRepository over the
// user_roles relation.
type PostgresRoleRepository struct {
	db *sql.DB
}

// NewPostgresRoleRepository creates a new PostgresRoleRepository.
func NewPostgresRoleRepository(db *sql.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

// TagsFor returns the role tags assigned to the identity.
func (r *PostgresRoleRepository) TagsFor(ctx context.Context, identityID string) ([]domain.RoleTag, error) {
	query := `SELECT role FROM user_roles WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("query user roles: %w", err)
	}
	defer rows.Close()

	var tags []domain.RoleTag
	for rows.Next() {
		var tag domain.RoleTag
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user roles: %w", err)
	}

	return tags, nil
}
