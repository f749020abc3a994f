package ports

import (
	"context"

	"delivery-proof/internal/features/roles/domain"
)

// RoleResolver defines the primary port for capability resolution.
type RoleResolver interface {
	// Resolve determines the capability set for an identity. An empty
	// identity id or a failed lookup yields no capabilities: ambiguous role
	// state must never grant access.
	Resolve(ctx context.Context, identityID string) domain.Capabilities
}

// RoleRepository defines the secondary port for the role-assignment relation.
type RoleRepository interface {
	// TagsFor returns the role tags assigned to the identity.
	TagsFor(ctx context.Context, identityID string) ([]domain.RoleTag, error)
}
