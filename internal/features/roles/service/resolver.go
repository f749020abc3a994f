package service

import (
	"context"

	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/features/roles/domain"
	"delivery-proof/internal/features/roles/ports"

	"go.uber.org/zap"
)

// RoleResolverImpl implements ports.RoleResolver against the role-assignment
// relation.
type RoleResolverImpl struct {
	repo ports.RoleRepository
	log  *zap.Logger
}

// NewRoleResolver creates a new RoleResolverImpl.
func NewRoleResolver(repo ports.RoleRepository) *RoleResolverImpl {
	return &RoleResolverImpl{
		repo: repo,
		log:  logger.Named("roles"),
	}
}

// Resolve determines the capability set for an identity. A failed lookup is
// logged and resolves to no capabilities rather than an error: ambiguous role
// state must never grant access.
func (r *RoleResolverImpl) Resolve(ctx context.Context, identityID string) domain.Capabilities {
	if identityID == "" {
		return domain.Capabilities{}
	}

	tags, err := r.repo.TagsFor(ctx, identityID)
	if err != nil {
		r.log.Error("Role lookup failed, resolving with no capabilities",
			zap.Error(err), zap.String("identity", identityID))
		return domain.Capabilities{}
	}

	return domain.FromTags(tags)
}
