package application

import (
	"context"

	domainerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"
	"crmhub/internal/shared/authz"
)

// EnsureClientAccess rejects manager-scoped actors that are not assigned to
// the client. Unscoped actors pass through untouched.
func EnsureClientAccess(ctx context.Context, clients ports.ClientDirectory, actor authz.Actor, clientID string) error {
	scope := authz.ManagerScope(actor)
	if scope == "" {
		return nil
	}
	assigned, err := clients.IsClientAssignedToManager(ctx, clientID, scope)
	if err != nil {
		return err
	}
	if !assigned {
		return domainerrors.ErrForbidden
	}
	return nil
}
