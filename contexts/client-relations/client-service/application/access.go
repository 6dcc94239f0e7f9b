package application

import (
	"context"

	domainerrors "crmhub/contexts/client-relations/client-service/domain/errors"
	"crmhub/contexts/client-relations/client-service/ports"
	"crmhub/internal/shared/authz"
)

// EnsureClientAccess rejects manager-scoped actors that are not assigned to
// the client. Unscoped actors pass through untouched.
func EnsureClientAccess(ctx context.Context, reader ports.ClientReader, actor authz.Actor, clientID string) error {
	scope := authz.ManagerScope(actor)
	if scope == "" {
		return nil
	}
	assigned, err := reader.IsClientAssignedToManager(ctx, clientID, scope)
	if err != nil {
		return err
	}
	if !assigned {
		return domainerrors.ErrForbidden
	}
	return nil
}
