package auth

import (
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/models"
)

// Guards are stateless pass/fail decisions over a request's claims. They
// compose by sequential application; the first failure is surfaced verbatim.

// RequireAuthenticated fails when the request carried no valid claims.
func RequireAuthenticated(claims *Claims) error {
	if claims == nil {
		return apperrors.Unauthenticated("authentication required")
	}
	return nil
}

// RequireSystemAdmin fails unless the caller is an authenticated SYSTEM_ADMIN.
func RequireSystemAdmin(claims *Claims) error {
	if err := RequireAuthenticated(claims); err != nil {
		return err
	}
	if claims.Role != models.RoleSystemAdmin {
		return apperrors.Forbidden("system admin access required")
	}
	return nil
}

// RequireTenantScoped fails unless the caller belongs to a tenant, and returns
// that tenant's id. System admins are never tenant-scoped.
func RequireTenantScoped(claims *Claims) (uint, error) {
	if err := RequireAuthenticated(claims); err != nil {
		return 0, err
	}
	if claims.TenantID == nil {
		return 0, apperrors.Forbidden("tenant context required")
	}
	return *claims.TenantID, nil
}
