// Package tenancy enforces that every data access is scoped to the caller's
// tenant. Cross-tenant targets read as missing, never as forbidden, so tenant
// isolation leaks no existence information.
package tenancy

import (
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"gorm.io/gorm"
)

// RequireSameTenant checks a loaded resource against the caller's tenant.
// resource names the thing being hidden, e.g. "project".
func RequireSameTenant(callerTenant, resourceTenant uint, resource string) error {
	if callerTenant != resourceTenant {
		return apperrors.NotFound(resource + " not found")
	}
	return nil
}

// Scope restricts a query to one tenant's rows.
func Scope(tenantID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
