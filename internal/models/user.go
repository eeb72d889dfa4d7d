package models

import "github.com/orbitpm/orbitpm/internal/apperrors"

// Role is the account-level role of a user. SYSTEM_ADMIN accounts are
// tenant-less; every other role belongs to exactly one tenant.
type Role string

const (
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
	RoleTenantAdmin Role = "TENANT_ADMIN"
	RoleMember      Role = "MEMBER"
)

// ParseRole validates a role value coming from request input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSystemAdmin, RoleTenantAdmin, RoleMember:
		return Role(s), nil
	default:
		return "", apperrors.Validation("invalid role")
	}
}

type User struct {
	BaseModel

	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex:idx_tenant_email"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"type:varchar(20);not null"`
	TenantID     *uint  `gorm:"uniqueIndex:idx_tenant_email"`

	// Relationships
	Tenant             *Tenant             `gorm:"foreignKey:TenantID"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
