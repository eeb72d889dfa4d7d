package models

import "github.com/orbitpm/orbitpm/internal/apperrors"

// ProjectRole is the per-project role granted by a membership, independent of
// the account-level Role.
type ProjectRole string

const (
	ProjectRoleAdmin  ProjectRole = "PROJECT_ADMIN"
	ProjectRoleMember ProjectRole = "PROJECT_MEMBER"
)

// ParseProjectRole validates a project role value coming from request input.
func ParseProjectRole(s string) (ProjectRole, error) {
	switch ProjectRole(s) {
	case ProjectRoleAdmin, ProjectRoleMember:
		return ProjectRole(s), nil
	default:
		return "", apperrors.Validation("invalid project role")
	}
}

// ProjectMembership is the sole source of truth for who can act on a project
// and at what level. TenantID is carried redundantly for scoping queries.
type ProjectMembership struct {
	BaseModel

	ProjectID uint        `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_project_user"`
	TenantID  uint        `gorm:"not null;index"`
	Role      ProjectRole `gorm:"type:varchar(20);not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
