// Package projectauth enforces project-level role rules on top of tenant
// scoping. The ProjectMembership row is the sole authority for who may act on
// a project and at what level.
package projectauth

import (
	"errors"

	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/models"
	"gorm.io/gorm"
)

// RequireMember looks up the caller's membership in a project. Absence is
// Forbidden even when the caller belongs to the project's tenant.
func RequireMember(database *gorm.DB, projectID, userID uint) (*models.ProjectMembership, error) {
	var membership models.ProjectMembership

	err := database.Where("project_id = ? AND user_id = ?", projectID, userID).First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Forbidden("not authorized for this project")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to look up project membership", err)
	}

	return &membership, nil
}

// RequireProjectAdmin is RequireMember plus a PROJECT_ADMIN role check. There
// is no account-role escape hatch here: project update/delete and task
// deletion demand an admin membership even from tenant admins.
func RequireProjectAdmin(database *gorm.DB, projectID, userID uint) (*models.ProjectMembership, error) {
	membership, err := RequireMember(database, projectID, userID)
	if err != nil {
		return nil, err
	}

	if membership.Role != models.ProjectRoleAdmin {
		return nil, apperrors.Forbidden("project admin access required")
	}

	return membership, nil
}

// CanManageMembers gates member add/remove/role-change. Tenant admins manage
// membership on any project in their tenant without holding a membership row
// themselves; everyone else needs an admin membership.
func CanManageMembers(database *gorm.DB, claims *auth.Claims, projectID uint) error {
	if claims.Role == models.RoleTenantAdmin {
		return nil
	}

	userID, err := claims.UserID()
	if err != nil {
		return err
	}

	_, err = RequireProjectAdmin(database, projectID, userID)
	return err
}
