package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/db"
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/audit"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/models"
	"github.com/orbitpm/orbitpm/internal/projectauth"
	"github.com/orbitpm/orbitpm/internal/tenancy"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/orbitpm/orbitpm/internal/utils"
	"gorm.io/gorm"
)

type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListMembers returns a project's members with their project roles. Requires
// membership, like any other project read.
func ListMembers(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	projectID, err := idParam(ctx, "project_id")

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	project, err := findTenantProject(tenantID, projectID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	userID, err := claims.UserID()

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if _, err := projectauth.RequireMember(db.DB, project.ID, userID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var memberships []models.ProjectMembership

	if err := db.DB.Preload("User").Where("project_id = ?", project.ID).Find(&memberships).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to list members", err))
		return
	}

	response := make([]types.ProjectMemberResponse, 0, len(memberships))

	for i := range memberships {
		response = append(response, types.ProjectMemberResponse{
			User: types.NewUserResponse(&memberships[i].User),
			Role: memberships[i].Role,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// AddMember grants a tenant user a role in a project. Project admins and
// tenant admins may call it.
func AddMember(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	projectID, err := idParam(ctx, "project_id")

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role, err := models.ParseProjectRole(body.Role)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	project, err := findTenantProject(tenantID, projectID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := projectauth.CanManageMembers(db.DB, claims, project.ID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	// The new member must be a user of the same tenant.
	var target models.User

	err = db.DB.Scopes(tenancy.Scope(tenantID)).First(&target, body.UserID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(ctx, apperrors.NotFound("user not found"))
		return
	}
	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to fetch user", err))
		return
	}

	var existing models.ProjectMembership

	err = db.DB.Where("project_id = ? AND user_id = ?", project.ID, target.ID).First(&existing).Error

	if err == nil {
		utils.RespondError(ctx, apperrors.Conflict("user is already a member of this project"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(ctx, apperrors.Internal("failed to check existing membership", err))
		return
	}

	membership := models.ProjectMembership{
		ProjectID: project.ID,
		UserID:    target.ID,
		TenantID:  tenantID,
		Role:      role,
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to add member", err))
		return
	}

	audit.Record(db.DB, claims, "add_member", audit.DecisionAllowed, map[string]interface{}{
		"project_id": project.ID,
		"user_id":    target.ID,
		"role":       role,
	})

	ctx.JSON(http.StatusCreated, types.NewMembershipResponse(&membership))
}

// UpdateMemberRole changes an existing member's project role.
func UpdateMemberRole(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	projectID, err := idParam(ctx, "project_id")

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	memberID, err := idParam(ctx, "user_id")

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var body UpdateMemberRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role, err := models.ParseProjectRole(body.Role)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	project, err := findTenantProject(tenantID, projectID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := projectauth.CanManageMembers(db.DB, claims, project.ID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var membership models.ProjectMembership

	err = db.DB.Where("project_id = ? AND user_id = ?", project.ID, memberID).First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(ctx, apperrors.NotFound("membership not found"))
		return
	}
	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to fetch membership", err))
		return
	}

	membership.Role = role

	if err := db.DB.Save(&membership).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to update membership", err))
		return
	}

	audit.Record(db.DB, claims, "update_member_role", audit.DecisionAllowed, map[string]interface{}{
		"project_id": project.ID,
		"user_id":    memberID,
		"role":       role,
	})

	ctx.JSON(http.StatusOK, types.NewMembershipResponse(&membership))
}

// RemoveMember revokes a user's membership in a project.
func RemoveMember(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	projectID, err := idParam(ctx, "project_id")

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	memberID, err := idParam(ctx, "user_id")

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	project, err := findTenantProject(tenantID, projectID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := projectauth.CanManageMembers(db.DB, claims, project.ID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	result := db.DB.Where("project_id = ? AND user_id = ?", project.ID, memberID).Delete(&models.ProjectMembership{})

	if result.Error != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to remove member", result.Error))
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondError(ctx, apperrors.NotFound("membership not found"))
		return
	}

	audit.Record(db.DB, claims, "remove_member", audit.DecisionAllowed, map[string]interface{}{
		"project_id": project.ID,
		"user_id":    memberID,
	})

	ctx.Status(http.StatusNoContent)
}
