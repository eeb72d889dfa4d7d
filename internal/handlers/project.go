package handlers

import (
	"errors"
	"net/http"
	"strconv"

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

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func idParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("invalid " + name)
	}
	return uint(id), nil
}

// findTenantProject loads a project visible to the caller's tenant. A project
// in another tenant reads as missing.
func findTenantProject(tenantID, projectID uint) (*models.Project, error) {
	var project models.Project

	err := db.DB.Scopes(tenancy.Scope(tenantID)).First(&project, projectID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("project not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch project", err)
	}

	return &project, nil
}

// CreateProject creates a project in the caller's tenant; the creator becomes
// its PROJECT_ADMIN.
func CreateProject(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	userID, err := claims.UserID()

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project := models.Project{
		Name:        body.Name,
		Description: body.Description,
		TenantID:    tenantID,
		CreatedBy:   userID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		membership := models.ProjectMembership{
			ProjectID: project.ID,
			UserID:    userID,
			TenantID:  tenantID,
			Role:      models.ProjectRoleAdmin,
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to create project", err))
		return
	}

	ctx.JSON(http.StatusCreated, types.NewProjectResponse(&project))
}

// ListProjects returns the caller's projects: every tenant project for a
// tenant admin, membership-based visibility for everyone else.
func ListProjects(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var projects []models.Project

	if claims.Role == models.RoleTenantAdmin {
		err = db.DB.Scopes(tenancy.Scope(tenantID)).Find(&projects).Error
	} else {
		userID, uidErr := claims.UserID()
		if uidErr != nil {
			utils.RespondError(ctx, uidErr)
			return
		}

		err = db.DB.
			Joins("JOIN project_memberships ON project_memberships.project_id = projects.id").
			Where("project_memberships.user_id = ? AND projects.tenant_id = ?", userID, tenantID).
			Find(&projects).Error
	}

	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to list projects", err))
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, types.NewProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProject returns one project; the caller must hold a membership in it.
func GetProject(ctx *gin.Context) {
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

	ctx.JSON(http.StatusOK, types.NewProjectResponse(project))
}

// UpdateProject changes name/description. PROJECT_ADMIN membership required;
// the tenant-admin override does not apply here.
func UpdateProject(ctx *gin.Context) {
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

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
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

	if _, err := projectauth.RequireProjectAdmin(db.DB, project.ID, userID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if body.Name != nil {
		project.Name = *body.Name
	}
	if body.Description != nil {
		project.Description = *body.Description
	}

	if err := db.DB.Save(project).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to update project", err))
		return
	}

	ctx.JSON(http.StatusOK, types.NewProjectResponse(project))
}

// DeleteProject removes a project with its tasks and memberships. The cascade
// runs in one transaction so it is never observed half-done.
func DeleteProject(ctx *gin.Context) {
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

	if _, err := projectauth.RequireProjectAdmin(db.DB, project.ID, userID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})

	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to delete project", err))
		return
	}

	audit.Record(db.DB, claims, "delete_project", audit.DecisionAllowed, map[string]interface{}{"project_id": project.ID})

	ctx.Status(http.StatusNoContent)
}
