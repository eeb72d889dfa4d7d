package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/db"
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/models"
	"github.com/orbitpm/orbitpm/internal/projectauth"
	"github.com/orbitpm/orbitpm/internal/tenancy"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/orbitpm/orbitpm/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssignedTo  *uint  `json:"assigned_to"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// findTenantTask loads a task visible to the caller's tenant.
func findTenantTask(tenantID, taskID uint) (*models.Task, error) {
	var task models.Task

	err := db.DB.Scopes(tenancy.Scope(tenantID)).First(&task, taskID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("task not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch task", err)
	}

	return &task, nil
}

// ListProjectTasks returns a project's tasks. Membership required.
func ListProjectTasks(ctx *gin.Context) {
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

	var tasks []models.Task

	if err := db.DB.Scopes(tenancy.Scope(tenantID)).Where("project_id = ?", project.ID).Find(&tasks).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to list tasks", err))
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

// CreateTask creates a task in a project the caller is a member of.
func CreateTask(ctx *gin.Context) {
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

	var body CreateTaskRequest

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

	if _, err := projectauth.RequireMember(db.DB, project.ID, userID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	// An assignee must be a user of the same tenant.
	if body.AssignedTo != nil {
		var assignee models.User

		err := db.DB.Scopes(tenancy.Scope(tenantID)).First(&assignee, *body.AssignedTo).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apperrors.Validation("assignee is not a user of this tenant"))
			return
		}
		if err != nil {
			utils.RespondError(ctx, apperrors.Internal("failed to fetch assignee", err))
			return
		}
	}

	task := models.Task{
		Title:       body.Title,
		Description: body.Description,
		Status:      models.TaskStatusTodo,
		ProjectID:   project.ID,
		TenantID:    tenantID,
		AssignedTo:  body.AssignedTo,
		CreatedBy:   userID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to create task", err))
		return
	}

	BroadcastTaskRefresh(strconv.FormatUint(uint64(project.ID), 10))

	ctx.JSON(http.StatusCreated, types.NewTaskResponse(&task))
}

// UpdateTaskStatus moves a task between TODO, IN_PROGRESS and DONE. Any member
// may pick any transition.
func UpdateTaskStatus(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	taskID, err := idParam(ctx, "task_id")

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var body UpdateTaskStatusRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status, err := models.ParseTaskStatus(body.Status)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	task, err := findTenantTask(tenantID, taskID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	userID, err := claims.UserID()

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if _, err := projectauth.RequireMember(db.DB, task.ProjectID, userID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	task.Status = status

	if err := db.DB.Save(task).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to update task", err))
		return
	}

	BroadcastTaskRefresh(strconv.FormatUint(uint64(task.ProjectID), 10))

	ctx.JSON(http.StatusOK, types.NewTaskResponse(task))
}

// DeleteTask removes a task. PROJECT_ADMIN membership required; no
// tenant-admin override.
func DeleteTask(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	taskID, err := idParam(ctx, "task_id")

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	task, err := findTenantTask(tenantID, taskID)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	userID, err := claims.UserID()

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if _, err := projectauth.RequireProjectAdmin(db.DB, task.ProjectID, userID); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if err := db.DB.Delete(task).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to delete task", err))
		return
	}

	BroadcastTaskRefresh(strconv.FormatUint(uint64(task.ProjectID), 10))

	ctx.Status(http.StatusNoContent)
}

// ListAssignedTasks returns the caller's assigned tasks across the tenant.
func ListAssignedTasks(ctx *gin.Context) {
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

	var tasks []models.Task

	if err := db.DB.Scopes(tenancy.Scope(tenantID)).Where("assigned_to = ?", userID).Find(&tasks).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to list assigned tasks", err))
		return
	}

	ctx.JSON(http.StatusOK, taskResponses(tasks))
}

func taskResponses(tasks []models.Task) []types.TaskResponse {
	response := make([]types.TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, types.NewTaskResponse(&tasks[i]))
	}

	return response
}
