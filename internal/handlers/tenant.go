package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/db"
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/models"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/orbitpm/orbitpm/internal/utils"
	"gorm.io/gorm"
)

type CreateTenantRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListTenants returns every tenant. System admin only.
func ListTenants(ctx *gin.Context) {
	if err := auth.RequireSystemAdmin(utils.CurrentClaims(ctx)); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var tenants []models.Tenant

	if err := db.DB.Find(&tenants).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to list tenants", err))
		return
	}

	response := make([]types.TenantResponse, 0, len(tenants))

	for _, tenant := range tenants {
		response = append(response, types.TenantResponse{ID: tenant.ID, Name: tenant.Name})
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateTenant creates an empty tenant. System admin only; register is the
// path that creates a tenant together with its first admin.
func CreateTenant(ctx *gin.Context) {
	if err := auth.RequireSystemAdmin(utils.CurrentClaims(ctx)); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var body CreateTenantRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var existing models.Tenant

	err := db.DB.Where("name = ?", body.Name).First(&existing).Error

	if err == nil {
		utils.RespondError(ctx, apperrors.Conflict("tenant already exists"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(ctx, apperrors.Internal("failed to check existing tenant", err))
		return
	}

	tenant := models.Tenant{Name: body.Name}

	if err := db.DB.Create(&tenant).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to create tenant", err))
		return
	}

	ctx.JSON(http.StatusCreated, types.TenantResponse{ID: tenant.ID, Name: tenant.Name})
}
