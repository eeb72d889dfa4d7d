package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/db"
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/models"
	"github.com/orbitpm/orbitpm/internal/tenancy"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/orbitpm/orbitpm/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateTenantUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// ListAllUsers returns every user across all tenants. System admin only.
func ListAllUsers(ctx *gin.Context) {
	if err := auth.RequireSystemAdmin(utils.CurrentClaims(ctx)); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var users []models.User

	if err := db.DB.Find(&users).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to list users", err))
		return
	}

	ctx.JSON(http.StatusOK, userResponses(users))
}

// ListTenantUsers returns the users of the caller's tenant.
func ListTenantUsers(ctx *gin.Context) {
	tenantID, err := auth.RequireTenantScoped(utils.CurrentClaims(ctx))

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var users []models.User

	if err := db.DB.Scopes(tenancy.Scope(tenantID)).Find(&users).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to list tenant users", err))
		return
	}

	ctx.JSON(http.StatusOK, userResponses(users))
}

// CreateTenantUser creates a MEMBER or TENANT_ADMIN inside the caller's
// tenant. Only tenant admins may call it.
func CreateTenantUser(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)
	tenantID, err := auth.RequireTenantScoped(claims)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	if claims.Role != models.RoleTenantAdmin {
		utils.RespondError(ctx, apperrors.Forbidden("only tenant admin can create users"))
		return
	}

	var body CreateTenantUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role, err := models.ParseRole(body.Role)

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	// SYSTEM_ADMIN accounts are tenant-less and can never be minted here.
	if role == models.RoleSystemAdmin {
		utils.RespondError(ctx, apperrors.Validation("invalid role"))
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var existing models.User

	err = db.DB.Where("email = ? AND tenant_id = ?", body.Email, tenantID).First(&existing).Error

	if err == nil {
		utils.RespondError(ctx, apperrors.Conflict("user already exists in this tenant"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(ctx, apperrors.Internal("failed to check existing user", err))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to hash password", err))
		return
	}

	user := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(passwordHash),
		Role:         role,
		TenantID:     &tenantID,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to create user", err))
		return
	}

	ctx.JSON(http.StatusCreated, types.NewUserResponse(&user))
}

func userResponses(users []models.User) []types.UserResponse {
	response := make([]types.UserResponse, 0, len(users))

	for i := range users {
		response = append(response, types.NewUserResponse(&users[i]))
	}

	return response
}
