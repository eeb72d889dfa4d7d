package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/db"
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/audit"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/models"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/orbitpm/orbitpm/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	TenantName string `json:"tenant_name" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	TenantName string `json:"tenant_name"`
}

type CreateSystemAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register finds or creates the named tenant and creates its next TENANT_ADMIN.
// This is the only path by which a tenant and its first admin come into
// existence together.
func Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var tenant models.Tenant

	err := db.DB.Where("name = ?", body.TenantName).First(&tenant).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		tenant = models.Tenant{Name: body.TenantName}
		err = db.DB.Create(&tenant).Error
	}

	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to resolve tenant", err))
		return
	}

	var existing models.User

	err = db.DB.Where("email = ? AND tenant_id = ?", body.Email, tenant.ID).First(&existing).Error

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
		Role:         models.RoleTenantAdmin,
		TenantID:     &tenant.ID,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to create user", err))
		return
	}

	token, err := auth.Issue(&user)

	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to issue token", err))
		return
	}

	ctx.JSON(http.StatusCreated, types.AuthResponse{
		Token:      token,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		TenantName: tenant.Name,
	})
}

// Login resolves a tenant-scoped user when tenant_name is given, otherwise a
// global SYSTEM_ADMIN lookup. Every failure mode reads the same.
func Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var (
		user       models.User
		tenantName string
		err        error
	)

	if body.TenantName != "" {
		var tenant models.Tenant

		if err = db.DB.Where("name = ?", body.TenantName).First(&tenant).Error; err != nil {
			denyLogin(ctx, body.Email, err)
			return
		}

		tenantName = tenant.Name
		err = db.DB.Where("email = ? AND tenant_id = ?", body.Email, tenant.ID).First(&user).Error
	} else {
		err = db.DB.Where("email = ? AND role = ?", body.Email, models.RoleSystemAdmin).First(&user).Error
	}

	if err != nil {
		denyLogin(ctx, body.Email, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		denyLogin(ctx, body.Email, err)
		return
	}

	token, err := auth.Issue(&user)

	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to issue token", err))
		return
	}

	ctx.JSON(http.StatusOK, types.AuthResponse{
		Token:      token,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		TenantName: tenantName,
	})
}

func denyLogin(ctx *gin.Context, email string, cause error) {
	if cause != nil && !errors.Is(cause, gorm.ErrRecordNotFound) && !errors.Is(cause, bcrypt.ErrMismatchedHashAndPassword) {
		utils.RespondError(ctx, apperrors.Internal("failed to look up user", cause))
		return
	}

	audit.Record(db.DB, nil, "login", audit.DecisionDenied, map[string]interface{}{"email": email})
	utils.RespondError(ctx, apperrors.InvalidCredentials())
}

// CreateSystemAdmin creates a SYSTEM_ADMIN account. While no system admin
// exists anywhere it is callable without a token; that bootstrap exception
// closes permanently once the first admin is created.
func CreateSystemAdmin(ctx *gin.Context) {
	var body CreateSystemAdminRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	claims := utils.CurrentClaims(ctx)

	var adminCount int64

	if err := db.DB.Model(&models.User{}).Where("role = ?", models.RoleSystemAdmin).Count(&adminCount).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to count system admins", err))
		return
	}

	if adminCount > 0 {
		// Post-bootstrap the operation is invisible to everyone but system
		// admins; anonymous callers get Forbidden, not a hint to authenticate.
		if claims == nil || claims.Role != models.RoleSystemAdmin {
			audit.Record(db.DB, claims, "create_system_admin", audit.DecisionDenied, map[string]interface{}{"email": body.Email})
			utils.RespondError(ctx, apperrors.Forbidden("system admin access required"))
			return
		}

		var existing models.User

		err := db.DB.Where("email = ?", body.Email).First(&existing).Error

		if err == nil {
			utils.RespondError(ctx, apperrors.Conflict("user already exists"))
			return
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apperrors.Internal("failed to check existing user", err))
			return
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to hash password", err))
		return
	}

	admin := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleSystemAdmin,
	}

	if err := db.DB.Create(&admin).Error; err != nil {
		utils.RespondError(ctx, apperrors.Internal("failed to create system admin", err))
		return
	}

	audit.Record(db.DB, claims, "create_system_admin", audit.DecisionAllowed, map[string]interface{}{
		"admin_id":  admin.ID,
		"bootstrap": adminCount == 0,
	})

	ctx.JSON(http.StatusCreated, types.NewUserResponse(&admin))
}

// Me returns the account behind the current claims.
func Me(ctx *gin.Context) {
	claims := utils.CurrentClaims(ctx)

	if err := auth.RequireAuthenticated(claims); err != nil {
		utils.RespondError(ctx, err)
		return
	}

	userID, err := claims.UserID()

	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(ctx, apperrors.Unauthenticated("user no longer exists"))
		} else {
			utils.RespondError(ctx, apperrors.Internal("failed to fetch user", err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(&user)})
}
