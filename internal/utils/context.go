package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/types"
)

// CurrentClaims returns the verified claims attached by the auth middleware,
// or nil for an anonymous request. Guards treat nil as unauthenticated.
func CurrentClaims(ctx *gin.Context) *auth.Claims {
	value, exists := ctx.Get(types.ContextClaimsKey)

	if !exists {
		return nil
	}

	claims, ok := value.(*auth.Claims)

	if !ok {
		return nil
	}

	return claims
}

// CurrentUserID returns the subject of the current claims.
func CurrentUserID(ctx *gin.Context) (uint, error) {
	claims := CurrentClaims(ctx)

	if err := auth.RequireAuthenticated(claims); err != nil {
		return 0, err
	}

	return claims.UserID()
}
