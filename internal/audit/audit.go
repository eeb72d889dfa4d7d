// Package audit keeps an append-only trail of security-relevant operations.
// Recording is best-effort: a failed write is logged and never fails the
// operation it describes.
package audit

import (
	"encoding/json"

	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
)

// Record persists one audit entry. claims may be nil for anonymous callers
// (denied logins, bootstrap admin creation).
func Record(database *gorm.DB, claims *auth.Claims, action, decision string, detail map[string]interface{}) {
	entry := models.AuditLog{
		Action:   action,
		Decision: decision,
	}

	if claims != nil {
		if userID, err := claims.UserID(); err == nil {
			entry.ActorID = &userID
		}
		entry.TenantID = claims.TenantID
	}

	if detail != nil {
		payload, err := json.Marshal(detail)
		if err != nil {
			zap.L().Warn("failed to encode audit detail", zap.String("action", action), zap.Error(err))
		} else {
			entry.Detail = datatypes.JSON(payload)
		}
	}

	if err := database.Create(&entry).Error; err != nil {
		zap.L().Warn("failed to record audit entry", zap.String("action", action), zap.Error(err))
	}
}
