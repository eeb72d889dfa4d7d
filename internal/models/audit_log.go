package models

import (
	"gorm.io/datatypes"
)

// AuditLog is an append-only record of security-relevant operations: admin
// account creation, membership changes, project deletion and denied logins.
type AuditLog struct {
	BaseModel

	ActorID  *uint  `gorm:"index"`
	TenantID *uint  `gorm:"index"`
	Action   string `gorm:"not null;index"`
	Decision string `gorm:"not null"`
	Detail   datatypes.JSON
}
