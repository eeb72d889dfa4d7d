package models

import "github.com/orbitpm/orbitpm/internal/apperrors"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// ParseTaskStatus validates a status value coming from request input. Any
// transition between valid statuses is allowed; the caller picks the target.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return TaskStatus(s), nil
	default:
		return "", apperrors.Validation("invalid task status")
	}
}

type Task struct {
	BaseModel

	Title       string `gorm:"not null"`
	Description string
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:TODO"`
	ProjectID   uint       `gorm:"not null;index"`
	TenantID    uint       `gorm:"not null;index"`
	AssignedTo  *uint      `gorm:"index"`
	CreatedBy   uint       `gorm:"not null"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *User   `gorm:"foreignKey:AssignedTo"`
}
