package types

import "github.com/orbitpm/orbitpm/internal/models"

type UserResponse struct {
	ID       uint        `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	TenantID *uint       `json:"tenant_id,omitempty"`
}

type AuthResponse struct {
	Token      string      `json:"token"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	TenantName string      `json:"tenant_name,omitempty"`
}

type TenantResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ProjectResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   uint   `json:"created_by"`
}

type MembershipResponse struct {
	ID        uint               `json:"id"`
	ProjectID uint               `json:"project_id"`
	UserID    uint               `json:"user_id"`
	Role      models.ProjectRole `json:"role"`
}

type ProjectMemberResponse struct {
	User UserResponse       `json:"user"`
	Role models.ProjectRole `json:"role"`
}

type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	ProjectID   uint              `json:"project_id"`
	AssignedTo  *uint             `json:"assigned_to,omitempty"`
	CreatedBy   uint              `json:"created_by"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
	}
}

func NewProjectResponse(project *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedBy:   project.CreatedBy,
	}
}

func NewMembershipResponse(m *models.ProjectMembership) MembershipResponse {
	return MembershipResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
	}
}

func NewTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		ProjectID:   task.ProjectID,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
	}
}
