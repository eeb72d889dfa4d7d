package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/db"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/models"
	"github.com/orbitpm/orbitpm/internal/router"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "password123"

// setupServer wires the real router against a fresh in-memory database.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	require.NoError(t, auth.Init("handlers-test-secret"))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Project{},
		&models.ProjectMembership{},
		&models.Task{},
		&models.AuditLog{},
	))

	db.DB = database

	return router.NewRouter()
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)

	return body.Error
}

// register creates a tenant admin via the public register endpoint and
// returns their token.
func register(t *testing.T, r *gin.Engine, tenantName, name, email string) string {
	t.Helper()

	w := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"tenant_name": tenantName,
		"name":        name,
		"email":       email,
		"password":    testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.AuthResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

// createTenantUser creates a user inside the caller's tenant and returns the
// new user's id together with a login token for them.
func createTenantUser(t *testing.T, r *gin.Engine, adminToken, tenantName, name, email, role string) (uint, string) {
	t.Helper()

	w := do(t, r, http.MethodPost, "/api/tenant/users", adminToken, gin.H{
		"name":     name,
		"email":    email,
		"password": testPassword,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user types.UserResponse
	decode(t, w, &user)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":       email,
		"password":    testPassword,
		"tenant_name": tenantName,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.AuthResponse
	decode(t, w, &resp)

	return user.ID, resp.Token
}

func createProject(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()

	w := do(t, r, http.MethodPost, "/api/projects", token, gin.H{
		"name":        name,
		"description": name + " description",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project types.ProjectResponse
	decode(t, w, &project)

	return project.ID
}

func userByEmail(t *testing.T, email string) models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.DB.Where("email = ?", email).First(&user).Error)

	return user
}

func addMember(t *testing.T, r *gin.Engine, token string, projectID, userID uint, role string) *httptest.ResponseRecorder {
	t.Helper()

	return do(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), token, gin.H{
		"user_id": userID,
		"role":    role,
	})
}

func createTask(t *testing.T, r *gin.Engine, token string, projectID uint, title string, assignedTo *uint) types.TaskResponse {
	t.Helper()

	body := gin.H{"title": title}
	if assignedTo != nil {
		body["assigned_to"] = *assignedTo
	}

	w := do(t, r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", projectID), token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task types.TaskResponse
	decode(t, w, &task)

	return task
}
