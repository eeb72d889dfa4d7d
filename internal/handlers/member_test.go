package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/internal/models"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberPath(projectID uint) string {
	return fmt.Sprintf("/api/projects/%d/members", projectID)
}

func TestTenantAdminManagesMembersWithoutMembership(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Acme", "Alice", "alice@acme.com")
	projectID := createProject(t, r, aliceToken, "Apollo")

	// Dave is a tenant admin but holds no membership in Apollo.
	_, daveToken := createTenantUser(t, r, aliceToken, "Acme", "Dave", "dave@acme.com", "TENANT_ADMIN")
	carolID, _ := createTenantUser(t, r, aliceToken, "Acme", "Carol", "carol@acme.com", "MEMBER")

	w := addMember(t, r, daveToken, projectID, carolID, "PROJECT_MEMBER")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var membership types.MembershipResponse
	decode(t, w, &membership)
	assert.Equal(t, models.ProjectRoleMember, membership.Role)

	w = do(t, r, http.MethodPatch, fmt.Sprintf("%s/%d", memberPath(projectID), carolID), daveToken, gin.H{
		"role": "PROJECT_ADMIN",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	decode(t, w, &membership)
	assert.Equal(t, models.ProjectRoleAdmin, membership.Role)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", memberPath(projectID), carolID), daveToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// Removing an absent membership reads as missing.
	w = do(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", memberPath(projectID), carolID), daveToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestTenantAdminOverrideStopsAtTenantBoundary(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Acme", "Alice", "alice@acme.com")
	projectID := createProject(t, r, aliceToken, "Apollo")

	// A tenant admin of another tenant sees nothing, not a denial.
	evilToken := register(t, r, "Globex", "Eve", "eve@globex.com")

	w := addMember(t, r, evilToken, projectID, 1, "PROJECT_MEMBER")
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestProjectAdminManagesMembers(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Acme", "Alice", "alice@acme.com")
	projectID := createProject(t, r, aliceToken, "Apollo")

	bobID, bobToken := createTenantUser(t, r, aliceToken, "Acme", "Bob", "bob@acme.com", "MEMBER")
	carolID, _ := createTenantUser(t, r, aliceToken, "Acme", "Carol", "carol@acme.com", "MEMBER")

	// Alice is PROJECT_ADMIN via creation; she can add members.
	w := addMember(t, r, aliceToken, projectID, bobID, "PROJECT_MEMBER")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Adding the same user twice is a conflict.
	w = addMember(t, r, aliceToken, projectID, bobID, "PROJECT_MEMBER")
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// A plain project member has no say in membership.
	w = addMember(t, r, bobToken, projectID, carolID, "PROJECT_MEMBER")
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// Unknown project roles are rejected.
	w = addMember(t, r, aliceToken, projectID, carolID, "OVERLORD")
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// The target must exist in the tenant.
	w = addMember(t, r, aliceToken, projectID, 99999, "PROJECT_MEMBER")
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestAddMemberRejectsCrossTenantUser(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Acme", "Alice", "alice@acme.com")
	projectID := createProject(t, r, aliceToken, "Apollo")

	// Eve exists, but in another tenant; she reads as missing here.
	register(t, r, "Globex", "Eve", "eve@globex.com")

	eve := userByEmail(t, "eve@globex.com")

	w := addMember(t, r, aliceToken, projectID, eve.ID, "PROJECT_MEMBER")
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestListMembers(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Acme", "Alice", "alice@acme.com")
	projectID := createProject(t, r, aliceToken, "Apollo")

	bobID, bobToken := createTenantUser(t, r, aliceToken, "Acme", "Bob", "bob@acme.com", "MEMBER")
	_, carolToken := createTenantUser(t, r, aliceToken, "Acme", "Carol", "carol@acme.com", "MEMBER")

	w := addMember(t, r, aliceToken, projectID, bobID, "PROJECT_MEMBER")
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, memberPath(projectID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var members []types.ProjectMemberResponse
	decode(t, w, &members)
	require.Len(t, members, 2)

	roles := map[string]models.ProjectRole{}
	for _, m := range members {
		roles[m.User.Email] = m.Role
	}
	assert.Equal(t, models.ProjectRoleAdmin, roles["alice@acme.com"])
	assert.Equal(t, models.ProjectRoleMember, roles["bob@acme.com"])

	// Non-members cannot enumerate a project's members.
	w = do(t, r, http.MethodGet, memberPath(projectID), carolToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}
