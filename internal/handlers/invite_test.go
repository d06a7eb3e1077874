package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/well-broomed/cleaning-api/internal/constants"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/services"
)

func TestInviteService_Send(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)

	invite, err := env.inviteService.SendInvite(manager.ID, "New.Cleaner@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, invite.Code)
	require.Equal(t, models.InviteStatusPending, invite.Status)

	// Email is stored lowercased and the mail went out
	require.Equal(t, "new.cleaner@example.com", invite.Email)
	require.Equal(t, []string{"new.cleaner@example.com"}, env.notifier.invited)
}

func TestInviteService_Send_PendingDuplicate(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)

	_, err := env.inviteService.SendInvite(manager.ID, "cleaner@example.com")
	require.NoError(t, err)

	_, err = env.inviteService.SendInvite(manager.ID, "cleaner@example.com")
	require.ErrorIs(t, err, services.ErrAlreadyInvited)
}

func TestInviteService_Send_AlreadyPartnered(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)
	createTestPartner(t, env.db, manager, assistant)

	_, err := env.inviteService.SendInvite(manager.ID, assistant.Email)
	require.ErrorIs(t, err, services.ErrAlreadyPartnered)
}

func TestInviteService_Accept(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)

	invite, err := env.inviteService.SendInvite(manager.ID, assistant.Email)
	require.NoError(t, err)

	outcome, err := env.inviteService.AcceptInvite(assistant.ID, assistant.Role, assistant.Email, invite.Code)
	require.NoError(t, err)
	require.Equal(t, services.InviteOutcomeAccepted, outcome)

	// The partnership row exists and the invite is spent
	var partners int64
	env.db.Model(&models.Partner{}).
		Where("manager_id = ? AND cleaner_id = ?", manager.ID, assistant.ID).
		Count(&partners)
	require.EqualValues(t, 1, partners)

	var stored models.Invite
	require.NoError(t, env.db.First(&stored, invite.ID).Error)
	require.Equal(t, models.InviteStatusAccepted, stored.Status)
}

func TestInviteService_Accept_Idempotent(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)

	invite, err := env.inviteService.SendInvite(manager.ID, assistant.Email)
	require.NoError(t, err)

	// A retried login replays the accept; no duplicate partnership appears
	for i := 0; i < 2; i++ {
		outcome, err := env.inviteService.AcceptInvite(assistant.ID, assistant.Role, assistant.Email, invite.Code)
		require.NoError(t, err)
		require.Equal(t, services.InviteOutcomeAccepted, outcome)
	}

	var partners int64
	env.db.Model(&models.Partner{}).Count(&partners)
	require.EqualValues(t, 1, partners)
}

func TestInviteService_Accept_WrongEmail(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)

	invite, err := env.inviteService.SendInvite(manager.ID, "someone.else@example.com")
	require.NoError(t, err)

	outcome, err := env.inviteService.AcceptInvite(assistant.ID, assistant.Role, assistant.Email, invite.Code)
	require.NoError(t, err)
	require.Equal(t, services.InviteOutcomeInvalid, outcome)
}

func TestInviteService_Accept_NotAssistant(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	otherManager := createTestUser(t, env.db, "othermanager", models.RoleManager)

	invite, err := env.inviteService.SendInvite(manager.ID, otherManager.Email)
	require.NoError(t, err)

	outcome, err := env.inviteService.AcceptInvite(otherManager.ID, otherManager.Role, otherManager.Email, invite.Code)
	require.NoError(t, err)
	require.Equal(t, services.InviteOutcomeNotAssistant, outcome)
}

func TestInviteService_Accept_UnknownCode(t *testing.T) {
	env := setupTestEnv(t)

	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)

	outcome, err := env.inviteService.AcceptInvite(assistant.ID, assistant.Role, assistant.Email, "0000-0000-0000")
	require.NoError(t, err)
	require.Equal(t, services.InviteOutcomeInvalid, outcome)
}

func acceptInviteContext(code string, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := testContext(http.MethodPost, "/api/invites/"+code+"/accept", nil, user)
	c.Params = []gin.Param{{Key: "inviteCode", Value: code}}
	c.Set(constants.ContextKeyClaims, &services.TokenInfo{Email: user.Email})
	return c, w
}

func TestInviteHandler_Accept_Redeems(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)

	invite, err := env.inviteService.SendInvite(manager.ID, assistant.Email)
	require.NoError(t, err)

	c, w := acceptInviteContext(invite.Code, assistant)
	env.inviteHandler.AcceptInvite(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), services.InviteOutcomeAccepted)
}

func TestInviteHandler_Accept_RefusesNonAssistant(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	otherManager := createTestUser(t, env.db, "othermanager", models.RoleManager)

	invite, err := env.inviteService.SendInvite(manager.ID, otherManager.Email)
	require.NoError(t, err)

	c, w := acceptInviteContext(invite.Code, otherManager)
	env.inviteHandler.AcceptInvite(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), services.InviteOutcomeNotAssistant)
}

func TestInviteHandler_Accept_RefusesUnknownCode(t *testing.T) {
	env := setupTestEnv(t)

	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)

	c, w := acceptInviteContext("0000-0000-0000", assistant)
	env.inviteHandler.AcceptInvite(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), services.InviteOutcomeInvalid)
}

func TestInviteService_Delete_OwnerOnly(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	other := createTestUser(t, env.db, "other", models.RoleManager)

	invite, err := env.inviteService.SendInvite(manager.ID, "cleaner@example.com")
	require.NoError(t, err)

	err = env.inviteService.DeleteInvite(other.ID, invite.Code)
	require.ErrorIs(t, err, services.ErrInvalidInvite)

	require.NoError(t, env.inviteService.DeleteInvite(manager.ID, invite.Code))

	var count int64
	env.db.Model(&models.Invite{}).Count(&count)
	require.Zero(t, count)
}

func TestAuthService_Login_ProvisionsOnFirstSight(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.authService.Login(services.LoginInput{
		Subject: "auth0|abc123",
		Email:   "fresh@example.com",
		Name:    "fresh",
		Role:    models.RoleManager,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, models.RoleManager, user.Role)

	// Second login resolves to the same row
	again, err := env.authService.Login(services.LoginInput{
		Subject: "auth0|abc123",
		Email:   "fresh@example.com",
		Name:    "fresh",
		Role:    models.RoleManager,
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}

func TestAuthService_Login_InviteForcesAssistant(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.authService.Login(services.LoginInput{
		Subject:    "auth0|def456",
		Email:      "invited@example.com",
		Name:       "invited",
		Role:       models.RoleManager,
		InviteCode: "abcd-ef01-2345",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAssistant, user.Role)
}
