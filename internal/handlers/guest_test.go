package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/services"
)

func TestGuestService_Create_NormalizesStayTimes(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")

	loc := time.FixedZone("UTC+2", 2*3600)
	guest, err := env.guestService.CreateGuest(manager.ID, property.ID, services.CreateGuestInput{
		GuestName: "Smith",
		Checkin:   time.Date(2026, 9, 1, 16, 0, 42, 123, loc),
		Checkout:  time.Date(2026, 9, 8, 13, 30, 59, 0, loc),
	})
	require.NoError(t, err)

	// Stay boundaries are stored as whole-minute UTC
	require.Equal(t, time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC), guest.Checkin)
	require.Equal(t, time.Date(2026, 9, 8, 11, 30, 0, 0, time.UTC), guest.Checkout)
}

func TestGuestService_Create_DuplicateNameSameProperty(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	createTestGuest(t, env.db, property, "Smith", nil)

	_, err := env.guestService.CreateGuest(manager.ID, property.ID, services.CreateGuestInput{
		GuestName: "Smith",
		Checkin:   time.Now(),
		Checkout:  time.Now().Add(24 * time.Hour),
	})

	var conflict *services.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.True(t, conflict.Fields["guest_name"])

	// The same name at a different property is fine
	other := createTestProperty(t, env.db, manager, "Hilltop Cabin")
	_, err = env.guestService.CreateGuest(manager.ID, other.ID, services.CreateGuestInput{
		GuestName: "Smith",
		Checkin:   time.Now(),
		Checkout:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
}

func TestGuestService_Create_NotifiesAssignedCleaner(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)
	createTestPartner(t, env.db, manager, assistant)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")

	_, err := env.guestService.CreateGuest(manager.ID, property.ID, services.CreateGuestInput{
		GuestName: "Smith",
		Checkin:   time.Now(),
		Checkout:  time.Now().Add(24 * time.Hour),
		CleanerID: &assistant.ID,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"assistant@example.com"}, env.notifier.assigned)
}

func TestGuestService_Create_SelfAssignSkipsNotification(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")

	_, err := env.guestService.CreateGuest(manager.ID, property.ID, services.CreateGuestInput{
		GuestName: "Smith",
		Checkin:   time.Now(),
		Checkout:  time.Now().Add(24 * time.Hour),
		CleanerID: &manager.ID,
	})
	require.NoError(t, err)
	require.Empty(t, env.notifier.assigned)
}

func TestGuestService_Reassignment_CleanerInitiatedPending(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	current := createTestUser(t, env.db, "current", models.RoleAssistant)
	next := createTestUser(t, env.db, "next", models.RoleAssistant)
	createTestPartner(t, env.db, manager, current)
	createTestPartner(t, env.db, manager, next)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &current.ID)

	updated, err := env.guestService.RequestReassignment(current.ID, guest.ID, next.ID)
	require.NoError(t, err)

	// Binding unchanged until the candidate responds
	require.Equal(t, models.AssignmentPending, updated.State())
	require.Equal(t, current.ID, *updated.CleanerID)
	require.Equal(t, next.ID, *updated.PendingCleanerID)
	require.Empty(t, env.notifier.assigned)
}

func TestGuestService_Reassignment_Accept(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	current := createTestUser(t, env.db, "current", models.RoleAssistant)
	next := createTestUser(t, env.db, "next", models.RoleAssistant)
	createTestPartner(t, env.db, manager, current)
	createTestPartner(t, env.db, manager, next)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &current.ID)

	_, err := env.guestService.RequestReassignment(current.ID, guest.ID, next.ID)
	require.NoError(t, err)

	updated, err := env.guestService.RespondReassignment(next.ID, guest.ID, true)
	require.NoError(t, err)

	require.Equal(t, models.AssignmentAssigned, updated.State())
	require.Equal(t, next.ID, *updated.CleanerID)
	require.Nil(t, updated.PendingCleanerID)

	// New cleaner hears about the assignment, previous one about the removal
	require.Equal(t, []string{"next@example.com"}, env.notifier.assigned)
	require.Equal(t, []string{"current@example.com"}, env.notifier.unassigned)
}

func TestGuestService_Reassignment_Reject(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	current := createTestUser(t, env.db, "current", models.RoleAssistant)
	next := createTestUser(t, env.db, "next", models.RoleAssistant)
	createTestPartner(t, env.db, manager, current)
	createTestPartner(t, env.db, manager, next)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &current.ID)

	_, err := env.guestService.RequestReassignment(current.ID, guest.ID, next.ID)
	require.NoError(t, err)

	updated, err := env.guestService.RespondReassignment(next.ID, guest.ID, false)
	require.NoError(t, err)

	// Rejection restores the original binding untouched
	require.Equal(t, models.AssignmentAssigned, updated.State())
	require.Equal(t, current.ID, *updated.CleanerID)
	require.Nil(t, updated.PendingCleanerID)
	require.Empty(t, env.notifier.assigned)
	require.Empty(t, env.notifier.unassigned)
}

func TestGuestService_Reassignment_ManagerProposesToo(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	current := createTestUser(t, env.db, "current", models.RoleAssistant)
	next := createTestUser(t, env.db, "next", models.RoleAssistant)
	createTestPartner(t, env.db, manager, current)
	createTestPartner(t, env.db, manager, next)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &current.ID)

	updated, err := env.guestService.RequestReassignment(manager.ID, guest.ID, next.ID)
	require.NoError(t, err)

	// A manager's request still goes through the accept/reject step
	require.Equal(t, models.AssignmentPending, updated.State())
	require.Equal(t, current.ID, *updated.CleanerID)
	require.Equal(t, next.ID, *updated.PendingCleanerID)
}

func TestGuestService_Update_ManagerOverridesDirectly(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	current := createTestUser(t, env.db, "current", models.RoleAssistant)
	next := createTestUser(t, env.db, "next", models.RoleAssistant)
	createTestPartner(t, env.db, manager, current)
	createTestPartner(t, env.db, manager, next)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &current.ID)

	// A pending proposal from the cleaner is in flight
	_, err := env.guestService.RequestReassignment(current.ID, guest.ID, next.ID)
	require.NoError(t, err)

	// The manager edits the guest's cleaner directly, bypassing accept/reject
	updated, err := env.guestService.UpdateGuest(manager.ID, guest.ID, services.GuestPatch{
		CleanerID: &next.ID,
	})
	require.NoError(t, err)

	require.Equal(t, models.AssignmentAssigned, updated.State())
	require.Equal(t, next.ID, *updated.CleanerID)
	require.Nil(t, updated.PendingCleanerID)
	require.Equal(t, []string{"next@example.com"}, env.notifier.assigned)
	require.Equal(t, []string{"current@example.com"}, env.notifier.unassigned)
}

func TestGuestService_Reassignment_OnlyPendingCleanerResponds(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	current := createTestUser(t, env.db, "current", models.RoleAssistant)
	next := createTestUser(t, env.db, "next", models.RoleAssistant)
	createTestPartner(t, env.db, manager, current)
	createTestPartner(t, env.db, manager, next)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &current.ID)

	_, err := env.guestService.RequestReassignment(current.ID, guest.ID, next.ID)
	require.NoError(t, err)

	_, err = env.guestService.RespondReassignment(current.ID, guest.ID, true)
	require.ErrorIs(t, err, services.ErrInvalidReassignment)
}

func TestGuestService_Reassignment_UnpartneredCandidate(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	current := createTestUser(t, env.db, "current", models.RoleAssistant)
	stranger := createTestUser(t, env.db, "stranger", models.RoleAssistant)
	createTestPartner(t, env.db, manager, current)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &current.ID)

	_, err := env.guestService.RequestReassignment(current.ID, guest.ID, stranger.ID)
	require.ErrorIs(t, err, services.ErrInvalidAssistant)
}

func TestGuestService_UpdateTask_CleanerOrManagerOnly(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)
	outsider := createTestUser(t, env.db, "outsider", models.RoleAssistant)
	createTestPartner(t, env.db, manager, assistant)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &assistant.ID)

	task, err := env.guestService.CreateTask(manager.ID, guest.ID, services.CreateTaskInput{Text: "Change sheets"})
	require.NoError(t, err)

	_, err = env.guestService.UpdateGuestTask(outsider.ID, guest.ID, task.ID, true)
	require.ErrorIs(t, err, services.ErrInvalidGuest)

	done, err := env.guestService.UpdateGuestTask(assistant.ID, guest.ID, task.ID, true)
	require.NoError(t, err)
	require.True(t, done.Completed)
}

func TestGuestHandler_Reassignment_UnpartneredCandidateIs404(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	current := createTestUser(t, env.db, "current", models.RoleAssistant)
	outsider := createTestUser(t, env.db, "outsider", models.RoleAssistant)
	createTestPartner(t, env.db, manager, current)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", &current.ID)

	body, err := json.Marshal(gin.H{"cleaner_id": outsider.ID})
	require.NoError(t, err)

	c, w := testContext(http.MethodPost, "/api/guests/1/reassignment", body, manager)
	c.Params = []gin.Param{{Key: "guestId", Value: strconv.FormatUint(guest.ID, 10)}}

	env.guestHandler.RequestReassignment(c)

	// Pointing at a cleaner outside the partnership reads as a missing
	// resource, not a malformed request
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "invalid assistant")
}

func TestGuestHandler_Get_RosterIncludesManager(t *testing.T) {
	env := setupTestEnv(t)

	manager := createTestUser(t, env.db, "manager", models.RoleManager)
	assistant := createTestUser(t, env.db, "assistant", models.RoleAssistant)
	createTestPartner(t, env.db, manager, assistant)
	property := createTestProperty(t, env.db, manager, "Seaside Cottage")
	guest := createTestGuest(t, env.db, property, "Smith", nil)

	require.NoError(t, env.cleanerService.SetAvailability(assistant.ID, models.RoleAssistant, property.ID, assistant.ID, true))

	c, w := testContext(http.MethodGet, "/api/guests/1", nil, manager)
	c.Params = []gin.Param{{Key: "guestId", Value: strconv.FormatUint(guest.ID, 10)}}

	env.guestHandler.GetGuest(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		AvailableCleaners []struct {
			CleanerName string `json:"cleaner_name"`
		} `json:"available_cleaners"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	names := make([]string, len(response.AvailableCleaners))
	for i, cl := range response.AvailableCleaners {
		names[i] = cl.CleanerName
	}
	require.ElementsMatch(t, []string{"assistant", "manager"}, names)
}
