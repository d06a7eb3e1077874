package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/well-broomed/cleaning-api/internal/dto"
	apierrors "github.com/well-broomed/cleaning-api/internal/errors"
	"github.com/well-broomed/cleaning-api/internal/middleware"
	"github.com/well-broomed/cleaning-api/internal/services"
	"github.com/well-broomed/cleaning-api/internal/utils"
)

type GuestHandler struct {
	guestService *services.GuestService
}

func NewGuestHandler(guestService *services.GuestService) *GuestHandler {
	return &GuestHandler{
		guestService: guestService,
	}
}

// ListGuests returns a page of the stays visible to the actor.
func (h *GuestHandler) ListGuests(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	guests, total, err := h.guestService.ListGuests(middleware.GetUserID(c), middleware.GetUserRole(c), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"guests": dto.ToGuestListItemDTOs(guests),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetGuest returns a single stay with tasks and the availability roster.
func (h *GuestHandler) GetGuest(c *gin.Context) {
	guestID, ok := parseID(c, "guestId")
	if !ok {
		return
	}

	guest, roster, err := h.guestService.GetGuest(middleware.GetUserID(c), middleware.GetUserRole(c), guestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGuestDetailDTO(*guest, dto.ToCleanerDTOs(roster)))
}

// CreateGuest creates a stay at an owned property.
func (h *GuestHandler) CreateGuest(c *gin.Context) {
	type CreateGuestRequest struct {
		PropertyID uint64    `json:"property_id" binding:"required"`
		GuestName  string    `json:"guest_name" binding:"required"`
		Checkin    time.Time `json:"checkin" binding:"required"`
		Checkout   time.Time `json:"checkout" binding:"required"`
		Email      string    `json:"email"`
		CleanerID  *uint64   `json:"cleaner_id"`
	}
	var req CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	guest, err := h.guestService.CreateGuest(middleware.GetUserID(c), req.PropertyID, services.CreateGuestInput{
		GuestName: req.GuestName,
		Checkin:   req.Checkin,
		Checkout:  req.Checkout,
		Email:     req.Email,
		CleanerID: req.CleanerID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGuestListItemDTO(*guest))
}

// UpdateGuest applies a sparse update to a managed stay.
func (h *GuestHandler) UpdateGuest(c *gin.Context) {
	guestID, ok := parseID(c, "guestId")
	if !ok {
		return
	}

	type UpdateGuestRequest struct {
		GuestName    *string    `json:"guest_name"`
		PropertyID   *uint64    `json:"property_id"`
		Checkin      *time.Time `json:"checkin"`
		Checkout     *time.Time `json:"checkout"`
		Email        *string    `json:"email"`
		CleanerID    *uint64    `json:"cleaner_id"`
		ClearCleaner bool       `json:"clear_cleaner"`
	}
	var req UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	guest, err := h.guestService.UpdateGuest(middleware.GetUserID(c), guestID, services.GuestPatch{
		GuestName:    req.GuestName,
		PropertyID:   req.PropertyID,
		Checkin:      req.Checkin,
		Checkout:     req.Checkout,
		Email:        req.Email,
		CleanerID:    req.CleanerID,
		ClearCleaner: req.ClearCleaner,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGuestListItemDTO(*guest))
}

// DeleteGuest removes a managed stay and its tasks.
func (h *GuestHandler) DeleteGuest(c *gin.Context) {
	guestID, ok := parseID(c, "guestId")
	if !ok {
		return
	}

	if err := h.guestService.DeleteGuest(middleware.GetUserID(c), guestID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": guestID})
}

// CreateTask adds a cleaning task to a managed stay.
func (h *GuestHandler) CreateTask(c *gin.Context) {
	guestID, ok := parseID(c, "guestId")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Text     string    `json:"text" binding:"required"`
		Deadline time.Time `json:"deadline"`
	}
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.guestService.CreateTask(middleware.GetUserID(c), guestID, services.CreateTaskInput{
		Text:     req.Text,
		Deadline: req.Deadline,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask toggles a task's completed flag.
func (h *GuestHandler) UpdateTask(c *gin.Context) {
	guestID, ok := parseID(c, "guestId")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Completed *bool `json:"completed" binding:"required"`
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.guestService.UpdateGuestTask(middleware.GetUserID(c), guestID, taskID, *req.Completed)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// RequestReassignment proposes a new cleaner for a stay.
func (h *GuestHandler) RequestReassignment(c *gin.Context) {
	guestID, ok := parseID(c, "guestId")
	if !ok {
		return
	}

	type ReassignmentRequest struct {
		CleanerID uint64 `json:"cleaner_id" binding:"required"`
	}
	var req ReassignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	guest, err := h.guestService.RequestReassignment(middleware.GetUserID(c), guestID, req.CleanerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGuestListItemDTO(*guest))
}

// RespondReassignment accepts or rejects a pending reassignment.
func (h *GuestHandler) RespondReassignment(c *gin.Context) {
	guestID, ok := parseID(c, "guestId")
	if !ok {
		return
	}

	type ReassignmentResponse struct {
		Accepted *bool `json:"accepted" binding:"required"`
	}
	var req ReassignmentResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	guest, err := h.guestService.RespondReassignment(middleware.GetUserID(c), guestID, *req.Accepted)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGuestListItemDTO(*guest))
}
