package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/well-broomed/cleaning-api/internal/errors"
	"github.com/well-broomed/cleaning-api/internal/middleware"
	"github.com/well-broomed/cleaning-api/internal/services"
)

type InviteHandler struct {
	inviteService *services.InviteService
}

func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
	}
}

// SendInvite mails an invite code to a prospective cleaner.
func (h *InviteHandler) SendInvite(c *gin.Context) {
	type SendInviteRequest struct {
		Email string `json:"email" binding:"required,email"`
	}
	var req SendInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "a valid email is required")
		return
	}

	invite, err := h.inviteService.SendInvite(middleware.GetUserID(c), req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":   invite.Code,
		"email":  invite.Email,
		"status": invite.Status,
	})
}

// AcceptInvite redeems an invite code for the authenticated user outside the
// login flow.
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	code := c.Param("inviteCode")
	if code == "" {
		apierrors.BadRequest(c, "invite code is required")
		return
	}

	info := middleware.GetTokenInfo(c)
	if info == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	outcome, err := h.inviteService.AcceptInvite(
		middleware.GetUserID(c), middleware.GetUserRole(c), info.Email, code,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Only a successful (or replayed) redemption is a 200; a stale code or a
	// manager redeeming is refused outright.
	if outcome != services.InviteOutcomeAccepted {
		c.JSON(http.StatusForbidden, gin.H{"status": outcome})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": outcome})
}

// DeleteInvite revokes an invite the manager issued.
func (h *InviteHandler) DeleteInvite(c *gin.Context) {
	code := c.Param("inviteCode")
	if code == "" {
		apierrors.BadRequest(c, "invite code is required")
		return
	}

	if err := h.inviteService.DeleteInvite(middleware.GetUserID(c), code); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": code})
}
