package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/well-broomed/cleaning-api/internal/dto"
	apierrors "github.com/well-broomed/cleaning-api/internal/errors"
	"github.com/well-broomed/cleaning-api/internal/middleware"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/services"
)

type AuthHandler struct {
	authService   *services.AuthService
	inviteService *services.InviteService
}

func NewAuthHandler(authService *services.AuthService, inviteService *services.InviteService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		inviteService: inviteService,
	}
}

// Login resolves the verified token to a local user, provisioning one on
// first login. When the URL carries an invite code the user arrives as an
// assistant and the code is redeemed in the same request.
func (h *AuthHandler) Login(c *gin.Context) {
	info := middleware.GetTokenInfo(c)
	if info == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	type LoginRequest struct {
		Role models.Role `json:"role"`
	}
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	inviteCode := c.Param("inviteCode")

	user, err := h.authService.Login(services.LoginInput{
		Subject:    info.Subject,
		Email:      info.Email,
		Name:       info.Name,
		Picture:    info.Picture,
		Role:       req.Role,
		InviteCode: inviteCode,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := dto.LoginResponse{User: dto.ToUserDTO(*user)}

	if inviteCode != "" {
		outcome, err := h.inviteService.AcceptInvite(user.ID, user.Role, user.Email, inviteCode)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.InviteStatus = outcome
	}

	c.JSON(http.StatusOK, response)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUser(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies a sparse profile update.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		UserName *string `json:"user_name"`
		Email    *string `json:"email"`
		ImgURL   *string `json:"img_url"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.authService.UpdateUser(middleware.GetUserID(c), services.UserPatch{
		UserName: req.UserName,
		Email:    req.Email,
		ImgURL:   req.ImgURL,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
