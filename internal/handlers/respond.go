package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/well-broomed/cleaning-api/internal/errors"
	"github.com/well-broomed/cleaning-api/internal/services"
)

// respondServiceError maps service-layer errors onto the wire. Uniqueness
// conflicts keep their per-field flags; unknown errors stay opaque 500s.
func respondServiceError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		apierrors.NotUnique(c, conflict.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidProperty),
		errors.Is(err, services.ErrInvalidGuest),
		errors.Is(err, services.ErrInvalidTask),
		errors.Is(err, services.ErrInvalidInvite),
		errors.Is(err, services.ErrInvalidAssistant),
		errors.Is(err, services.ErrInvalidReassignment),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidPropertyName),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyInvited),
		errors.Is(err, services.ErrAlreadyPartnered):
		apierrors.RespondWithError(c, http.StatusConflict,
			apierrors.NewAPIError(apierrors.ErrCodeConflict, err.Error()))
	default:
		apierrors.InternalError(c, "")
	}
}
