package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/well-broomed/cleaning-api/internal/dto"
	apierrors "github.com/well-broomed/cleaning-api/internal/errors"
	"github.com/well-broomed/cleaning-api/internal/middleware"
	"github.com/well-broomed/cleaning-api/internal/services"
)

type CleanerHandler struct {
	cleanerService *services.CleanerService
}

func NewCleanerHandler(cleanerService *services.CleanerService) *CleanerHandler {
	return &CleanerHandler{
		cleanerService: cleanerService,
	}
}

// ListCleanerProfiles returns every cleaner the manager can assign: their
// partners plus themself.
func (h *CleanerHandler) ListCleanerProfiles(c *gin.Context) {
	profiles, err := h.cleanerService.ListCleanerProfiles(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleaners": dto.ToCleanerDTOs(profiles)})
}

// ListPartners returns the manager's partnered cleaners.
func (h *CleanerHandler) ListPartners(c *gin.Context) {
	partners, err := h.cleanerService.ListPartners(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"partners": dto.ToCleanerDTOs(partners)})
}

// GetPartner returns a single partnered cleaner's profile.
func (h *CleanerHandler) GetPartner(c *gin.Context) {
	cleanerID, ok := parseID(c, "cleanerId")
	if !ok {
		return
	}

	partner, err := h.cleanerService.GetPartner(middleware.GetUserID(c), cleanerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCleanerDTO(*partner))
}

// ChangeDefaultCleaner binds or clears a property's default cleaner.
func (h *CleanerHandler) ChangeDefaultCleaner(c *gin.Context) {
	propertyID, ok := parseID(c, "propertyId")
	if !ok {
		return
	}

	type ChangeCleanerRequest struct {
		CleanerID *uint64 `json:"cleaner_id"`
	}
	var req ChangeCleanerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	property, err := h.cleanerService.ChangeDefaultCleaner(middleware.GetUserID(c), propertyID, req.CleanerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property_id": property.ID,
		"cleaner_id":  property.CleanerID,
	})
}

// SetAvailability toggles a cleaner's opt-in for a property.
func (h *CleanerHandler) SetAvailability(c *gin.Context) {
	propertyID, ok := parseID(c, "propertyId")
	if !ok {
		return
	}

	type AvailabilityRequest struct {
		CleanerID uint64 `json:"cleaner_id" binding:"required"`
		Available *bool  `json:"available" binding:"required"`
	}
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	err := h.cleanerService.SetAvailability(
		middleware.GetUserID(c), middleware.GetUserRole(c),
		propertyID, req.CleanerID, *req.Available,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property_id": propertyID,
		"cleaner_id":  req.CleanerID,
		"available":   *req.Available,
	})
}
