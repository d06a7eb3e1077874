package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/well-broomed/cleaning-api/internal/dto"
	apierrors "github.com/well-broomed/cleaning-api/internal/errors"
	"github.com/well-broomed/cleaning-api/internal/middleware"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/services"
	"github.com/well-broomed/cleaning-api/internal/utils"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
	cleanerService  *services.CleanerService
	uploader        services.Uploader
}

func NewPropertyHandler(propertyService *services.PropertyService, cleanerService *services.CleanerService, uploader services.Uploader) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		cleanerService:  cleanerService,
		uploader:        uploader,
	}
}

// ListProperties returns a page of the actor's role-shaped portfolio with
// open task counts. Assistants also see who manages each property.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)
	params := utils.GetPaginationParams(c)

	properties, counts, total, err := h.propertyService.ListProperties(userID, role, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]dto.PropertyListItemDTO, len(properties))
	for i, property := range properties {
		items[i] = dto.ToPropertyListItemDTO(property, counts[property.ID], role == models.RoleAssistant)
	}

	c.JSON(http.StatusOK, dto.PropertyListResponse{
		Properties: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListDefaultProperties returns the compact listing used by default-cleaner
// dropdowns.
func (h *PropertyHandler) ListDefaultProperties(c *gin.Context) {
	properties, err := h.propertyService.ListDefaultProperties(middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type defaultItem struct {
		ID           uint64  `json:"property_id"`
		PropertyName string  `json:"property_name"`
		CleanerID    *uint64 `json:"cleaner_id"`
	}
	items := make([]defaultItem, len(properties))
	for i, property := range properties {
		items[i] = defaultItem{
			ID:           property.ID,
			PropertyName: property.PropertyName,
			CleanerID:    property.CleanerID,
		}
	}

	c.JSON(http.StatusOK, gin.H{"properties": items})
}

// GetProperty returns the detail view with guests and the availability roster.
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, ok := parseID(c, "propertyId")
	if !ok {
		return
	}

	property, err := h.propertyService.GetProperty(middleware.GetUserID(c), middleware.GetUserRole(c), propertyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyDetailDTO(*property))
}

// ListPropertyCleaners returns the cleaners available at a property, the
// manager included.
func (h *PropertyHandler) ListPropertyCleaners(c *gin.Context) {
	propertyID, ok := parseID(c, "propertyId")
	if !ok {
		return
	}

	roster, err := h.cleanerService.ListPropertyCleaners(middleware.GetUserID(c), middleware.GetUserRole(c), propertyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleaners": dto.ToCleanerDTOs(roster)})
}

// CreateProperty creates a property from a multipart form, uploading the
// optional image before the row is written.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	input := services.CreatePropertyInput{
		PropertyName:   c.PostForm("property_name"),
		Address:        c.PostForm("address"),
		GuestGuide:     c.PostForm("guest_guide"),
		AssistantGuide: c.PostForm("assistant_guide"),
	}

	if file, err := c.FormFile("file"); err == nil {
		if h.uploader == nil {
			apierrors.BadRequest(c, "image upload is not configured")
			return
		}
		url, err := h.uploader.Upload(file, "properties")
		if err != nil {
			apierrors.InternalError(c, "failed to upload image")
			return
		}
		input.ImgURL = url
	}

	property, err := h.propertyService.CreateProperty(middleware.GetUserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPropertyDetailDTO(*property))
}

// UpdateProperty applies a sparse update to an owned property.
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	propertyID, ok := parseID(c, "propertyId")
	if !ok {
		return
	}

	type UpdatePropertyRequest struct {
		PropertyName   *string `json:"property_name"`
		Address        *string `json:"address"`
		GuestGuide     *string `json:"guest_guide"`
		AssistantGuide *string `json:"assistant_guide"`
		ImgURL         *string `json:"img_url"`
		CleanerID      *uint64 `json:"cleaner_id"`
		ClearCleaner   bool    `json:"clear_cleaner"`
	}
	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "invalid request body")
		return
	}

	property, err := h.propertyService.UpdateProperty(middleware.GetUserID(c), propertyID, services.PropertyPatch{
		PropertyName:   req.PropertyName,
		Address:        req.Address,
		GuestGuide:     req.GuestGuide,
		AssistantGuide: req.AssistantGuide,
		ImgURL:         req.ImgURL,
		CleanerID:      req.CleanerID,
		ClearCleaner:   req.ClearCleaner,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyDetailDTO(*property))
}

// DeleteProperty removes an owned property and everything nested under it.
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	propertyID, ok := parseID(c, "propertyId")
	if !ok {
		return
	}

	if err := h.propertyService.DeleteProperty(middleware.GetUserID(c), propertyID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": propertyID})
}

// parseID parses a numeric path parameter, answering 400 on junk.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
