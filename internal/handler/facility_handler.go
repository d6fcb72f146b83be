package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawsitivelybooked/server/internal/application"
	"github.com/pawsitivelybooked/server/internal/auth"
	userDomain "github.com/pawsitivelybooked/server/internal/domain/user"
	"github.com/pawsitivelybooked/server/internal/middleware"
	"github.com/pawsitivelybooked/server/internal/response"
)

// FacilityHandler handles HTTP requests for facility listings.
type FacilityHandler struct {
	service *application.FacilityService
}

// NewFacilityHandler creates a new FacilityHandler.
func NewFacilityHandler(service *application.FacilityService) *FacilityHandler {
	return &FacilityHandler{service: service}
}

// RegisterRoutes registers all facility routes on the given router group.
func (h *FacilityHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	ownerMW := middleware.RequireRole(userDomain.RoleFacilityOwner)

	facilities := r.Group("/api/v1/facilities")
	{
		facilities.GET("", h.ListFacilities)
		facilities.GET("/search", h.SearchFacilities)
		facilities.GET("/:id", h.GetFacility)
		facilities.GET("/:id/photos", h.GetPhotos)

		facilities.POST("", authMW, ownerMW, h.RegisterFacility)
		facilities.GET("/mine", authMW, ownerMW, h.MyFacilities)
		facilities.PATCH("/:id", authMW, ownerMW, h.UpdateFacility)
		facilities.POST("/:id/photos", authMW, ownerMW, h.UploadPhoto)
	}
}

// ListFacilities handles GET /api/v1/facilities.
func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListFacilities(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// SearchFacilities handles GET /api/v1/facilities/search.
func (h *FacilityHandler) SearchFacilities(c *gin.Context) {
	var req application.FacilitySearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchFacilities(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetFacility handles GET /api/v1/facilities/:id.
func (h *FacilityHandler) GetFacility(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid facility ID")
		return
	}

	result, err := h.service.GetFacility(c.Request.Context(), facilityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RegisterFacility handles POST /api/v1/facilities.
func (h *FacilityHandler) RegisterFacility(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.RegisterFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterFacility(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// MyFacilities handles GET /api/v1/facilities/mine.
func (h *FacilityHandler) MyFacilities(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetOwnerFacilities(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateFacility handles PATCH /api/v1/facilities/:id.
func (h *FacilityHandler) UpdateFacility(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid facility ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateFacility(c.Request.Context(), userID, facilityID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UploadPhoto handles POST /api/v1/facilities/:id/photos (multipart form,
// field "photo").
func (h *FacilityHandler) UploadPhoto(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid facility ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "photo file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "photo file could not be read")
		return
	}
	defer src.Close()

	photo, err := h.service.AddPhoto(c.Request.Context(), userID, facilityID, file.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, photo)
}

// GetPhotos handles GET /api/v1/facilities/:id/photos.
func (h *FacilityHandler) GetPhotos(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid facility ID")
		return
	}

	result, err := h.service.GetPhotos(c.Request.Context(), facilityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
