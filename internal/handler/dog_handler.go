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

// DogHandler handles HTTP requests for dog profiles.
type DogHandler struct {
	service *application.DogService
}

// NewDogHandler creates a new DogHandler.
func NewDogHandler(service *application.DogService) *DogHandler {
	return &DogHandler{service: service}
}

// RegisterRoutes registers all dog profile routes on the given router group.
func (h *DogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	dogs := r.Group("/api/v1/dogs")
	dogs.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(userDomain.RoleDogOwner))
	{
		dogs.POST("", h.AddDog)
		dogs.GET("", h.MyDogs)
		dogs.GET("/:id", h.GetDog)
		dogs.PATCH("/:id", h.UpdateDog)
		dogs.DELETE("/:id", h.RemoveDog)
	}
}

// AddDog handles POST /api/v1/dogs.
func (h *DogHandler) AddDog(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.DogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddDog(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// MyDogs handles GET /api/v1/dogs.
func (h *DogHandler) MyDogs(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetOwnerDogs(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetDog handles GET /api/v1/dogs/:id.
func (h *DogHandler) GetDog(c *gin.Context) {
	dogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid dog ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetDog(c.Request.Context(), userID, dogID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateDog handles PATCH /api/v1/dogs/:id.
func (h *DogHandler) UpdateDog(c *gin.Context) {
	dogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid dog ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.DogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateDog(c.Request.Context(), userID, dogID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveDog handles DELETE /api/v1/dogs/:id.
func (h *DogHandler) RemoveDog(c *gin.Context) {
	dogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid dog ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.RemoveDog(c.Request.Context(), userID, dogID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
