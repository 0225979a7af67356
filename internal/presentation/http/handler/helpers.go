package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/middleware"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
	"github.com/sangkips/gst-invoice-api/pkg/validator"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetClaims returns the access token claims stored by AuthMiddleware
func GetClaims(c *gin.Context) *utils.JWTClaims {
	v, exists := c.Get(middleware.ClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*utils.JWTClaims)
	return claims
}

// requireUser writes 401 and returns false when the request is anonymous.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// bindJSON binds the body into req. Validation failures become 422 with
// per-field messages; anything else is a 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			response.ValidationError(c, fields)
			return false
		}
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func paginationParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}
