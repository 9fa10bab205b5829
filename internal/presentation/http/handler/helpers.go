package handler

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/enum"
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

// GetBusinessID extracts the business ID from the Gin context
func GetBusinessID(c *gin.Context) uuid.UUID {
	businessIDVal, exists := c.Get("business_id")
	if !exists {
		return uuid.Nil
	}
	businessID, ok := businessIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return businessID
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) enum.Role {
	roleVal, exists := c.Get("user_role")
	if !exists {
		return enum.RoleCashier
	}
	role, ok := roleVal.(string)
	if !ok {
		return enum.RoleCashier
	}
	return enum.Role(role)
}

// IsAdmin checks if the authenticated user has the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c).IsAdmin()
}

// ToCents converts a decimal currency amount from a request into cents
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
