package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
const userIDKey = contextKey("userID")

// familyIDKey is the key used to store the token's family scope in the Gin context.
const familyIDKey = contextKey("familyID")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetFamilyIDFromContext retrieves the family scope set by the auth middleware.
// Every data-touching handler uses this for tenant isolation.
func GetFamilyIDFromContext(c *gin.Context) (string, bool) {
	familyIDVal, exists := c.Get(string(familyIDKey))
	if !exists {
		return "", false
	}
	familyID, ok := familyIDVal.(string)
	if !ok {
		return "", false
	}
	return familyID, true
}
