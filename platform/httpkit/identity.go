package httpkit

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the operator behind a request that passed AuthRequired.
type Identity struct {
	UserID uuid.UUID
	Roles  []string
}

// HasRole reports whether the operator holds role.
func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// GetIdentity returns the identity stored by AuthRequired. ok is false on
// routes that are not authenticated.
func GetIdentity(c *gin.Context) (Identity, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return Identity{}, false
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		return Identity{}, false
	}
	roles, _ := c.Get(ContextRolesKey)
	roleList, _ := roles.([]string)
	return Identity{UserID: userID, Roles: roleList}, true
}
