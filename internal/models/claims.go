package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionCardRead         = "card:read"
	PermissionCardWrite        = "card:write"
	PermissionTransactionRead  = "transaction:read"
	PermissionTransactionWrite = "transaction:write"
	PermissionRiskRead         = "risk:read"
	PermissionAdminWrite       = "admin:write"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionCardRead,
			PermissionCardWrite,
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionRiskRead,
			PermissionAdminWrite,
		}
	case "user":
		return []string{
			PermissionCardRead,
			PermissionCardWrite,
			PermissionTransactionRead,
			PermissionTransactionWrite,
		}
	default:
		return []string{}
	}
}
