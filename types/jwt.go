package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims of an admin console session
type Claims struct {
	UserID  uint `json:"user_id"`
	AdminID uint `json:"admin_id"`
	jwt.RegisteredClaims
}
