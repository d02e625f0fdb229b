package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the custom claim set carried by access tokens issued by the
// surrounding platform. This service only validates them.
type JWTClaims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
