package entity

import "github.com/golang-jwt/jwt/v5"

// Claims carries the verified identity of the current viewer.
type Claims struct {
	UserID string
	Role   AuthorRole
	jwt.RegisteredClaims
}
