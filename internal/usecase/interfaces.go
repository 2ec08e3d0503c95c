package usecase

import (
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// JWTService defines the interface for JWT operations.
type JWTService interface {
	GenerateAccessToken(userID string, role entity.AuthorRole) (string, error)
	ParseAccessToken(token string) (*entity.Claims, error)
}
