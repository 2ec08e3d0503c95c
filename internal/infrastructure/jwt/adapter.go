package jwt

import (
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	"github.com/mikiasgoitom/Pawgram/internal/usecase"
)

// JWTServiceAdapter adapts JWTManager to the usecase.JWTService interface.
// It wraps JWTManager methods into the usecase-friendly interface.
type JWTServiceAdapter struct {
	mgr *JWTManager
}

// NewJWTService creates a new usecase.JWTService from JWTManager
func NewJWTService(mgr *JWTManager) usecase.JWTService {
	return &JWTServiceAdapter{mgr: mgr}
}

// GenerateAccessToken issues an access token for a user.
func (a *JWTServiceAdapter) GenerateAccessToken(userID string, role entity.AuthorRole) (string, error) {
	return a.mgr.GenerateAccessToken(userID, string(role))
}

// ParseAccessToken validates an access token and returns Claims.
func (a *JWTServiceAdapter) ParseAccessToken(tokenStr string) (*entity.Claims, error) {
	customClaims, err := a.mgr.VerifyToken(tokenStr)
	if err != nil {
		return nil, err
	}
	return &entity.Claims{
		UserID:           customClaims.Subject,
		Role:             entity.AuthorRole(customClaims.Role),
		RegisteredClaims: customClaims.RegisteredClaims,
	}, nil
}
