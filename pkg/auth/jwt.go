package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mediconnect/ehr-api/internal/model"
	apperrors "github.com/mediconnect/ehr-api/pkg/errors"
)

type JWTService interface {
	GenerateToken(actor *model.Actor) (string, error)
	ValidateToken(token string) (*model.Actor, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiryHours int) JWTService {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &jwtService{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

type sessionClaims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	UID      string `json:"uid,omitempty"`
	ActorID  int64  `json:"actor_id,omitempty"`
	jwt.RegisteredClaims
}

func (s *jwtService) GenerateToken(actor *model.Actor) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role:     string(actor.Role),
		Username: actor.Username,
		FullName: actor.FullName,
		UID:      actor.UID,
		ActorID:  actor.ActorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*model.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return nil, apperrors.Unauthorized("invalid token claims", nil)
	}

	return &model.Actor{
		Role:     model.Role(claims.Role),
		Username: claims.Username,
		FullName: claims.FullName,
		UID:      claims.UID,
		ActorID:  claims.ActorID,
	}, nil
}
