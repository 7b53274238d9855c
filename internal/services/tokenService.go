package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

// Claims are carried by both token kinds. Role is only set on access tokens.
type Claims struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role,omitempty"`
	Type   string      `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService issues and validates HS256 access and refresh tokens, each
// signed with its own secret.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *TokenService) IssuePair(user *models.User) (TokenPair, error) {
	id := user.ID.Hex()
	access, err := s.GenerateAccessToken(id, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.GenerateRefreshToken(id)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) GenerateAccessToken(userID string, role models.Role) (string, error) {
	return s.sign(Claims{UserID: userID, Role: role, Type: accessTokenType}, s.accessSecret, s.accessTTL)
}

func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	return s.sign(Claims{UserID: userID, Type: refreshTokenType}, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString, s.accessSecret, accessTokenType)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleUser && claims.Role != models.RoleAdmin {
		return nil, errors.New("invalid role claim")
	}
	return claims, nil
}

func (s *TokenService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, s.refreshSecret, refreshTokenType)
}

func (s *TokenService) sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(tokenString string, secret []byte, typ string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != typ || claims.UserID == "" {
		return nil, errors.New("invalid token payload")
	}
	return claims, nil
}
