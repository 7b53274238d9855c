package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/arzan03/UserDirectory/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Address  string
	State    string
	City     string
	Country  string
	Pincode  string
}

type AuthResult struct {
	User *models.User
	TokenPair
}

type AuthService struct {
	users   repository.UserRepository
	tokens  *TokenService
	uploads *UploadService
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, uploads *UploadService) *AuthService {
	return &AuthService{users: users, tokens: tokens, uploads: uploads}
}

// Register creates a user with the default role and signs them in. The
// profile image, when given, is stored only after the duplicate check and
// removed again if the record cannot be written.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, image *multipart.FileHeader) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)

	existing, err := s.users.FindByEmailOrPhone(ctx, email, phone)
	switch {
	case err == nil:
		if existing.Email == email {
			return nil, &DuplicateFieldError{Field: "email"}
		}
		return nil, &DuplicateFieldError{Field: "phone"}
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	imagePath, err := s.uploads.Accept(ctx, image)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Phone:     phone,
		Password:  hash,
		Address:   strings.TrimSpace(in.Address),
		State:     strings.TrimSpace(in.State),
		City:      strings.TrimSpace(in.City),
		Country:   strings.TrimSpace(in.Country),
		Pincode:   strings.TrimSpace(in.Pincode),
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if imagePath != "" {
		user.ProfileImage = &imagePath
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		s.uploads.Discard(ctx, imagePath)
		return nil, err
	}
	user.RefreshToken = &pair.RefreshToken

	if err := s.users.Create(ctx, user); err != nil {
		s.uploads.Discard(ctx, imagePath)
		if dup, ok := duplicateFrom(err); ok {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Login accepts an email or phone number as identifier. Unknown identifiers
// and wrong passwords produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.users.FindByEmailOrPhone(ctx, NormalizeEmail(identifier), identifier)
	if errors.Is(err, repository.ErrUserNotFound) {
		// Spend the same bcrypt work as a wrong password would.
		VerifyPassword(password, dummyPasswordHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if !VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID.Hex(), &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}
	user.RefreshToken = &pair.RefreshToken

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Refresh exchanges the user's current refresh token for a new pair. A
// token that verifies but is no longer the stored one is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidOrExpiredToken
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, ErrInvalidOrExpiredToken
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	rotated, err := s.users.RotateRefreshToken(ctx, claims.UserID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, ErrInvalidOrExpiredToken
	}
	return &pair, nil
}

// Logout revokes the actor's refresh token.
func (s *AuthService) Logout(ctx context.Context, actor models.Identity) error {
	err := s.users.SetRefreshToken(ctx, actor.UserID, nil)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
