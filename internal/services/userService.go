package services

import (
	"context"
	"fmt"
	"math"
	"mime/multipart"
	"strings"

	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/arzan03/UserDirectory/internal/repository"
	"github.com/arzan03/UserDirectory/internal/utils"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ListQuery struct {
	Page   int64
	Limit  int64
	Search string
	State  string
	City   string
}

type ListResult struct {
	Results    []models.User `json:"results"`
	Total      int64         `json:"total"`
	Page       int64         `json:"page"`
	TotalPages int64         `json:"totalPages"`
}

// UpdateInput carries the fields a caller wants to change; nil means keep.
type UpdateInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
	Address  *string
	State    *string
	City     *string
	Country  *string
	Pincode  *string
	Role     *models.Role
}

type UserService struct {
	users   repository.UserRepository
	uploads *UploadService
}

func NewUserService(users repository.UserRepository, uploads *UploadService) *UserService {
	return &UserService{users: users, uploads: uploads}
}

// List returns one page of users, newest first. Pages past the end are empty.
func (s *UserService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}

	filter := repository.ListFilter{
		Search: strings.TrimSpace(q.Search),
		State:  strings.TrimSpace(q.State),
		City:   strings.TrimSpace(q.City),
	}

	var (
		total int64
		users []models.User
	)
	err := utils.RunParallelTasks(ctx,
		func(ctx context.Context) error {
			n, err := s.users.Count(ctx, filter)
			total = n
			return err
		},
		func(ctx context.Context) error {
			// A skip that would overflow is past any real last page.
			if q.Page-1 > math.MaxInt64/q.Limit {
				return nil
			}
			page, err := s.users.List(ctx, filter, (q.Page-1)*q.Limit, q.Limit)
			users = page
			return err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}

	return &ListResult{
		Results:    users,
		Total:      total,
		Page:       q.Page,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

func (s *UserService) Get(ctx context.Context, actor models.Identity, id string) (*models.User, error) {
	if err := AuthorizeSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Update applies in to the user. Only admins may change the role; a role sent
// by anyone else is ignored. A new image replaces the old one, whose file is
// deleted only after the record is saved.
func (s *UserService) Update(ctx context.Context, actor models.Identity, id string, in UpdateInput, image *multipart.FileHeader) (*models.User, error) {
	if err := AuthorizeSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hash
	}

	newImage, err := s.uploads.Accept(ctx, image)
	if err != nil {
		return nil, err
	}

	assign(&user.Name, in.Name)
	if in.Email != nil {
		user.Email = NormalizeEmail(*in.Email)
	}
	assign(&user.Phone, in.Phone)
	assign(&user.Address, in.Address)
	assign(&user.State, in.State)
	assign(&user.City, in.City)
	assign(&user.Country, in.Country)
	assign(&user.Pincode, in.Pincode)
	if in.Role != nil && actor.IsAdmin() {
		user.Role = *in.Role
	}

	oldImage := user.ProfileImage
	if newImage != "" {
		user.ProfileImage = &newImage
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.uploads.Discard(ctx, newImage)
		if dup, ok := duplicateFrom(err); ok {
			return nil, dup
		}
		return nil, err
	}

	if newImage != "" && oldImage != nil {
		s.uploads.Discard(ctx, *oldImage)
	}
	return user, nil
}

// Delete removes the user and then its stored image.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if user.ProfileImage != nil {
		s.uploads.Discard(ctx, *user.ProfileImage)
	}
	return nil
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
