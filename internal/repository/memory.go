package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/arzan03/UserDirectory/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository is an in-process UserRepository with the same
// uniqueness and ordering rules as the MongoDB implementation. It is meant
// for tests; the server and createadmin always use MongoUserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	r.users[user.ID] = clone(*user)
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[objID]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := clone(u)
	return &out, nil
}

func (r *MemoryUserRepository) FindByEmailOrPhone(_ context.Context, email, phone string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.sorted() {
		if u.Email == email || u.Phone == phone {
			out := clone(u)
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) List(_ context.Context, filter ListFilter, skip, limit int64) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0)
	var seen int64
	for _, u := range r.sorted() {
		if !filter.matches(u) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, clone(u))
	}
	return out, nil
}

func (r *MemoryUserRepository) Count(_ context.Context, filter ListFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.users {
		if filter.matches(u) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	updated := clone(*user)
	updated.RefreshToken = existing.RefreshToken
	updated.CreatedAt = existing.CreatedAt
	r.users[user.ID] = updated
	return nil
}

func (r *MemoryUserRepository) SetRefreshToken(_ context.Context, id string, token *string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[objID]
	if !ok {
		return ErrUserNotFound
	}
	u.RefreshToken = copyString(token)
	r.users[objID] = u
	return nil
}

func (r *MemoryUserRepository) RotateRefreshToken(_ context.Context, id, current, next string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[objID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = &next
	r.users[objID] = u
	return true, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[objID]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, objID)
	return nil
}

// checkUnique must be called with mu held.
func (r *MemoryUserRepository) checkUnique(user *models.User) error {
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return &DuplicateKeyError{Field: "email"}
		}
		if u.Phone == user.Phone {
			return &DuplicateKeyError{Field: "phone"}
		}
	}
	return nil
}

// sorted returns users newest first; mu must be held.
func (r *MemoryUserRepository) sorted() []models.User {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f ListFilter) matches(u models.User) bool {
	if f.Search != "" && !containsFold(u.Name, f.Search) &&
		!containsFold(u.Email, f.Search) && !containsFold(u.Phone, f.Search) {
		return false
	}
	if f.State != "" && !containsFold(u.State, f.State) {
		return false
	}
	if f.City != "" && !containsFold(u.City, f.City) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func clone(u models.User) models.User {
	u.ProfileImage = copyString(u.ProfileImage)
	u.RefreshToken = copyString(u.RefreshToken)
	return u
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
