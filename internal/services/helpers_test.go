package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/arzan03/UserDirectory/internal/repository"
	"github.com/arzan03/UserDirectory/internal/storage"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

type testEnv struct {
	repo    *repository.MemoryUserRepository
	store   *storage.DiskStore
	tokens  *TokenService
	uploads *UploadService
	auth    *AuthService
	users   *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	repo := repository.NewMemoryUserRepository()
	tokens := NewTokenService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	uploads := NewUploadService(store, 2<<20)
	return &testEnv{
		repo:    repo,
		store:   store,
		tokens:  tokens,
		uploads: uploads,
		auth:    NewAuthService(repo, tokens, uploads),
		users:   NewUserService(repo, uploads),
	}
}

// storedFiles lists the object names currently in the disk store.
func (e *testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.store.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func (e *testEnv) register(t *testing.T, email, phone string) *AuthResult {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{
		Name:     "Jane Doe",
		Email:    email,
		Phone:    phone,
		Password: "secret1",
		Address:  "12 Main St",
		State:    "Karnataka",
		City:     "Bengaluru",
		Country:  "India",
		Pincode:  "560001",
	}, nil)
	require.NoError(t, err)
	return res
}

// seedAdmin inserts an admin directly and returns its identity.
func (e *testEnv) seedAdmin(t *testing.T) models.Identity {
	t.Helper()
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	admin := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      "Admin User",
		Email:     "admin@example.com",
		Phone:     "1234567890",
		Password:  hash,
		Role:      models.RoleAdmin,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, e.repo.Create(context.Background(), admin))
	return models.Identity{UserID: admin.ID.Hex(), Role: models.RoleAdmin}
}

func identityOf(u *models.User) models.Identity {
	return models.Identity{UserID: u.ID.Hex(), Role: u.Role}
}

// fileHeader builds a multipart file part the way a form upload arrives.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="profile_image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["profile_image"][0]
}
