package repository

import (
	"context"
	"testing"
	"time"

	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Name: "Jane Doe", Email: "jane@example.com", Phone: "5551234567"}
		require.NoError(mt, repo.Create(ctx, user))
		assert.False(mt, user.ID.IsZero())
	})

	mt.Run("create maps duplicate phone", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.users index: phone_1 dup key: { phone: "5551234567" }`,
		}))

		err := repo.Create(ctx, &models.User{Email: "x@example.com", Phone: "5551234567"})
		var dup *DuplicateKeyError
		require.ErrorAs(mt, err, &dup)
		assert.Equal(mt, "phone", dup.Field)
	})

	mt.Run("find by id returns user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Jane Doe"},
			{Key: "email", Value: "jane@example.com"},
			{Key: "role", Value: "admin"},
		}))

		user, err := repo.FindByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, models.RoleAdmin, user.Role)
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.FindByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})

	mt.Run("find by malformed id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)

		_, err := repo.FindByID(ctx, "not-an-object-id")
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})

	mt.Run("update unmatched", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.Update(ctx, &models.User{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})

	mt.Run("rotate refresh token", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		id := primitive.NewObjectID().Hex()

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		ok, err := repo.RotateRefreshToken(ctx, id, "old", "new")
		require.NoError(mt, err)
		assert.True(mt, ok)

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		ok, err = repo.RotateRefreshToken(ctx, id, "old", "newer")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrUserNotFound)
	})

	mt.Run("list decodes page", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Alpha"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Beta"}},
		))

		users, err := repo.List(ctx, ListFilter{Search: "a"}, 0, 10)
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "Alpha", users[0].Name)
	})
}

func TestListFilterQuery(t *testing.T) {
	q := ListFilter{Search: "a.b", State: "cal", City: ""}.query()

	or, ok := q["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 3)
	assert.Equal(t, primitive.Regex{Pattern: `a\.b`, Options: "i"}, or[0].(bson.M)["name"])
	assert.Equal(t, primitive.Regex{Pattern: "cal", Options: "i"}, q["state"])
	assert.NotContains(t, q, "city")

	assert.Empty(t, ListFilter{}.query())
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, u := range []models.User{
		{Name: "Alice Smith", Email: "alice@example.com", Phone: "1111111111", State: "California", City: "San Francisco"},
		{Name: "Bob Jones", Email: "bob@example.com", Phone: "2222222222", State: "Texas", City: "Austin"},
		{Name: "Carol White", Email: "carol@example.com", Phone: "3333333333", State: "California", City: "Los Angeles"},
	} {
		u.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, &u))
	}

	t.Run("unique email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Email: "alice@example.com", Phone: "9999999999"})
		var dup *DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
	})

	t.Run("newest first", func(t *testing.T) {
		users, err := repo.List(ctx, ListFilter{}, 0, 10)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "Carol White", users[0].Name)
		assert.Equal(t, "Alice Smith", users[2].Name)
	})

	t.Run("search and filter", func(t *testing.T) {
		f := ListFilter{Search: "EXAMPLE", State: "calif"}
		n, err := repo.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		users, err := repo.List(ctx, f, 1, 10)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Alice Smith", users[0].Name)
	})

	t.Run("rotate only current token", func(t *testing.T) {
		u, err := repo.FindByEmailOrPhone(ctx, "bob@example.com", "")
		require.NoError(t, err)
		first := "first"
		require.NoError(t, repo.SetRefreshToken(ctx, u.ID.Hex(), &first))

		ok, err := repo.RotateRefreshToken(ctx, u.ID.Hex(), "first", "second")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.RotateRefreshToken(ctx, u.ID.Hex(), "first", "third")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
