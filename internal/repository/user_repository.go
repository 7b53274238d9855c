package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/arzan03/UserDirectory/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UsersCollection = "users"

var ErrUserNotFound = errors.New("user not found")

// DuplicateKeyError reports a unique index violation on Field.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// ListFilter narrows a directory listing. Empty fields are ignored; all
// matches are case-insensitive substrings.
type ListFilter struct {
	Search string
	State  string
	City   string
}

// UserRepository is the credential store. Uniqueness of email and phone is
// enforced by the store itself.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error)
	List(ctx context.Context, filter ListFilter, skip, limit int64) ([]models.User, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	Update(ctx context.Context, user *models.User) error
	SetRefreshToken(ctx context.Context, id string, token *string) error
	RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(coll *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{coll: coll}
}

// EnsureIndexes creates the unique email/phone indexes and the listing sort index.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if field, ok := duplicateField(err); ok {
			return &DuplicateKeyError{Field: field}
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *MongoUserRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phone": phone},
	}})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) List(ctx context.Context, filter ListFilter, skip, limit int64) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter.query())
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"password":      user.Password,
		"address":       user.Address,
		"state":         user.State,
		"city":          user.City,
		"country":       user.Country,
		"pincode":       user.Pincode,
		"role":          user.Role,
		"profile_image": user.ProfileImage,
	}})
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return &DuplicateKeyError{Field: field}
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) SetRefreshToken(ctx context.Context, id string, token *string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"refresh_token": token}})
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RotateRefreshToken swaps current for next only while current is still the
// stored token. It reports false when the token was already superseded.
func (r *MongoUserRepository) RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": objID, "refresh_token": current},
		bson.M{"$set": bson.M{"refresh_token": next}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Search != "" {
		re := substring(f.Search)
		q["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
			bson.M{"phone": re},
		}
	}
	if f.State != "" {
		q["state"] = substring(f.State)
	}
	if f.City != "" {
		q["city"] = substring(f.City)
	}
	return q
}

func substring(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

var uniqueFields = []string{"email", "phone"}

// duplicateField extracts the violated field from a duplicate key error,
// relying on the default "<field>_1" index names.
func duplicateField(err error) (string, bool) {
	if !mongo.IsDuplicateKeyError(err) {
		return "", false
	}
	msg := err.Error()
	for _, f := range uniqueFields {
		if strings.Contains(msg, f+"_1") {
			return f, true
		}
	}
	return "unknown", true
}
