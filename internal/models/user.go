package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the persisted account record. Password and RefreshToken never
// leave the server: both are excluded from JSON on every read path.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Password     string             `bson:"password" json:"-"`
	Address      string             `bson:"address" json:"address"`
	State        string             `bson:"state" json:"state"`
	City         string             `bson:"city" json:"city"`
	Country      string             `bson:"country" json:"country"`
	Pincode      string             `bson:"pincode" json:"pincode"`
	Role         Role               `bson:"role" json:"role"`
	ProfileImage *string            `bson:"profile_image" json:"profile_image"`
	RefreshToken *string            `bson:"refresh_token" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the authenticated actor resolved from an access token.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
