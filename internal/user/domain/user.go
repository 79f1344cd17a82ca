package domain

import (
	"context"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tair/foodgram/pkg/apperror"
)

// Role types
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// User represents the user entity (domain model)
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Username  string         `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName string         `json:"first_name" gorm:"size:150;not null"`
	LastName  string         `json:"last_name" gorm:"size:150;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      string         `json:"-" gorm:"size:16;not null;default:'user'"`
	IsActive  bool           `json:"-" gorm:"default:true"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Normalize trims the user-entered fields and lowercases the email
func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Username = strings.TrimSpace(u.Username)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
}

// Validate checks the profile fields of a new user
func (u *User) Validate() error {
	switch {
	case u.Email == "" || !strings.Contains(u.Email, "@"):
		return apperror.Validation("a valid email is required")
	case len(u.Email) > 254:
		return apperror.Validation("email must be at most 254 characters")
	case u.Username == "":
		return apperror.Validation("username is required")
	case len(u.Username) > 150:
		return apperror.Validation("username must be at most 150 characters")
	case !usernamePattern.MatchString(u.Username):
		return apperror.Validation("username may contain only letters, digits and @/./+/-/_")
	case u.FirstName == "" || len(u.FirstName) > 150:
		return apperror.Validation("first_name is required and must be at most 150 characters")
	case u.LastName == "" || len(u.LastName) > 150:
		return apperror.Validation("last_name is required and must be at most 150 characters")
	}
	return nil
}

// Profile is a user as shown to another user
type Profile struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// NewProfile builds the public view of u
func NewProfile(u *User, subscribed bool) Profile {
	return Profile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, limit, offset int) ([]User, error)
	Update(ctx context.Context, user *User) error
	Exists(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
