package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gearshare/item-lending-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "User does not exist")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "Email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
)

// User represents an account in the system. Users own items, book other
// users' items, and comment on items they have borrowed.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         *string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}

// DisplayName returns the user's name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}
