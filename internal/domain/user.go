package domain

import (
	"context"
	"time"
)

// Account types stored on a credential.
const (
	AccountTypeAttendee = "attendee"
	AccountTypeHost     = "host"
	AccountTypeAdmin    = "admin"
)

// User represents a provisioned account.
// swagger:model User
type User struct {
	ID           string    `json:"user_id"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	EventsHosted int       `json:"events_hosted"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser returns a new User in the given department.
func NewUser(id, email, department string, createdAt time.Time) *User {
	return &User{
		ID:         id,
		Email:      email,
		Department: department,
		CreatedAt:  createdAt,
	}
}

// Credential is the authentication record paired one-to-one with a User.
// The password is stored as a salted hash, never in plaintext.
type Credential struct {
	UserID       string `json:"user_id"`
	PasswordHash string `json:"-"`
	Salt         string `json:"-"`
	AccountType  string `json:"account_type"`
}

// Profile bundles a user with its account type for the profile endpoint.
// swagger:model Profile
type Profile struct {
	User        *User  `json:"user"`
	AccountType string `json:"account_type"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, accountType string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
}

// CredentialRepository defines the interface for credential storage.
type CredentialRepository interface {
	Create(ctx context.Context, cred *Credential) error
	GetByUserID(ctx context.Context, userID string) (*Credential, error)
}

// AuthService defines signup and credential verification.
type AuthService interface {
	SignUp(ctx context.Context, userID, email, password, department, accountType string) (*User, error)
	Login(ctx context.Context, userID, password string) (token string, err error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

// AccessPolicy gates host-only engine operations on the caller's account type.
type AccessPolicy interface {
	// RequireHost returns nil when the user's account type is host or admin,
	// ErrForbidden otherwise.
	RequireHost(ctx context.Context, userID string) error
}
