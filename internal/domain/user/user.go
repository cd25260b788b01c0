package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrNameRequired        = errors.New("user: full name is required")
	ErrInvalidRole         = errors.New("user: invalid role")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrNotFound            = errors.New("user: not found")
)

type ID string

type Role string

const (
	RoleStudent  Role = "student"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// User is a marketplace account: students looking for rooms and landlords
// publishing them. The profile fields are what counterparts see in chat and
// on listings.
type User struct {
	ID           ID
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	AvatarURL    string
	Phone        string
	University   string
	City         string
	Blocked      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID           ID
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	University   string
	City         string
	CreatedAt    time.Time
}

func NewUser(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	name := strings.TrimSpace(params.FullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	role, err := ParseRole(string(params.Role))
	if err != nil {
		return nil, err
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &User{
		ID:           ID(id),
		Email:        email,
		FullName:     name,
		PasswordHash: params.PasswordHash,
		Role:         role,
		University:   strings.TrimSpace(params.University),
		City:         strings.TrimSpace(params.City),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ParseRole validates a role string; the empty string defaults to student.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case "":
		return RoleStudent, nil
	case RoleStudent, RoleLandlord, RoleAdmin:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

type ProfileUpdate struct {
	FullName   *string
	Phone      *string
	University *string
	City       *string
}

// ApplyProfileUpdate mutates the editable profile fields; nil pointers leave
// fields untouched.
func (u *User) ApplyProfileUpdate(update ProfileUpdate, now time.Time) error {
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return ErrNameRequired
		}
		u.FullName = name
	}
	if update.Phone != nil {
		u.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.University != nil {
		u.University = strings.TrimSpace(*update.University)
	}
	if update.City != nil {
		u.City = strings.TrimSpace(*update.City)
	}
	u.touch(now)
	return nil
}

func (u *User) SetAvatarURL(url string, now time.Time) {
	u.AvatarURL = strings.TrimSpace(url)
	u.touch(now)
}

func (u *User) SetPasswordHash(hash string, now time.Time) error {
	if strings.TrimSpace(hash) == "" {
		return ErrPasswordHashMissing
	}
	u.PasswordHash = hash
	u.touch(now)
	return nil
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
