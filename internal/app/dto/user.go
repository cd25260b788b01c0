package dto

import (
	"time"

	domainuser "unilodge/internal/domain/user"
)

type UserProfile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	University string    `json:"university,omitempty"`
	City       string    `json:"city,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

func MapUserProfile(user *domainuser.User) UserProfile {
	if user == nil {
		return UserProfile{}
	}
	return UserProfile{
		ID:         string(user.ID),
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       string(user.Role),
		AvatarURL:  user.AvatarURL,
		Phone:      user.Phone,
		University: user.University,
		City:       user.City,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func NewAuthResponse(user *domainuser.User, token string) AuthResponse {
	return AuthResponse{
		User:  MapUserProfile(user),
		Token: token,
	}
}
