package models

import "time"

type User struct {
	ID           int64     `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// UserPatch holds the profile fields to change; nil means "leave unchanged".
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}

type RegisterRequest struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type LoginRequest struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type UpdateProfileRequest struct {
	Username *string `mapstructure:"username"`
	Email    *string `mapstructure:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `mapstructure:"currentPassword"`
	NewPassword     string `mapstructure:"newPassword"`
}

// UserOutcome is the client-facing projection of a user.
type UserOutcome struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func ToUserOutcome(u *User) *UserOutcome {
	return &UserOutcome{Username: u.Username, Email: u.Email}
}
