package user

import (
	"time"
)

// User is the account aggregate root. Password holds the bcrypt hash only.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a user; hashedPassword must already be a bcrypt hash.
func NewUser(name, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateProfile changes the display name and avatar.
func (u *User) UpdateProfile(name, avatar string) {
	u.Name = name
	u.Avatar = avatar
	u.UpdatedAt = time.Now()
}
