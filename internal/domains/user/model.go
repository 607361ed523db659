package user

import (
	"time"

	"bookapi-backend/pkg/jwt"
)

// User is an API account. Role is jwt.RoleUser or jwt.RoleAdmin.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == jwt.RoleAdmin
}
