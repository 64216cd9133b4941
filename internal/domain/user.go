package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Email    *string
	Password *string
}

type UserWithHistory struct {
	User
	History []NewsContent `json:"history"`
}
