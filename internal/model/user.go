package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role carried in a session token.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleAdmin       Role = "admin"
)

// UserInfo identifies the participant for the duration of a session.
type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRecord is an entry of the users collection, appended on every login.
type UserRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the payload for name/email login.
type LoginRequest struct {
	Name  string `json:"name" binding:"required,notblank,max=100"`
	Email string `json:"email" binding:"required,max=254,basic_email"`
}

// Normalize trims surrounding whitespace from the login fields.
func (r LoginRequest) Normalize() UserInfo {
	return UserInfo{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
	}
}
