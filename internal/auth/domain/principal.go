package domain

import "time"

type Principal struct {
	ID           string
	Username     string
	DisplayName  string
	PasswordHash string // argon2 encoded
	Role         string // "user" or "admin"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
