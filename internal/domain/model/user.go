package model

import "time"

// Role describes the access level granted to an authenticated user.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole converts stored representation into Role, defaulting to client.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleClient
}

// User represents a registered customer or administrator of the store.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
