// Package models defines the persisted records of the catalog service.
package models

import "time"

// Role is the closed set of identity roles. Anything outside the set
// normalizes to RoleUser at the registration boundary.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// ParseRole maps free-text input onto the allowed role set. Unknown or
// placeholder values default to RoleUser.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// User is a registered identity, keyed by email. PasswordHash and Salt are
// always produced together by the credential hasher and replaced together
// on password change.
type User struct {
	Email        string
	PasswordHash string
	Salt         []byte
	Role         Role
}

// Category groups movies.
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Movie is a catalog entity owning zero or one poster asset. ImageURL is
// nil when no asset is attached; otherwise it is a fully qualified URL that
// resolves to a file under the asset store.
type Movie struct {
	ID         int64
	Name       string
	Synopsis   string
	Duration   int
	ImageURL   *string
	AllPublic  bool
	CreatedAt  time.Time
	CategoryID int64
}
