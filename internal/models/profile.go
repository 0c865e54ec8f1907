package models

import "time"

// Profile mirrors an identity-provider user inside the application database.
// The role column is authoritative for admin access.
type Profile struct {
	ID        string    `json:"id" gorm:"primarykey"`
	Email     string    `json:"email"`
	Role      string    `json:"role" gorm:"default:user"`
	CreatedAt time.Time `json:"created_at"`
}

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
