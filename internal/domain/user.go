package domain

import (
	"context"
	"time"
)

// Role is a closed set; anything else is rejected at the boundary.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCourier  Role = "courier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleCourier:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	FullName     string    `gorm:"size:128;not null" json:"full_name"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	Phone        string    `gorm:"size:32" json:"phone"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ID   string
	Role Role
}

type UserFilter struct {
	Role       Role // empty = all roles
	ActiveOnly bool
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByUsername matches active and inactive users alike; usernames stay
	// unique across soft-deleted accounts.
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindActiveByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	SetActive(ctx context.Context, id string, active bool) (bool, error)
}
