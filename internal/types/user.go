package types

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Email       string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"column:password;not null" json:"-"`
	AvatarURL   string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	Role        Role      `gorm:"column:role;not null;default:STUDENT" json:"role"`
	IsSuspended bool      `gorm:"column:is_suspended;not null;default:false" json:"is_suspended"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
