package models

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword string    `gorm:"column:hashed_password;not null" json:"-"`
	FullName       string    `gorm:"column:full_name;size:255" json:"full_name"`
	Phone          string    `gorm:"size:64" json:"phone"`
	City           string    `gorm:"size:128" json:"city"`
	Role           string    `gorm:"size:16;default:USER" json:"role"`
	IsActive       bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
