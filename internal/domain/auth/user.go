package auth

import "time"

type Role string

const (
	RoleCitizen       Role = "citizen"
	RoleDistrictAdmin Role = "district_admin"
	RoleAdmin         Role = "admin"
)

type User struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Name         string    `gorm:"column:name" json:"name"`
	Role         Role      `gorm:"column:role" json:"role"`
	District     string    `gorm:"column:district" json:"district,omitempty"`
	IsBlocked    bool      `gorm:"column:is_blocked" json:"is_blocked"`
	BlockReason  string    `gorm:"column:block_reason" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
