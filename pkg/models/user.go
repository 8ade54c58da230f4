package models

import "gorm.io/gorm"

const (
	RoleRegistrar = "registrar"
	RoleAdmin     = "admin"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:registrar" json:"role"`
}
