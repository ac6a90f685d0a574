package models

import (
	"strings"
	"time"

	"autoshop-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultRole = "ROLE_USER"

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	Roles    string    `gorm:"type:varchar(255);not null;default:'ROLE_USER'"` // comma separated

	LastLogin *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Initialize UUID and hash the plain password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// RoleList always contains ROLE_USER.
func (u User) RoleList() []string {
	roles := []string{DefaultRole}
	for _, r := range strings.Split(u.Roles, ",") {
		r = strings.TrimSpace(r)
		if r == "" || r == DefaultRole {
			continue
		}
		roles = append(roles, r)
	}
	return roles
}
