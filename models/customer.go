package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	Address *string   `gorm:"type:text"`

	Vehicles  []Vehicle  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Documents []Document `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Vehicle belongs to exactly one customer. Odo is free text ("150,000 km").
type Vehicle struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Rego        *string
	Odo         *string
	Description *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
