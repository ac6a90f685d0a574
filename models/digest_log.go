package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DigestLog records every attempt to send the daily summary.
type DigestLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Day          time.Time `gorm:"type:date;index;not null"`
	Recipient    string    `gorm:"type:varchar(32);not null"`
	Message      string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string    `gorm:"type:text"`
	Channel      string    `gorm:"type:varchar(20)"` // sms
	ProviderID   string    `gorm:"type:varchar(64)"`
	SentAt       time.Time
	CreatedAt    time.Time
}

func (d *DigestLog) BeforeCreate(tx *gorm.DB) (err error) {
	d.ID = uuid.New()
	return
}
