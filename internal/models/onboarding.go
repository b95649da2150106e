package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Onboarding struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	NotificationTimeSetting *time.Time `json:"notification_time_setting"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func (Onboarding) TableName() string { return "onboarding" }

func (o *Onboarding) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
