package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ProviderGoogle = "google"

// User is the local identity record, keyed externally by (provider, provider_id).
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string    `gorm:"not null;size:255;uniqueIndex:idx_users_email" json:"email"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	AvatarURL  *string   `gorm:"size:2048" json:"avatar_url"`
	Provider   string    `gorm:"not null;size:50;uniqueIndex:idx_users_provider_identity" json:"-"`
	ProviderID string    `gorm:"column:provider_id;not null;size:255;uniqueIndex:idx_users_provider_identity" json:"-"`
	Active     bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Connections []Connection    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Preference  *UserPreference `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Onboarding  *Onboarding     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the account may use authenticated endpoints.
func (u *User) IsActive() bool {
	return u.Active
}
