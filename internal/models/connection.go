package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Relationship string

const (
	RelationshipFriend           Relationship = "friend"
	RelationshipFamily           Relationship = "family"
	RelationshipColleague        Relationship = "colleague"
	RelationshipPartner          Relationship = "partner"
	RelationshipParent           Relationship = "parent"
	RelationshipChild            Relationship = "child"
	RelationshipSibling          Relationship = "sibling"
	RelationshipRomanticInterest Relationship = "romantic_interest"
)

// Relationships lists every accepted relationship value.
var Relationships = []Relationship{
	RelationshipFriend,
	RelationshipFamily,
	RelationshipColleague,
	RelationshipPartner,
	RelationshipParent,
	RelationshipChild,
	RelationshipSibling,
	RelationshipRomanticInterest,
}

type Connection struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	Name         string       `gorm:"not null;size:100" json:"name"`
	PhoneNumber  string       `gorm:"not null;size:50" json:"phone_number"`
	Relationship Relationship `gorm:"not null;size:50;default:'friend'" json:"relationship"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Relationship == "" {
		c.Relationship = RelationshipFriend
	}
	return nil
}

// BeforeSave trims user-entered text. Relationship is an enum and left alone.
func (c *Connection) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
	return nil
}
