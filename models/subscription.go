package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is a purchased lesson package. It is active until IsFullyUsed flips.
type Subscription struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductName string    `gorm:"not null"`
	BuyDate     time.Time `gorm:"index;not null"`
	IsFullyUsed bool      `gorm:"default:false;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.BuyDate.IsZero() {
		s.BuyDate = time.Now().UTC()
	}
	return
}

// Class is a customer's seat on a timeline entry.
type Class struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	SubscriptionID  *uuid.UUID `gorm:"type:uuid;index"`
	TimelineEntryID *uuid.UUID `gorm:"type:uuid;index"`

	TimelineEntry *TimelineEntry `gorm:"foreignKey:TimelineEntryID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Class) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
