package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID *uuid.UUID `gorm:"type:uuid;index"`

	FirstName string `gorm:"not null"`
	LastName  string
	Email     string `gorm:"index"`
	Phone     string
	Timezone  string `gorm:"type:varchar(64);default:'UTC'"`

	Activity      *Activity      `gorm:"foreignKey:CustomerID"`
	Subscriptions []Subscription `gorm:"foreignKey:CustomerID"`
	Classes       []Class        `gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	return
}

// FullName is used by mail templates as the greeting fallback.
func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Activity tracks outreach to a customer. There is at most one row per customer.
type Activity struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	LastNoticeDate *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
