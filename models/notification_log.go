// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	Type         string    `gorm:"type:varchar(40)" json:"type"`    // inactive_customer
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // email, sms, whatsapp
	Recipient    string    `json:"recipient"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	Context      JSONB     `gorm:"type:jsonb" json:"context,omitempty"`
	SentAt       time.Time `gorm:"index" json:"sentAt"`

	CreatedAt time.Time `json:"-"`
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
