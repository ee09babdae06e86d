package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson types stored in Lesson.Type.
const (
	LessonTypeOrdinary    = "ordinary"
	LessonTypePaired      = "paired"
	LessonTypeMasterClass = "master_class"
	LessonTypeHappyHour   = "happy_hour"
)

type Lesson struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Type        string     `gorm:"type:varchar(32);index;not null" json:"type"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	Photo       *string    `json:"photo"`
	Slots       int        `gorm:"default:1" json:"slots"`
	Duration    int        `json:"duration"` // in minutes
	HostID      *uuid.UUID `gorm:"type:uuid;index" json:"hostId,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// TimelineEntry is one scheduled occurrence of a lesson.
type TimelineEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeacherID  uuid.UUID `gorm:"type:uuid;index;not null"`
	LessonID   uuid.UUID `gorm:"type:uuid;index;not null"`
	StartsAt   time.Time `gorm:"index;not null"`
	EndsAt     time.Time `gorm:"not null"`
	Slots      int       `gorm:"default:1;not null"`
	IsFinished bool      `gorm:"default:false;not null"`

	Lesson Lesson `gorm:"foreignKey:LessonID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *TimelineEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
