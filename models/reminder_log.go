// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderConfirmation = "confirmation"
	ReminderDayBefore    = "day_before"
	ReminderHourBefore   = "hour_before"
)

type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind          string    `gorm:"type:varchar(20)"` // confirmation, day_before, hour_before
	Message       string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage  string    `gorm:"type:text"`
	Channel       string    `gorm:"type:varchar(20)"` // whatsapp, link
	Reference     string    `gorm:"type:text"`        // Twilio SID or the wa.me link
	SentAt        time.Time
	CreatedAt     time.Time
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
