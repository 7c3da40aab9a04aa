package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoyaltyCredit records points granted to an account. AppointmentID is unique so a
// booking can be credited at most once.
type LoyaltyCredit struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointmentId"`
	Points        int       `gorm:"not null" json:"points"`
	Reason        string    `gorm:"type:varchar(40)" json:"reason"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (l *LoyaltyCredit) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
