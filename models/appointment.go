package models

import (
	"inkstudio-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Service catalog labels, as shown on the booking form.
const (
	ServiceMinimalist      = "Tatuagem Minimalista"
	ServiceMinimalistPack5 = "Tatuagem Minimalista - Pacote 5"
	ServiceCoverUp         = "Cover-up"
	ServiceCustom          = "Tatuagem Autoral"
)

var Services = []string{
	ServiceMinimalist,
	ServiceMinimalistPack5,
	ServiceCoverUp,
	ServiceCustom,
}

var Statuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

func IsKnownService(service string) bool {
	for _, s := range Services {
		if s == service {
			return true
		}
	}
	return false
}

func IsKnownStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientName   string `gorm:"not null" json:"clientName"`
	ContactEmail string `json:"email"`
	ContactPhone string `gorm:"not null" json:"phone"`
	Service      string `gorm:"not null" json:"service"`
	Description  string `gorm:"type:text" json:"description,omitempty"`

	Date utils.Date `gorm:"index:idx_appointment_slot;not null" json:"date"`
	Time string     `gorm:"type:varchar(5);index:idx_appointment_slot;not null" json:"time"`

	Status string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	UserID   uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	Price        *float64 `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	PointsEarned int      `gorm:"not null;default:0" json:"pointsEarned"`

	DayBeforeReminderSent  bool `gorm:"default:false" json:"-"`
	HourBeforeReminderSent bool `gorm:"default:false" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// StartsAt combines the calendar date and the slot label in loc.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	clock, err := time.Parse("15:04", a.Time)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := time.Time(a.Date).Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}
