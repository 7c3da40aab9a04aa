package models

import (
	"inkstudio-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a studio account. Clients and the studio staff share the table; IsAdmin
// separates them.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `json:"-"` // bcrypt hash, empty for Google-only accounts
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	GoogleSubject *string `gorm:"uniqueIndex" json:"-"`

	IsAdmin  bool `gorm:"default:false" json:"isAdmin"`
	IsActive bool `gorm:"default:true" json:"isActive"`

	LoyaltyPoints     int `gorm:"not null;default:0" json:"loyaltyPoints"`
	TotalAppointments int `gorm:"not null;default:0" json:"totalAppointments"`

	Address      string `json:"address,omitempty"`
	TaxID        string `json:"taxId,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`

	// Admin-only financial goal fields.
	MonthlyGoal      float64 `gorm:"type:decimal(10,2);default:0" json:"monthlyGoal,omitempty"`
	CurrentRevenue   float64 `gorm:"type:decimal(10,2);default:0" json:"currentRevenue,omitempty"`
	LastMonthRevenue float64 `gorm:"type:decimal(10,2);default:0" json:"lastMonthRevenue,omitempty"`

	LastVisit *time.Time `json:"lastVisit,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Password == "" {
		return nil
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
