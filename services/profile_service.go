package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"inkstudio-backend/models"
	"inkstudio-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileUpdate carries the fields a caller wants to change; nil means untouched.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	TaxID   *string `json:"taxId"`

	MonthlyGoal      *float64 `json:"monthlyGoal"`
	CurrentRevenue   *float64 `json:"currentRevenue"`
	LastMonthRevenue *float64 `json:"lastMonthRevenue"`
}

func (u ProfileUpdate) touchesFinancials() bool {
	return u.MonthlyGoal != nil || u.CurrentRevenue != nil || u.LastMonthRevenue != nil
}

type ProfileService struct {
	db     *gorm.DB
	images ImageStore
	hub    *SessionHub
	logger *zap.Logger

	Now func() time.Time
}

func NewProfileService(db *gorm.DB, images ImageStore, hub *SessionHub, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{db: db, images: images, hub: hub, logger: logger, Now: time.Now}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("load profile", err)
	}
	return &user, nil
}

// UpdateProfile writes only the supplied fields. Loyalty counters are never touched
// here; financial goal fields are reserved to admins.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	problems := fieldErrors{}
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			problems.add("name", "name is required")
		}
		updates["name"] = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" && !utils.ValidatePhone(phone) {
			problems.add("phone", "invalid phone number")
		}
		updates["phone"] = phone
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if in.TaxID != nil {
		updates["tax_id"] = strings.TrimSpace(*in.TaxID)
	}
	if in.touchesFinancials() && !user.IsAdmin {
		problems.add("monthlyGoal", "only admins have financial goals")
	}
	for column, value := range map[string]*float64{
		"monthly_goal":       in.MonthlyGoal,
		"current_revenue":    in.CurrentRevenue,
		"last_month_revenue": in.LastMonthRevenue,
	} {
		if value == nil {
			continue
		}
		if *value < 0 {
			problems.add(column, "must not be negative")
		}
		updates[column] = *value
	}
	if err := problems.err(); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, storeError("update profile", err)
	}
	updated, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.publish(updated)
	return updated, nil
}

// ListClients returns the non-admin accounts, oldest first.
func (s *ProfileService) ListClients(ctx context.Context) ([]models.User, error) {
	clients := []models.User{}
	err := s.db.WithContext(ctx).
		Where("is_admin = ?", false).
		Order("created_at ASC").Order("id ASC").
		Find(&clients).Error
	if err != nil {
		return nil, storeError("list clients", err)
	}
	return clients, nil
}

// ListAccounts returns every account, admins included.
func (s *ProfileService) ListAccounts(ctx context.Context) ([]models.User, error) {
	accounts := []models.User{}
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, storeError("list accounts", err)
	}
	return accounts, nil
}

// SetProfileImage stores a resized copy of src and points the profile at it.
func (s *ProfileService) SetProfileImage(ctx context.Context, userID uuid.UUID, src io.Reader) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.images.SaveProfileImage(ctx, user.ID.String(), src)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("profile_image", url).Error; err != nil {
		return nil, storeError("save profile image", err)
	}
	user.ProfileImage = url
	s.logger.Info("profile image updated", zap.String("user_id", user.ID.String()))
	s.publish(user)
	return user, nil
}

// LoyaltyHistory lists the credits granted to userID, newest first.
func (s *ProfileService) LoyaltyHistory(ctx context.Context, userID uuid.UUID) ([]models.LoyaltyCredit, error) {
	history := []models.LoyaltyCredit{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&history).Error
	if err != nil {
		return nil, storeError("load loyalty history", err)
	}
	return history, nil
}

func (s *ProfileService) publish(user *models.User) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(AccountEvent{Type: EventProfileUpdated, UserID: user.ID, Account: user, At: s.Now()})
}
