package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkstudio-backend/models"
	"inkstudio-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromotionInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ValidUntil  *string  `json:"validUntil"`
	IsActive    *bool    `json:"isActive"`
}

type PromotionService struct {
	db *gorm.DB

	Location *time.Location
	Now      func() time.Time
}

func NewPromotionService(db *gorm.DB, loc *time.Location) *PromotionService {
	if loc == nil {
		loc = time.UTC
	}
	return &PromotionService{db: db, Location: loc, Now: time.Now}
}

func (s *PromotionService) List(ctx context.Context) ([]models.Promotion, error) {
	promos := []models.Promotion{}
	if err := s.db.WithContext(ctx).Order("valid_until ASC").Order("created_at ASC").Find(&promos).Error; err != nil {
		return nil, storeError("list promotions", err)
	}
	return promos, nil
}

// ListActive returns the promotions shown on the public site: active and not expired.
func (s *PromotionService) ListActive(ctx context.Context) ([]models.Promotion, error) {
	today := utils.Today(s.Now(), s.Location)
	promos := []models.Promotion{}
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND valid_until >= ?", true, today).
		Order("valid_until ASC").Order("created_at ASC").
		Find(&promos).Error
	if err != nil {
		return nil, storeError("list active promotions", err)
	}
	return promos, nil
}

func (s *PromotionService) Create(ctx context.Context, in PromotionInput) (*models.Promotion, error) {
	problems := fieldErrors{}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		problems.add("title", "title is required")
	}
	if in.ValidUntil == nil {
		problems.add("validUntil", "validUntil is required")
	}
	updates := s.collect(in, problems)
	if err := problems.err(); err != nil {
		return nil, err
	}

	promo := models.Promotion{
		Title:      updates["title"].(string),
		ValidUntil: updates["valid_until"].(utils.Date),
	}
	if v, ok := updates["description"]; ok {
		promo.Description = v.(string)
	}
	if v, ok := updates["price"]; ok {
		promo.Price = v.(float64)
	}

	db := s.db.WithContext(ctx)
	if err := db.Create(&promo).Error; err != nil {
		return nil, storeError("create promotion", err)
	}
	// is_active has a database default of true, so false must be written afterwards.
	if in.IsActive != nil && !*in.IsActive {
		if err := db.Model(&promo).Update("is_active", false).Error; err != nil {
			return nil, storeError("create promotion", err)
		}
	}
	return s.get(ctx, promo.ID)
}

// Update applies the supplied fields only.
func (s *PromotionService) Update(ctx context.Context, id uuid.UUID, in PromotionInput) (*models.Promotion, error) {
	problems := fieldErrors{}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		problems.add("title", "title is required")
	}
	updates := s.collect(in, problems)
	if err := problems.err(); err != nil {
		return nil, err
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Promotion{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, storeError("update promotion", err)
		}
	}
	return s.get(ctx, id)
}

func (s *PromotionService) Remove(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Promotion{})
	if res.Error != nil {
		return storeError("delete promotion", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PromotionService) get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	err := s.db.WithContext(ctx).First(&promo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("load promotion", err)
	}
	return &promo, nil
}

func (s *PromotionService) collect(in PromotionInput, problems fieldErrors) map[string]interface{} {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			problems.add("price", "must not be negative")
		}
		updates["price"] = *in.Price
	}
	if in.ValidUntil != nil {
		date, err := utils.ParseDate(*in.ValidUntil)
		if err != nil {
			problems.add("validUntil", "date must be YYYY-MM-DD")
		}
		updates["valid_until"] = date
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	return updates
}
