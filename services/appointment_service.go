package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkstudio-backend/metrics"
	"inkstudio-backend/models"
	"inkstudio-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppointmentDraft is what the booking form submits.
type AppointmentDraft struct {
	ClientName  string   `json:"clientName"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Service     string   `json:"service"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Price       *float64 `json:"price"`
}

// AppointmentService is the ledger of bookings. Creating a booking also credits the
// account's loyalty balance in the same transaction.
type AppointmentService struct {
	db       *gorm.DB
	hub      *SessionHub
	notifier *Notifier
	logger   *zap.Logger

	Location *time.Location
	Now      func() time.Time
}

func NewAppointmentService(db *gorm.DB, hub *SessionHub, notifier *Notifier, logger *zap.Logger, loc *time.Location) *AppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentService{db: db, hub: hub, notifier: notifier, logger: logger, Location: loc, Now: time.Now}
}

func (s *AppointmentService) today() utils.Date {
	return utils.Today(s.Now(), s.Location)
}

func (s *AppointmentService) validate(draft AppointmentDraft) (utils.Date, error) {
	problems := fieldErrors{}
	if strings.TrimSpace(draft.ClientName) == "" {
		problems.add("clientName", "name is required")
	}
	if strings.TrimSpace(draft.Phone) == "" {
		problems.add("phone", "phone is required")
	} else if !utils.ValidatePhone(draft.Phone) {
		problems.add("phone", "invalid phone number")
	}
	if email := strings.TrimSpace(draft.Email); email != "" && !utils.ValidateEmail(email) {
		problems.add("email", "invalid email")
	}
	if !models.IsKnownService(draft.Service) {
		problems.add("service", "unknown service")
	}
	if draft.Price != nil && *draft.Price < 0 {
		problems.add("price", "must not be negative")
	}

	date, err := utils.ParseDate(draft.Date)
	if err != nil {
		problems.add("date", "date must be YYYY-MM-DD")
	} else if time.Time(date).Before(time.Time(s.today())) {
		problems.add("date", "date is in the past")
	} else if !isSlotFor(time.Time(date), draft.Time) {
		problems.add("time", "time is not an available slot")
	}
	return date, problems.err()
}

// Create books draft for userID. The appointment row, the loyalty credit and the
// account counters are written in one transaction.
func (s *AppointmentService) Create(ctx context.Context, userID uuid.UUID, draft AppointmentDraft) (*models.Appointment, error) {
	if userID == uuid.Nil {
		return nil, ErrAccountRequired
	}
	date, err := s.validate(draft)
	if err != nil {
		return nil, err
	}

	points := PointsFor(draft.Service)
	var appt models.Appointment
	var account models.User

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountRequired
			}
			return storeError("load account", err)
		}

		var taken int64
		err := tx.Model(&models.Appointment{}).
			Where("date = ? AND time = ? AND status <> ?", date, draft.Time, models.StatusCancelled).
			Count(&taken).Error
		if err != nil {
			return storeError("check slot", err)
		}
		if taken > 0 {
			return ErrSlotTaken
		}

		email := utils.NormalizeEmail(draft.Email)
		if email == "" {
			email = account.Email
		}
		appt = models.Appointment{
			ClientName:   strings.TrimSpace(draft.ClientName),
			ContactEmail: email,
			ContactPhone: strings.TrimSpace(draft.Phone),
			Service:      draft.Service,
			Description:  strings.TrimSpace(draft.Description),
			Date:         date,
			Time:         draft.Time,
			Status:       models.StatusPending,
			UserID:       account.ID,
			ClientID:     account.ID,
			Price:        draft.Price,
			PointsEarned: points,
		}
		if err := tx.Create(&appt).Error; err != nil {
			return storeError("create appointment", err)
		}

		credit := models.LoyaltyCredit{
			UserID:        account.ID,
			AppointmentID: appt.ID,
			Points:        points,
			Reason:        "booking",
		}
		if err := tx.Create(&credit).Error; err != nil {
			return storeError("create loyalty credit", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", account.ID).
			Updates(map[string]interface{}{
				"loyalty_points":     gorm.Expr("loyalty_points + ?", points),
				"total_appointments": gorm.Expr("total_appointments + ?", 1),
			}).Error; err != nil {
			return storeError("credit account", err)
		}
		if err := tx.First(&account, "id = ?", account.ID).Error; err != nil {
			return storeError("reload account", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(appt.Service)
	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("user_id", account.ID.String()),
		zap.Int("points", points))

	if s.hub != nil {
		s.hub.Publish(AccountEvent{Type: EventLoyaltyCredited, UserID: account.ID, Account: &account, At: s.Now()})
	}
	if s.notifier != nil {
		// Confirmation is best effort; the booking already stands.
		s.notifier.Notify(ctx, &appt, models.ReminderConfirmation)
	}
	return &appt, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("load appointment", err)
	}
	return &appt, nil
}

// ListForAccount returns the bookings of userID, latest slot first.
func (s *AppointmentService) ListForAccount(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	appts := []models.Appointment{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").Order("time DESC").
		Find(&appts).Error
	if err != nil {
		return nil, storeError("list appointments", err)
	}
	return appts, nil
}

func (s *AppointmentService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	appts := []models.Appointment{}
	if err := s.db.WithContext(ctx).Order("date DESC").Order("time DESC").Find(&appts).Error; err != nil {
		return nil, storeError("list appointments", err)
	}
	return appts, nil
}

// SetStatus moves an appointment to status. Any transition is allowed; loyalty is
// not touched.
func (s *AppointmentService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Appointment, error) {
	return s.SetStatusAndPrice(ctx, id, status, nil)
}

// SetStatusAndPrice moves the appointment to status and, when price is given, records
// it in the same write.
func (s *AppointmentService) SetStatusAndPrice(ctx context.Context, id uuid.UUID, status string, price *float64) (*models.Appointment, error) {
	problems := fieldErrors{}
	if !models.IsKnownStatus(status) {
		problems.add("status", "unknown status")
	}
	if price != nil && *price < 0 {
		problems.add("price", "must not be negative")
	}
	if err := problems.err(); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"status": status}
	if price != nil {
		updates["price"] = *price
	}
	return s.update(ctx, id, updates)
}

// SetPrice records what was charged, which feeds the revenue figures.
func (s *AppointmentService) SetPrice(ctx context.Context, id uuid.UUID, price float64) (*models.Appointment, error) {
	if price < 0 {
		return nil, &ValidationError{Fields: map[string]string{"price": "must not be negative"}}
	}
	return s.update(ctx, id, map[string]interface{}{"price": price})
}

func (s *AppointmentService) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Appointment, error) {
	updates["updated_at"] = s.Now()
	res := s.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, storeError("update appointment", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Remove hard-deletes an appointment. Points already credited stay with the account.
func (s *AppointmentService) Remove(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Appointment{})
	if res.Error != nil {
		return storeError("delete appointment", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OpenSlots is SlotsFor(date) minus the times already held by active bookings.
func (s *AppointmentService) OpenSlots(ctx context.Context, date utils.Date) ([]string, error) {
	all := SlotsFor(time.Time(date))
	if len(all) == 0 {
		return all, nil
	}

	var taken []string
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("date = ? AND status <> ?", date, models.StatusCancelled).
		Pluck("time", &taken).Error
	if err != nil {
		return nil, storeError("load booked slots", err)
	}
	held := make(map[string]bool, len(taken))
	for _, t := range taken {
		held[t] = true
	}

	open := make([]string, 0, len(all))
	for _, slot := range all {
		if !held[slot] {
			open = append(open, slot)
		}
	}
	return open, nil
}
