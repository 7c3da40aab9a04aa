// services/reminder_service.go
package services

import (
	"context"
	"time"

	"inkstudio-backend/models"
	"inkstudio-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultReminderSchedule = "*/15 * * * *"

// ReminderService sends day-before and hour-before WhatsApp reminders on a cron
// schedule. Each appointment gets each reminder at most once.
type ReminderService struct {
	db       *gorm.DB
	notifier *Notifier
	logger   *zap.Logger
	cron     *cron.Cron

	Location *time.Location
	Now      func() time.Time
}

func NewReminderService(db *gorm.DB, notifier *Notifier, logger *zap.Logger, loc *time.Location) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		db:       db,
		notifier: notifier,
		logger:   logger,
		cron:     cron.New(cron.WithLocation(loc)),
		Location: loc,
		Now:      time.Now,
	}
}

// StartScheduler registers the sweep under schedule and starts the cron runner.
func (s *ReminderService) StartScheduler(schedule string) error {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.SendDueReminders(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started", zap.String("schedule", schedule))
	return nil
}

// StopScheduler waits for a running sweep to finish.
func (s *ReminderService) StopScheduler() {
	<-s.cron.Stop().Done()
}

// SendDueReminders sends what is due right now and returns how many messages went out.
func (s *ReminderService) SendDueReminders(ctx context.Context) int {
	now := s.Now().In(s.Location)
	today := utils.Today(now, s.Location)
	tomorrow := utils.CalendarDate(time.Time(today).AddDate(0, 0, 1))

	sent := 0
	dayBefore, err := s.upcoming(ctx, "day_before_reminder_sent", tomorrow, tomorrow)
	if err != nil {
		s.logger.Error("failed to load day-before reminders", zap.Error(err))
	}
	for i := range dayBefore {
		if s.send(ctx, &dayBefore[i], models.ReminderDayBefore, "day_before_reminder_sent") {
			sent++
		}
	}

	hourBefore, err := s.upcoming(ctx, "hour_before_reminder_sent", today, tomorrow)
	if err != nil {
		s.logger.Error("failed to load hour-before reminders", zap.Error(err))
	}
	for i := range hourBefore {
		appt := &hourBefore[i]
		startsAt, err := appt.StartsAt(s.Location)
		if err != nil {
			continue
		}
		until := startsAt.Sub(now)
		if until <= 0 || until > time.Hour {
			continue
		}
		if s.send(ctx, appt, models.ReminderHourBefore, "hour_before_reminder_sent") {
			sent++
		}
	}

	if sent > 0 {
		s.logger.Info("reminders sent", zap.Int("count", sent))
	}
	return sent
}

func (s *ReminderService) upcoming(ctx context.Context, flag string, from, to utils.Date) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Where("status IN ?", []string{models.StatusPending, models.StatusConfirmed}).
		Where(flag+" = ?", false).
		Order("date ASC").Order("time ASC").
		Find(&appts).Error
	return appts, err
}

// send delivers one reminder and flags it. Failed attempts are flagged too; the
// failure is in reminder_logs and is not retried.
func (s *ReminderService) send(ctx context.Context, appt *models.Appointment, kind, flag string) bool {
	sendErr := s.notifier.Notify(ctx, appt, kind)
	if err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", appt.ID).
		UpdateColumn(flag, true).Error; err != nil {
		s.logger.Error("failed to flag reminder",
			zap.String("appointment_id", appt.ID.String()),
			zap.String("kind", kind),
			zap.Error(err))
	}
	return sendErr == nil
}
