package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"inkstudio-backend/config"
	"inkstudio-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Monday, so the next days are bookable.
var fixedNow = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(path)), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, points int) *models.User {
	t.Helper()
	user := &models.User{
		Email:         email,
		Name:          "Cliente " + email,
		Phone:         "11987654321",
		Password:      "secret123",
		LoyaltyPoints: points,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAdmin(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	admin := &models.User{Email: email, Name: "Studio", Password: "secret123", IsAdmin: true}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func newLedger(db *gorm.DB, notifier *Notifier) *AppointmentService {
	svc := NewAppointmentService(db, NewSessionHub(), notifier, nil, time.UTC)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func draftFor(service, date, slot string) AppointmentDraft {
	return AppointmentDraft{
		ClientName: "Ana Souza",
		Phone:      "(11) 98765-4321",
		Service:    service,
		Date:       date,
		Time:       slot,
	}
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool { return &b }

type sentMessage struct {
	Phone string
	Body  string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *fakeMessenger) Send(_ context.Context, phone, body string) (Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{Phone: phone, Body: body})
	if m.err != nil {
		return Delivery{Channel: ChannelWhatsApp}, m.err
	}
	return Delivery{Channel: ChannelWhatsApp, Reference: "SM123"}, nil
}

func (m *fakeMessenger) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}
