package services

import (
	"testing"
	"time"

	"inkstudio-backend/models"
	"inkstudio-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statAppt(client uuid.UUID, service, date, status string, price *float64) models.Appointment {
	d, _ := utils.ParseDate(date)
	return models.Appointment{
		ID:       uuid.New(),
		ClientID: client,
		UserID:   client,
		Service:  service,
		Date:     d,
		Time:     "10:00",
		Status:   status,
		Price:    price,
	}
}

func TestComputeAdminStats(t *testing.T) {
	ana := models.User{ID: uuid.New(), LoyaltyPoints: 300}
	bia := models.User{ID: uuid.New(), LoyaltyPoints: 50}
	admin := models.User{ID: uuid.New(), IsAdmin: true}

	appts := []models.Appointment{
		statAppt(ana.ID, models.ServiceCoverUp, "2025-03-01", models.StatusCompleted, floatPtr(400)),
		statAppt(ana.ID, models.ServiceMinimalist, "2025-03-04", models.StatusPending, floatPtr(150)),
		statAppt(bia.ID, models.ServiceMinimalist, "2025-02-20", models.StatusCompleted, nil),
		statAppt(bia.ID, models.ServiceCustom, "2025-03-05", models.StatusPending, nil),
		statAppt(bia.ID, models.ServiceCustom, "2025-02-10", models.StatusCancelled, floatPtr(900)),
	}

	stats := ComputeAdminStats(appts, []models.User{ana, bia, admin})
	assert.Equal(t, AdminStats{
		TotalAppointments:   5,
		PendingAppointments: 2,
		TotalClients:        2,
		TotalRevenue:        400,
		TotalPoints:         350,
	}, stats)

	assert.Equal(t, AdminStats{}, ComputeAdminStats(nil, nil))
}

func TestClientSummaries(t *testing.T) {
	ana := models.User{ID: uuid.New()}
	bia := models.User{ID: uuid.New()}
	appts := []models.Appointment{
		statAppt(ana.ID, models.ServiceCoverUp, "2025-03-01", models.StatusCompleted, floatPtr(400)),
		statAppt(ana.ID, models.ServiceMinimalist, "2025-03-09", models.StatusConfirmed, floatPtr(150)),
		statAppt(ana.ID, models.ServiceMinimalist, "2025-01-09", models.StatusCompleted, floatPtr(100)),
	}

	summaries := ClientSummaries([]models.User{ana, bia}, appts)
	require.Len(t, summaries, 2)

	assert.Equal(t, 3, summaries[0].TotalAppointments)
	assert.Equal(t, 500.0, summaries[0].TotalSpent)
	require.NotNil(t, summaries[0].LastAppointment)
	assert.Equal(t, "2025-03-09", *summaries[0].LastAppointment)

	assert.Zero(t, summaries[1].TotalAppointments)
	assert.Zero(t, summaries[1].TotalSpent)
	assert.Nil(t, summaries[1].LastAppointment)
}

func TestDailySeriesAndServiceBreakdown(t *testing.T) {
	id := uuid.New()
	appts := []models.Appointment{
		statAppt(id, models.ServiceMinimalist, "2025-03-04", models.StatusCompleted, floatPtr(150)),
		statAppt(id, models.ServiceCoverUp, "2025-03-02", models.StatusPending, nil),
		statAppt(id, models.ServiceMinimalist, "2025-03-04", models.StatusPending, floatPtr(150)),
	}

	assert.Equal(t, []DailyCount{
		{Date: "2025-03-02", Appointments: 1},
		{Date: "2025-03-04", Appointments: 2},
	}, DailySeries(appts))

	assert.Equal(t, []ServiceCount{
		{Service: models.ServiceMinimalist, Count: 2, Revenue: 150},
		{Service: models.ServiceCoverUp, Count: 1},
	}, ServiceBreakdown(appts))

	assert.Empty(t, DailySeries(nil))
}

func TestMonthlyRevenue(t *testing.T) {
	id := uuid.New()
	appts := []models.Appointment{
		statAppt(id, models.ServiceCustom, "2025-03-01", models.StatusCompleted, floatPtr(600)),
		statAppt(id, models.ServiceCustom, "2025-03-31", models.StatusCompleted, floatPtr(300)),
		statAppt(id, models.ServiceCustom, "2025-02-28", models.StatusCompleted, floatPtr(600)),
		statAppt(id, models.ServiceCustom, "2025-03-10", models.StatusConfirmed, floatPtr(999)),
		statAppt(id, models.ServiceCustom, "2025-01-15", models.StatusCompleted, floatPtr(999)),
		statAppt(id, models.ServiceCustom, "2025-04-01", models.StatusCompleted, floatPtr(999)),
	}

	report := MonthlyRevenue(appts, fixedNow)
	assert.Equal(t, 900.0, report.CurrentMonth)
	assert.Equal(t, 600.0, report.LastMonth)
	assert.InDelta(t, 50.0, report.Growth, 0.0001)

	january := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	report = MonthlyRevenue(appts, january)
	assert.Equal(t, 999.0, report.CurrentMonth)
	assert.Zero(t, report.LastMonth)
	assert.Equal(t, 100.0, report.Growth)
}

func TestCalculateGrowthPercentage(t *testing.T) {
	assert.Equal(t, 0.0, calculateGrowthPercentage(0, 0))
	assert.Equal(t, 100.0, calculateGrowthPercentage(10, 0))
	assert.Equal(t, -50.0, calculateGrowthPercentage(50, 100))
}

func TestGoalFor(t *testing.T) {
	admin := &models.User{IsAdmin: true, MonthlyGoal: 2000}
	assert.Equal(t, 25.0, GoalFor(admin, 500).Percent)
	assert.Equal(t, 100.0, GoalFor(admin, 5000).Percent)
	assert.Zero(t, GoalFor(&models.User{}, 500).Percent)
}
