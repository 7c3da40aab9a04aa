package controllers

import (
	"net/http"
	"time"

	"inkstudio-backend/models"
	"inkstudio-backend/services"

	"github.com/gin-gonic/gin"
)

const recentAppointmentsLimit = 5

type DashboardOverview struct {
	Stats              services.AdminStats   `json:"stats"`
	Goal               services.GoalProgress `json:"goal"`
	Series             []services.DailyCount `json:"series"`
	RecentAppointments []models.Appointment  `json:"recentAppointments"`
}

// DashboardController serves the admin back-office views. Every figure is recomputed
// from the full appointment and account lists on each request.
type DashboardController struct {
	appointments *services.AppointmentService
	profiles     *services.ProfileService
	Location     *time.Location
	Now          func() time.Time
}

func NewDashboardController(appointments *services.AppointmentService, profiles *services.ProfileService, loc *time.Location) *DashboardController {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardController{appointments: appointments, profiles: profiles, Location: loc, Now: time.Now}
}

// now is the wall clock in the studio's zone, which decides the current month.
func (dc *DashboardController) now() time.Time {
	return dc.Now().In(dc.Location)
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	ctx := c.Request.Context()
	appts, err := dc.appointments.ListAll(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	accounts, err := dc.profiles.ListAccounts(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	revenue := services.MonthlyRevenue(appts, dc.now())
	recent := appts
	if len(recent) > recentAppointmentsLimit {
		recent = recent[:recentAppointmentsLimit]
	}

	c.JSON(http.StatusOK, DashboardOverview{
		Stats:              services.ComputeAdminStats(appts, accounts),
		Goal:               services.GoalFor(sessionFrom(c).Account(), revenue.CurrentMonth),
		Series:             services.DailySeries(appts),
		RecentAppointments: recent,
	})
}

func (dc *DashboardController) GetClients(c *gin.Context) {
	ctx := c.Request.Context()
	clients, err := dc.profiles.ListClients(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	appts, err := dc.appointments.ListAll(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ClientSummaries(clients, appts))
}
