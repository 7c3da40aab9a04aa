// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"inkstudio-backend/services"

	"github.com/gin-gonic/gin"
)

type ReportSummary struct {
	Revenue  services.RevenueReport  `json:"revenue"`
	Services []services.ServiceCount `json:"services"`
	Daily    []services.DailyCount   `json:"daily"`
}

// ReportController handles all reporting functions
type ReportController struct {
	appointments *services.AppointmentService
	Location     *time.Location
	Now          func() time.Time
}

func NewReportController(appointments *services.AppointmentService, loc *time.Location) *ReportController {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportController{appointments: appointments, Location: loc, Now: time.Now}
}

func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	appts, err := rc.appointments.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReportSummary{
		Revenue:  services.MonthlyRevenue(appts, rc.Now().In(rc.Location)),
		Services: services.ServiceBreakdown(appts),
		Daily:    services.DailySeries(appts),
	})
}
