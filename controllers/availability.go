package controllers

import (
	"net/http"
	"time"

	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-gonic/gin"
)

type AvailabilityController struct {
	appointments *services.AppointmentService
}

func NewAvailabilityController(appointments *services.AppointmentService) *AvailabilityController {
	return &AvailabilityController{appointments: appointments}
}

// GetAvailability lists the business-hour slots for ?date=YYYY-MM-DD and which of
// them are still free.
func (ac *AvailabilityController) GetAvailability(c *gin.Context) {
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	open, err := ac.appointments.OpenSlots(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  utils.FormatDate(date),
		"slots": services.SlotsFor(time.Time(date)),
		"open":  open,
	})
}
