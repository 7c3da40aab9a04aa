package controllers

import (
	"net/http"
	"strconv"

	"inkstudio-backend/models"
	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateStatusInput struct {
	Status string   `json:"status" binding:"required"`
	Price  *float64 `json:"price"`
}

type AppointmentController struct {
	appointments *services.AppointmentService
}

func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

// CreateAppointment books a slot for the caller. Only admins may set a price up front.
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var draft services.AppointmentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !isAdmin(c) {
		draft.Price = nil
	}

	appt, err := ac.appointments.Create(c.Request.Context(), currentUserID(c), draft)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (ac *AppointmentController) GetMyAppointments(c *gin.Context) {
	appts, err := ac.appointments.ListForAccount(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	appts, err := ac.appointments.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ac *AppointmentController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ac.appointments.SetStatusAndPrice(c.Request.Context(), id, input.Status, input.Price)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ac.appointments.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// GetWhatsAppLink returns the wa.me link for a message about the appointment.
func (ac *AppointmentController) GetWhatsAppLink(c *gin.Context) {
	link, ok := ac.whatsAppLink(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// GetQRCode renders the same link as a PNG so it can be scanned from the counter.
func (ac *AppointmentController) GetQRCode(c *gin.Context) {
	link, ok := ac.whatsAppLink(c)
	if !ok {
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "256"))
	if err != nil || size < 64 || size > 1024 {
		size = 256
	}
	png, err := services.QRCodePNG(link, size)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (ac *AppointmentController) whatsAppLink(c *gin.Context) (string, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return "", false
	}
	appt, err := ac.appointments.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return "", false
	}
	if !isAdmin(c) && appt.UserID != currentUserID(c) {
		respondServiceError(c, services.ErrNotFound)
		return "", false
	}

	kind := c.DefaultQuery("kind", models.ReminderConfirmation)
	message, err := services.MessageFor(kind, appt)
	if err != nil {
		respondServiceError(c, err)
		return "", false
	}
	return services.WhatsAppLink(appt.ContactPhone, message), true
}
