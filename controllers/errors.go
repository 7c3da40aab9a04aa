package controllers

import (
	"errors"
	"net/http"

	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Checked in order; the first match wins.
var errorTable = []errorMapping{
	{services.ErrInvalidEmail, http.StatusBadRequest, "invalid_email", "Email inválido."},
	{services.ErrWeakPassword, http.StatusBadRequest, "weak_password", "A senha deve ter pelo menos 6 caracteres."},
	{services.ErrValidation, http.StatusBadRequest, "validation_failed", "Verifique os campos informados."},
	{services.ErrAccountDisabled, http.StatusForbidden, "account_disabled", "Esta conta foi desativada."},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "Email ou senha incorretos."},
	{services.ErrEmailAlreadyInUse, http.StatusConflict, "email_in_use", "Este email já está em uso."},
	{services.ErrUserCancelled, http.StatusBadRequest, "user_cancelled", "Login com Google cancelado."},
	{services.ErrAccountRequired, http.StatusUnauthorized, "account_required", "Faça login para continuar."},
	{services.ErrNotFound, http.StatusNotFound, "not_found", "Registro não encontrado."},
	{services.ErrSlotTaken, http.StatusConflict, "slot_taken", "Este horário já está reservado."},
	{services.ErrRemoteUnavailable, http.StatusServiceUnavailable, "remote_unavailable", "Serviço indisponível. Tente novamente."},
}

// respondServiceError turns a service error into a JSON response. Unexpected errors
// and backend failures are reported to Sentry.
func respondServiceError(c *gin.Context, err error) {
	for _, m := range errorTable {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.status >= http.StatusInternalServerError {
			captureError(c, err)
		}
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.AbortWithStatusJSON(m.status, gin.H{"error": m.message, "code": m.code, "fields": verr.Fields})
			return
		}
		utils.RespondWithCode(c, m.status, m.code, m.message)
		return
	}
	captureError(c, err)
	utils.RespondWithCode(c, http.StatusInternalServerError, "internal", "Ocorreu um erro inesperado.")
}

func captureError(c *gin.Context, err error) {
	_ = c.Error(err)
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.Clone().CaptureException(err)
	}
}
