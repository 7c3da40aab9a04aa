package controllers

import (
	"net/http"

	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionKey = "session"
	claimsKey  = "claims"
)

// AuthRequired resolves the bearer token or cookie into a Session.
func AuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, claims, err := auth.Authenticate(c.Request.Context(), utils.ExtractToken(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminOnly must run after AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch sessionFrom(c).(type) {
		case services.AdminSession:
			c.Next()
		case services.ClientSession:
			utils.RespondWithCode(c, http.StatusForbidden, "forbidden", "Acesso restrito à administração.")
		default:
			respondServiceError(c, services.ErrAccountRequired)
		}
	}
}

func sessionFrom(c *gin.Context) services.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(services.Session); ok {
			return session
		}
	}
	return nil
}

func claimsFrom(c *gin.Context) *jwt.RegisteredClaims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*jwt.RegisteredClaims); ok {
			return claims
		}
	}
	return nil
}

func currentUserID(c *gin.Context) uuid.UUID {
	if session := sessionFrom(c); session != nil {
		return session.Account().ID
	}
	return uuid.Nil
}

func isAdmin(c *gin.Context) bool {
	_, ok := sessionFrom(c).(services.AdminSession)
	return ok
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
