package controllers

import (
	"net/http"

	"inkstudio-backend/models"
	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-gonic/gin"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"idToken"`
}

type AuthController struct {
	auth         *services.AuthService
	secureCookie bool
}

func NewAuthController(auth *services.AuthService, secureCookie bool) *AuthController {
	return &AuthController{auth: auth, secureCookie: secureCookie}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := ac.auth.Register(c.Request.Context(), services.Registration{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Phone:    input.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ac.respondWithToken(c, http.StatusCreated, user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := ac.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ac.respondWithToken(c, http.StatusOK, user)
}

// Google exchanges a Google ID token for a session. An empty token means the
// popup was closed.
func (ac *AuthController) Google(c *gin.Context) {
	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := ac.auth.LoginWithExternalProvider(c.Request.Context(), input.IDToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	ac.respondWithToken(c, http.StatusOK, user)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.auth.Logout(c.Request.Context(), claimsFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.SetCookie(utils.TokenCookieName, "", -1, "/", "", ac.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	session := sessionFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"user": session.Account(),
		"role": session.Role(),
	})
}

func (ac *AuthController) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, _, err := ac.auth.IssueToken(user)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	maxAge := int(ac.auth.TokenTTL().Seconds())
	c.SetCookie(
		utils.TokenCookieName,
		token,
		maxAge,
		"/",
		"",
		ac.secureCookie,
		true,
	)

	c.JSON(status, gin.H{
		"token": token,
		"user":  user,
		"role":  services.NewSession(user).Role(),
	})
}
