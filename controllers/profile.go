package controllers

import (
	"errors"
	"net/http"

	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 5 << 20

type ProfileController struct {
	profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// GetProfile returns the caller's profile. A missing record means the account has
// not finished onboarding.
func (pc *ProfileController) GetProfile(c *gin.Context) {
	user, err := pc.profiles.GetProfile(c.Request.Context(), currentUserID(c))
	if errors.Is(err, services.ErrNotFound) {
		utils.RespondWithCode(c, http.StatusNotFound, "needs_onboarding", "Complete seu cadastro para continuar.")
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var input services.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	user, err := pc.profiles.UpdateProfile(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UploadImage accepts a multipart "image" field.
func (pc *ProfileController) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)
	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Image file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read image")
		return
	}
	defer file.Close()

	user, err := pc.profiles.SetProfileImage(c.Request.Context(), currentUserID(c), file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profileImage": user.ProfileImage})
}

func (pc *ProfileController) Loyalty(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := pc.profiles.GetProfile(ctx, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	history, err := pc.profiles.LoyaltyHistory(ctx, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.SummarizeLoyalty(user, history))
}
