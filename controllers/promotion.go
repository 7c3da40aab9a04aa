package controllers

import (
	"net/http"

	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-gonic/gin"
)

type PromotionController struct {
	promotions *services.PromotionService
}

func NewPromotionController(promotions *services.PromotionService) *PromotionController {
	return &PromotionController{promotions: promotions}
}

// GetActivePromotions is the public list shown on the home page.
func (pc *PromotionController) GetActivePromotions(c *gin.Context) {
	promos, err := pc.promotions.ListActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

func (pc *PromotionController) GetPromotions(c *gin.Context) {
	promos, err := pc.promotions.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

func (pc *PromotionController) CreatePromotion(c *gin.Context) {
	var input services.PromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	promo, err := pc.promotions.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (pc *PromotionController) UpdatePromotion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var input services.PromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	promo, err := pc.promotions.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}

func (pc *PromotionController) DeletePromotion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := pc.promotions.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion deleted successfully"})
}
