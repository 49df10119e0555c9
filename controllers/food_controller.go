package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/PDAC95/japp/models"
	"github.com/PDAC95/japp/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FoodController struct {
	Foods *services.FoodService
}

func NewFoodController(foods *services.FoodService) *FoodController {
	return &FoodController{Foods: foods}
}

func (h *FoodController) Search(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(400, gin.H{"error": "query parameter `q` required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := h.Foods.Search(c.Request.Context(), userID, query, limit)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, results)
}

type CreateFoodInput struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category"`
	ServingSizeG float64 `json:"serving_size_g"`
	Calories     float64 `json:"calories_per_100g"`
	ProteinG     float64 `json:"protein_g_per_100g"`
	CarbsG       float64 `json:"carbs_g_per_100g"`
	FatG         float64 `json:"fat_g_per_100g"`
}

func (h *FoodController) CreateCustom(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input CreateFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	food := models.FoodItem{
		Name:         input.Name,
		Category:     input.Category,
		ServingSizeG: input.ServingSizeG,
		Calories:     input.Calories,
		ProteinG:     input.ProteinG,
		CarbsG:       input.CarbsG,
		FatG:         input.FatG,
	}
	created, err := h.Foods.CreateCustom(c.Request.Context(), userID, food)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, created)
}

func (h *FoodController) Preview(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	foodID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid food id"})
		return
	}
	quantity, err := strconv.ParseFloat(c.DefaultQuery("quantity", "100"), 64)
	if err != nil || quantity <= 0 {
		c.JSON(400, gin.H{"error": "invalid quantity"})
		return
	}
	unit := c.DefaultQuery("unit", "g")

	preview, err := h.Foods.Preview(c.Request.Context(), userID, uint(foodID), quantity, unit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, gin.H{"error": "food not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, preview)
}
