package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/PDAC95/japp/services"
	"github.com/PDAC95/japp/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MealEntryController struct {
	Meals      *services.MealEntryService
	Extraction *services.ExtractionService
	Rek        *services.RekognitionService
}

func NewMealEntryController(
	meals *services.MealEntryService,
	extraction *services.ExtractionService,
	rek *services.RekognitionService,
) *MealEntryController {
	return &MealEntryController{Meals: meals, Extraction: extraction, Rek: rek}
}

func (h *MealEntryController) CreateManual(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req services.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, warnings, err := h.Meals.CreateManual(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry, "warnings": warnings})
}

type LogFromFoodInput struct {
	FoodID   uint    `json:"food_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
	Unit     string  `json:"unit"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	MealType string  `json:"meal_type"`
}

func (h *MealEntryController) CreateFromFood(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input LogFromFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := services.CreateEntryRequest{
		Date:     input.Date,
		Time:     input.Time,
		MealType: input.MealType,
	}
	entry, err := h.Meals.CreateFromFood(c.Request.Context(), userID, input.FoodID, input.Quantity, input.Unit, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

type LogFromTextInput struct {
	Text     string `json:"text" binding:"required"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	MealType string `json:"meal_type"`
}

// LogFromText runs the AI extraction pipeline on free text, validates
// the extracted foods, and logs everything that survived.
func (h *MealEntryController) LogFromText(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input LogFromTextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Extraction.ExtractFromText(c.Request.Context(), input.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	entries, warnings, err := h.logValidated(c, userID, result, "ai_text", input.Text, input.Date, input.Time, input.MealType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entries":    entries,
		"warnings":   append(result.Warnings, warnings...),
		"dropped":    result.Errors,
		"total_kcal": result.TotalCalories,
	})
}

type LogFromPhotoInput struct {
	Image    string `json:"image" binding:"required"` // data URI
	Date     string `json:"date"`
	Time     string `json:"time"`
	MealType string `json:"meal_type"`
}

// LogFromPhoto stores the photo, detects food labels with Rekognition,
// then pushes the labels through the same extraction pipeline as text.
func (h *MealEntryController) LogFromPhoto(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input LogFromPhotoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photoKey, err := utils.UploadMealPhoto(input.Image, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	labels, err := h.Rek.RecognizeLabels(c.Request.Context(), input.Image)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if len(labels) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no food detected in photo", "photo_key": photoKey})
		return
	}

	result, err := h.Extraction.ExtractFromLabels(c.Request.Context(), labels)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	entries, warnings, err := h.logValidated(c, userID, result, "ai_photo", photoKey, input.Date, input.Time, input.MealType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entries":   entries,
		"labels":    labels,
		"photo_key": photoKey,
		"warnings":  append(result.Warnings, warnings...),
		"dropped":   result.Errors,
	})
}

func (h *MealEntryController) logValidated(
	c *gin.Context, userID uint, result *services.ValidationResult,
	via, originalInput, date, timeStr, mealType string,
) ([]any, []string, error) {

	entries := make([]any, 0, len(result.Foods))
	var warnings []string
	for _, f := range result.Foods {
		req := services.CreateEntryRequest{
			Food: services.FoodRecord{
				Name:     f.Name,
				Quantity: ptr(f.Quantity),
				Unit:     f.Unit,
				Calories: ptr(f.Calories),
				ProteinG: ptr(f.ProteinG),
				CarbsG:   ptr(f.CarbsG),
				FatG:     ptr(f.FatG),
			},
			Date:          date,
			Time:          timeStr,
			MealType:      mealType,
			LoggedVia:     via,
			OriginalInput: originalInput,
		}
		entry, w, err := h.Meals.CreateManual(c.Request.Context(), userID, req)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
		warnings = append(warnings, w...)
	}
	return entries, warnings, nil
}

// ValidateOnly checks a batch of foods without persisting anything.
func (h *MealEntryController) ValidateOnly(c *gin.Context) {
	if _, ok := userIDFromCtx(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Foods       []services.FoodRecord `json:"foods" binding:"required"`
		AutoCorrect *bool                 `json:"auto_correct"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	autoCorrect := true
	if body.AutoCorrect != nil {
		autoCorrect = *body.AutoCorrect
	}
	c.JSON(http.StatusOK, services.ValidateMealData(body.Foods, autoCorrect))
}

func (h *MealEntryController) Update(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var req services.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, warnings, err := h.Meals.Update(c.Request.Context(), userID, uint(entryID), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry, "warnings": warnings})
}

func (h *MealEntryController) Delete(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	if err := h.Meals.Delete(c.Request.Context(), userID, uint(entryID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *MealEntryController) ListForDate(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	dateStr := c.DefaultQuery("date", now.Format("2006-01-02"))
	date, err := time.ParseInLocation("2006-01-02", dateStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	entries, err := h.Meals.ListForDate(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *MealEntryController) ListByRange(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	from, err := time.ParseInLocation("2006-01-02", c.Query("from"), now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.ParseInLocation("2006-01-02", c.Query("to"), now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	entries, err := h.Meals.ListByDateRange(c.Request.Context(), userID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func ptr(v float64) *float64 { return &v }
