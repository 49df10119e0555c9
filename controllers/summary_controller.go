package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PDAC95/japp/models"
	"github.com/PDAC95/japp/services"
	"github.com/PDAC95/japp/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SummaryController struct {
	DB         *gorm.DB
	Summaries  *services.DailySummaryService
	Trends     *services.TrendService
	Comparison *services.ComparisonService
}

func NewSummaryController(
	db *gorm.DB,
	summaries *services.DailySummaryService,
	trends *services.TrendService,
	comparison *services.ComparisonService,
) *SummaryController {
	return &SummaryController{DB: db, Summaries: summaries, Trends: trends, Comparison: comparison}
}

func (h *SummaryController) GetDailySummary(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	dateStr := c.DefaultQuery("date", now.Format("2006-01-02"))
	date, err := time.ParseInLocation("2006-01-02", dateStr, now.Location())
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid date"})
		return
	}
	includeProjection := c.DefaultQuery("include_projection", "true") != "false"

	out, err := h.Summaries.GetDailySummary(c.Request.Context(), userID, date, includeProjection)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	services.EmitBalanceAlerts(userID, out.CalorieBalance)
	c.JSON(200, out)
}

func (h *SummaryController) GetWeeklyTrends(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	weekStart := startOfWeek(now)
	if v := c.Query("week_start"); v != "" {
		ws, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid week_start"})
			return
		}
		weekStart = startOfWeek(ws)
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	out, err := h.Trends.GetWeeklyTrends(c.Request.Context(), userID, weekStart, weekEnd)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, out)
}

func (h *SummaryController) CompareDays(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Dates []string `json:"dates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	dates := make([]time.Time, 0, len(body.Dates))
	for _, s := range body.Dates {
		d, err := time.ParseInLocation("2006-01-02", s, now.Location())
		if err != nil {
			c.JSON(400, gin.H{"error": fmt.Sprintf("invalid date %q", s)})
			return
		}
		dates = append(dates, d)
	}

	out, err := h.Comparison.CompareDays(c.Request.Context(), userID, dates)
	if err != nil {
		if errors.Is(err, services.ErrComparisonDayCount) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, out)
}

// SendWeeklyReport mails the caller their current week's trends.
func (h *SummaryController) SendWeeklyReport(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}

	now := time.Now()
	weekStart := startOfWeek(now)
	trends, err := h.Trends.GetWeeklyTrends(c.Request.Context(), userID, weekStart, weekStart.AddDate(0, 0, 6))
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	lines := []string{
		fmt.Sprintf("Average daily calories: %.0f (%s)", trends.DailyAverages.Calories, trends.Trend),
		fmt.Sprintf("Average protein: %.1f g", trends.DailyAverages.Protein),
		fmt.Sprintf("Calorie variance: %.1f%%", trends.Variance),
		fmt.Sprintf("Consistency score: %.2f", trends.ConsistencyScore),
		fmt.Sprintf("Days logged: %d", trends.DaysWithData),
	}
	if err := utils.SendWeeklyReportEmail(user.Email, user.FullName, lines); err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "report sent"})
}

// --- helpers ---

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}

func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	tt := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return tt.AddDate(0, 0, -(wd - 1)) // Monday
}
