package routes

import (
	appconfig "github.com/PDAC95/japp/config"
	"github.com/PDAC95/japp/controllers"
	"github.com/PDAC95/japp/middlewares"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Controllers struct {
	Auth     *controllers.AuthController
	Meals    *controllers.MealEntryController
	Summary  *controllers.SummaryController
	Foods    *controllers.FoodController
	Goals    *controllers.GoalController
	Devices  *controllers.DeviceController
	Realtime *controllers.RealtimeController
}

func SetupRouter(cfg *appconfig.Config, db *gorm.DB, c Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	authed := middlewares.AuthMiddleware(cfg.JWTSecret, db)

	meals := r.Group("/meals")
	meals.Use(authed)
	{
		meals.POST("", c.Meals.CreateManual)
		meals.POST("/from-food", c.Meals.CreateFromFood)
		meals.POST("/from-text", c.Meals.LogFromText)
		meals.POST("/from-photo", c.Meals.LogFromPhoto)
		meals.POST("/validate", c.Meals.ValidateOnly)
		meals.GET("", c.Meals.ListForDate)
		meals.GET("/range", c.Meals.ListByRange)
		meals.PATCH("/:id", c.Meals.Update)
		meals.DELETE("/:id", c.Meals.Delete)
	}

	summary := r.Group("/summary")
	summary.Use(authed)
	{
		summary.GET("/daily", c.Summary.GetDailySummary)
		summary.GET("/weekly-trends", c.Summary.GetWeeklyTrends)
		summary.POST("/compare", c.Summary.CompareDays)
		summary.POST("/weekly-report/email", c.Summary.SendWeeklyReport)
	}

	foods := r.Group("/foods")
	foods.Use(authed)
	{
		foods.GET("/search", c.Foods.Search)
		foods.POST("", c.Foods.CreateCustom)
		foods.GET("/:id/preview", c.Foods.Preview)
	}

	goals := r.Group("/goals")
	goals.Use(authed)
	{
		goals.GET("", c.Goals.Get)
		goals.PUT("", c.Goals.Upsert)
	}

	devices := r.Group("/devices")
	devices.Use(authed)
	{
		devices.POST("", c.Devices.RegisterDevice)
	}

	alerts := r.Group("/alerts")
	alerts.Use(authed)
	{
		alerts.GET("", c.Devices.ListAlerts)
	}

	r.GET("/ws/alerts", authed, c.Realtime.AlertsWS)

	return r
}
