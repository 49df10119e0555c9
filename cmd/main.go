package main

import (
	"log"

	"github.com/PDAC95/japp/config"
	"github.com/PDAC95/japp/controllers"
	"github.com/PDAC95/japp/routes"
	"github.com/PDAC95/japp/services"
	"github.com/PDAC95/japp/utils"
)

func main() {
	cfg := config.Load()
	db := config.InitDB(cfg)

	if err := utils.InitS3(cfg); err != nil {
		log.Fatalf("S3 init failed: %v", err)
	}
	if err := utils.InitMailer(cfg); err != nil {
		log.Fatalf("SES init failed: %v", err)
	}

	rt := services.NewRealtimeHub()
	push, err := services.NewPushService(db, cfg)
	if err != nil {
		log.Fatalf("SNS init failed: %v", err)
	}
	services.InitAlertDeps(db, rt, push)

	rek, err := services.NewRekognitionService(cfg)
	if err != nil {
		log.Fatalf("Rekognition init failed: %v", err)
	}

	foods := services.NewFoodService(db)
	meals := services.NewMealEntryService(db, foods)
	extraction := services.NewExtractionService(cfg)

	ctrl := routes.Controllers{
		Auth:     controllers.NewAuthController(services.NewAuthService(db, cfg)),
		Meals:    controllers.NewMealEntryController(meals, extraction, rek),
		Summary:  controllers.NewSummaryController(db, services.NewDailySummaryService(db), services.NewTrendService(db), services.NewComparisonService(db)),
		Foods:    controllers.NewFoodController(foods),
		Goals:    controllers.NewGoalController(services.NewGoalService(db)),
		Devices:  controllers.NewDeviceController(db, push),
		Realtime: controllers.NewRealtimeController(rt),
	}

	r := routes.SetupRouter(cfg, db, ctrl)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
