package config

import (
	"fmt"
	"log"
	"os"

	"github.com/PDAC95/japp/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config carries everything read from the environment at startup.
// It is built once in main and handed to constructors; nothing else
// reads os.Getenv after boot.
type Config struct {
	Port      string
	JWTSecret string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	AWSRegion    string
	S3Bucket     string
	SESSender    string
	SNSFCMArn    string
	SNSAPNSArn   string

	ExtractionURL    string
	ExtractionAPIKey string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using environment as-is")
	}

	return &Config{
		Port:      getenv("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "japp"),
		DBPort:     getenv("DB_PORT", "5432"),

		AWSRegion:  getenv("AWS_REGION", "us-east-1"),
		S3Bucket:   os.Getenv("S3_BUCKET"),
		SESSender:  os.Getenv("SES_EMAIL"),
		SNSFCMArn:  os.Getenv("SNS_FCM_ARN"),
		SNSAPNSArn: os.Getenv("SNS_APNS_ARN"),

		ExtractionURL:    os.Getenv("EXTRACTION_API_URL"),
		ExtractionAPIKey: os.Getenv("EXTRACTION_API_KEY"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB(cfg *Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.FoodItem{},
		&models.MealEntry{},
		&models.NutritionGoal{},
		&models.Alert{},
		&models.UserDevice{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	return db
}
