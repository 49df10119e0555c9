package utils

import (
	"context"
	"fmt"
	"log"
	"strings"

	appconfig "github.com/PDAC95/japp/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var (
	sesClient *ses.Client
	sesSender string
)

func InitMailer(cfg *appconfig.Config) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return fmt.Errorf("AWS config load failed: %w", err)
	}
	sesClient = ses.NewFromConfig(awsCfg)
	sesSender = cfg.SESSender
	return nil
}

// generic SES sender
func sendEmail(to string, subject string, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(sesSender),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendWeeklyReportEmail mails a plain-text digest of the user's weekly
// averages and trends.
func SendWeeklyReportEmail(to, fullName string, lines []string) error {
	subject := "Your Weekly Nutrition Report"
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nHere is your nutrition summary for the past week:\n\n", fullName)
	for _, l := range lines {
		b.WriteString("  - " + l + "\n")
	}
	b.WriteString("\nKeep logging your meals to improve these numbers.\n")
	return sendEmail(to, subject, b.String())
}
