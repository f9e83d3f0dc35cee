// Package service holds the outbound email side of the system: assessment
// reminders and sign-up confirmation mail, sent through Amazon SES.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"brightsteps/internal/models"
)

// ReminderService sends assessment reminder emails via Amazon SES
type ReminderService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewReminderService creates a new reminder service. With no from-address
// configured it comes up disabled and skips every send.
func NewReminderService(awsRegion, fromEmail, fromName string, debug bool) (*ReminderService, error) {
	if fromEmail == "" {
		log.Println("Reminder service disabled: SES_FROM_EMAIL not configured")
		return &ReminderService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Reminder service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &ReminderService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the reminder service is enabled
func (s *ReminderService) IsEnabled() bool {
	return s.enabled
}

// ReminderInterval returns the cadence for a reminder frequency
func ReminderInterval(frequency models.ReminderFrequency) time.Duration {
	switch frequency {
	case models.ReminderWeekly:
		return 7 * 24 * time.Hour
	case models.ReminderBiweekly:
		return 14 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// ReminderDue reports whether a reminder should be sent. A child with no
// completed assessment is always due.
func ReminderDue(frequency models.ReminderFrequency, lastCompleted *time.Time, now time.Time) bool {
	if lastCompleted == nil {
		return true
	}
	return now.Sub(*lastCompleted) >= ReminderInterval(frequency)
}

// SendAssessmentReminder emails a parent that their children are due for a
// new assessment
func (s *ReminderService) SendAssessmentReminder(ctx context.Context, toEmail, toName string, childNames []string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): assessment reminder to %s", toEmail)
		return nil
	}

	names := strings.Join(childNames, ", ")
	subject := "Time for a developmental check-in"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<p>Hi %s,</p>
	<p>It's time for a developmental check-in for: <strong>%s</strong>.</p>
	<p>Regular assessments help you track progress across communication, motor,
	problem-solving, and social skills, and catch anything worth discussing with
	your pediatrician early.</p>
	<p>Open the app to start a new assessment.</p>
	<p style="font-size: 12px; color: #666;">You can change how often you get
	these reminders in Settings.</p>
</body>
</html>
`, toName, names)

	textBody := fmt.Sprintf(`Hi %s,

It's time for a developmental check-in for: %s.

Regular assessments help you track progress across communication, motor,
problem-solving, and social skills.

Open the app to start a new assessment.

You can change how often you get these reminders in Settings.
`, toName, names)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendConfirmationEmail emails a new account its confirmation notice
func (s *ReminderService) SendConfirmationEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): confirmation to %s", toEmail)
		return nil
	}

	subject := "Confirm your BrightSteps account"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
	<p>Hi %s,</p>
	<p>Thanks for creating a BrightSteps account. Confirm your email address to
	start tracking your children's development.</p>
</body>
</html>
`, toName)

	textBody := fmt.Sprintf(`Hi %s,

Thanks for creating a BrightSteps account. Confirm your email address to
start tracking your children's development.
`, toName)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *ReminderService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
