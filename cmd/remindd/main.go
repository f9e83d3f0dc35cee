package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brightsteps/internal/config"
	"brightsteps/internal/database"
	"brightsteps/internal/remote"
	"brightsteps/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	once := flag.Bool("once", false, "Run a single reminder scan and exit")
	interval := flag.Duration("interval", 24*time.Hour, "Time between reminder scans")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	db, err := database.InitializeRemote(cfg.DatabaseType, cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reminders, err := service.NewReminderService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize reminder service: %v", err)
	}
	if !reminders.IsEnabled() {
		log.Println("WARNING: SES_FROM_EMAIL not set, reminders will be logged but not sent")
	}

	scanner := &reminderScanner{
		auth:        remote.NewAuthRepository(db, nil, nil, 0, false),
		children:    remote.NewChildRepository(db),
		settings:    remote.NewSettingsRepository(db),
		assessments: remote.NewAssessmentRepository(db),
		reminders:   reminders,
	}

	ctx := context.Background()

	if *once {
		if err := scanner.run(ctx); err != nil {
			log.Fatalf("Reminder scan failed: %v", err)
		}
		return
	}

	log.Printf("Reminder daemon started (interval: %s)", *interval)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if err := scanner.run(ctx); err != nil {
		log.Printf("Reminder scan failed: %v", err)
	}
	for {
		select {
		case <-ticker.C:
			if err := scanner.run(ctx); err != nil {
				log.Printf("Reminder scan failed: %v", err)
			}
		case <-quit:
			log.Println("Shutting down reminder daemon...")
			return
		}
	}
}

type reminderScanner struct {
	auth        *remote.AuthRepository
	children    *remote.ChildRepository
	settings    *remote.SettingsRepository
	assessments *remote.AssessmentRepository
	reminders   *service.ReminderService
}

// run sends one assessment reminder per user whose enabled frequency has
// elapsed for at least one child.
func (s *reminderScanner) run(ctx context.Context) error {
	start := time.Now()

	// Housekeeping piggybacks on the scan cadence.
	if err := s.auth.DeleteExpiredSessions(ctx); err != nil {
		log.Printf("Failed to delete expired sessions: %v", err)
	}

	users, err := s.settings.ListNotifiableUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notifiable users: %w", err)
	}

	sent := 0
	for userID, frequency := range users {
		user, err := s.auth.GetUserByID(ctx, userID)
		if err != nil {
			log.Printf("Skipping user %s: %v", userID, err)
			continue
		}
		if user == nil || !user.EmailConfirmed {
			continue
		}

		children, err := s.children.ListChildren(ctx, userID)
		if err != nil {
			log.Printf("Skipping user %s: %v", userID, err)
			continue
		}

		now := time.Now()
		var due []string
		for _, child := range children {
			last, err := s.assessments.LatestCompletionAt(ctx, child.ID)
			if err != nil {
				log.Printf("Skipping child %s: %v", child.ID, err)
				continue
			}
			if service.ReminderDue(frequency, last, now) {
				due = append(due, child.FirstName)
			}
		}
		if len(due) == 0 {
			continue
		}

		if err := s.reminders.SendAssessmentReminder(ctx, user.Email, user.DisplayName, due); err != nil {
			log.Printf("Failed to send reminder to %s: %v", user.Email, err)
			continue
		}
		sent++
	}

	log.Printf("Reminder scan complete: %d users checked, %d reminders sent in %s",
		len(users), sent, time.Since(start).Round(time.Millisecond))
	return nil
}
