package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gespro/gespro-api/internal/config"
	"github.com/gespro/gespro-api/internal/database"
	"github.com/gespro/gespro-api/internal/env"
	"github.com/gespro/gespro-api/internal/mailer"
	"github.com/gespro/gespro-api/internal/queue"
	"github.com/gespro/gespro-api/internal/repository"
	"github.com/gespro/gespro-api/internal/util"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

const (
	MAX_WORKER = 3
)

func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	mail := mailer.NewGmailMailer(cfg.Mail.GMAIL.USERNAME, cfg.Mail.GMAIL.PASSWORD, logger)
	repo := repository.NewRepository(db, logger, nil)
	app := queue.NotificationConsumerContext{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		Mailer:     mail,
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Panic("Error connecting to RabbitMQ: ", err)
	}
	logger.Info("RabbitMQ connected \n")
	defer func() {
		if err := rabbitMQ.Close(); err != nil {
			logger.Errorf("Failed to close RabbitMQ connection: %v", err)
		}
	}()

	ctx := context.Background()

	if err := rabbitMQ.ConsumeNotificationJob(ctx, notificationJobHandler, MAX_WORKER, &app); err != nil {
		logger.Fatalf("Failed to consume notification job: %v", err)
	}

	logger.Infof("Started consuming notification job")

	// Block forever to keep the consumer running
	select {}
}

func notificationJobHandler(ctx context.Context, jobPayload queue.NotificationJobPayload, app *queue.NotificationConsumerContext) (bool, error) {
	switch jobPayload.TemplateFile {
	case mailer.TemplateNotification:
		var data mailer.NotificationData
		if err := json.Unmarshal(jobPayload.Data, &data); err != nil {
			return false, fmt.Errorf("failed to unmarshal NotificationData: %w", err)
		}

		status, err := app.Mailer.Send(jobPayload.TemplateFile, jobPayload.ToEmail, data)
		if err != nil {
			return true, fmt.Errorf("failed to send email: %w", err)
		}

		if status != http.StatusOK && status != http.StatusAccepted {
			return true, fmt.Errorf("email sending failed with status: %d", status)
		}

		return true, nil
	default:
		return false, fmt.Errorf("unsupported template: %s", jobPayload.TemplateFile)
	}
}
