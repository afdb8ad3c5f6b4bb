package appcontext

import (
	"github.com/gespro/gespro-api/internal/auth"
	"github.com/gespro/gespro-api/internal/config"
	"github.com/gespro/gespro-api/internal/mailer"
	"github.com/gespro/gespro-api/internal/notification"
	"github.com/gespro/gespro-api/internal/repository"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Repository provides access to data storage operations.
	Repository *repository.Repository

	// Mailer handles email-sending functions.
	Mailer mailer.Client

	// JWTService manages JWT operations for authentication such as generate, verify, refresh token.
	JWTService auth.JWTInterface

	S3 *minio.Client

	// Notifier fans workflow events out to in-app notifications and the mail
	// queue. Nil when the API runs without RabbitMQ.
	Notifier *notification.Notifier
}
