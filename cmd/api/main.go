package main

import (
	appcontext "github.com/gespro/gespro-api/internal/app_context"
	"github.com/gespro/gespro-api/internal/auth"
	"github.com/gespro/gespro-api/internal/config"
	"github.com/gespro/gespro-api/internal/controller"
	"github.com/gespro/gespro-api/internal/database"
	"github.com/gespro/gespro-api/internal/env"
	filestorage "github.com/gespro/gespro-api/internal/file_storage"
	"github.com/gespro/gespro-api/internal/mailer"
	"github.com/gespro/gespro-api/internal/middleware"
	"github.com/gespro/gespro-api/internal/notification"
	"github.com/gespro/gespro-api/internal/queue"
	ratelimiter "github.com/gespro/gespro-api/internal/rate_limiter"
	"github.com/gespro/gespro-api/internal/repository"
	"github.com/gespro/gespro-api/internal/route"
	"github.com/gespro/gespro-api/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	logger.Debugf("Configuration: %+v \n", cfg)

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

	s3, err := filestorage.NewMinioClient(&cfg.Minio)
	if err != nil {
		logger.Error("Error connecting to minio")
		logger.Panic(err)
	}

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("strNotEmpty", util.StrNotEmpty); err != nil {
			return
		}
		if err = v.RegisterValidation("cmin", util.CustomMin); err != nil {
			return
		}
		if err = v.RegisterValidation("cmax", util.CustomMax); err != nil {
			return
		}
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	mail := mailer.NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger, s3)

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		// Mail fan-out degrades to in-app notifications only.
		logger.Errorf("Error connecting to RabbitMQ, mail jobs disabled: %v", err)
		rabbitMQ = nil
	} else {
		defer func() {
			if err := rabbitMQ.Close(); err != nil {
				logger.Errorf("Failed to close RabbitMQ connection: %v", err)
			}
		}()
	}

	notifier := notification.NewNotifier(logger, repo, rabbitMQ, cfg.AppURL)

	app := appcontext.Application{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		Mailer:     mail,
		JWTService: jwtService,
		S3:         s3,
		Notifier:   notifier,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.ENV == "production" {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	_controller := controller.NewController(&app)

	r.GET("/", _controller.Index.Index)

	rApi := r.Group("/api")

	route.V1_Projects(rApi, _controller.Project, _middleware)
	route.V1_Documents(rApi, _controller.Document, _middleware)
	route.V1_Files(rApi, _controller.File, _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
