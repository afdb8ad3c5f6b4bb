package main

import (
	"github.com/gespro/gespro-api/internal/config"
	"github.com/gespro/gespro-api/internal/database"
	"github.com/gespro/gespro-api/internal/env"
	"github.com/gespro/gespro-api/internal/model"
	"go.uber.org/zap"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()
	cfg := config.GetConfig()

	logger.Infof("Database configuration: %+v", cfg.DB)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	db.Exec(`CREATE EXTENSION IF NOT EXISTS citext`)

	migrateErr := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectUser{},
		&model.Document{},
		&model.DocumentVersion{},
		&model.DocumentSigner{},
		&model.MasterListEntry{},
		&model.Notification{},
	)
	if migrateErr != nil {
		logger.Panic(migrateErr)
	}
}
