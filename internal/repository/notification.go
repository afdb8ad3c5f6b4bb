package repository

import (
	"context"

	constant "github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type NotificationRepository struct {
	*baseRepository
}

func (nr NotificationRepository) CreateMany(ctx context.Context, tx *gorm.DB, notifications []*model.Notification) error {
	nr.logger.Debugf("Create %d notifications \n", len(notifications))

	if len(notifications) == 0 {
		return nil
	}

	db := nr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	silentDB := db.Session(&gorm.Session{
		Logger: db.Logger.LogMode(logger.Silent),
	})

	if err := silentDB.WithContext(ctx).Model(&model.Notification{}).Create(notifications).Error; err != nil {
		return err
	}

	return nil
}
