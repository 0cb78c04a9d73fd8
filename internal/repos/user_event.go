package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/types"
)

type UserEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.UserEvent) error
}

type userEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserEventRepo(db *gorm.DB, baseLog *logger.Logger) UserEventRepo {
	return &userEventRepo{db: db, log: baseLog.With("repo", "UserEventRepo")}
}

func (uer *userEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.UserEvent) error {
	conn := tx
	if conn == nil {
		conn = uer.db
	}
	return conn.WithContext(ctx).Create(event).Error
}
