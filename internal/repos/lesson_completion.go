package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/types"
)

type LessonCompletionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, completion *types.LessonCompletion) error
	Exists(ctx context.Context, tx *gorm.DB, studentID, lessonID uuid.UUID) (bool, error)
	DeleteByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error
}

type lessonCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonCompletionRepo(db *gorm.DB, baseLog *logger.Logger) LessonCompletionRepo {
	return &lessonCompletionRepo{db: db, log: baseLog.With("repo", "LessonCompletionRepo")}
}

func (lcr *lessonCompletionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return lcr.db
}

func (lcr *lessonCompletionRepo) Create(ctx context.Context, tx *gorm.DB, completion *types.LessonCompletion) error {
	return lcr.conn(tx).WithContext(ctx).Create(completion).Error
}

func (lcr *lessonCompletionRepo) Exists(ctx context.Context, tx *gorm.DB, studentID, lessonID uuid.UUID) (bool, error) {
	var count int64
	if err := lcr.conn(tx).WithContext(ctx).
		Model(&types.LessonCompletion{}).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (lcr *lessonCompletionRepo) DeleteByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error {
	return lcr.conn(tx).WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Delete(&types.LessonCompletion{}).Error
}
