package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/types"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error)
	MaxPosition(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error)
	ShiftUpFrom(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, from int) error
	ShiftDownAfter(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, after int) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Lesson, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (lr *lessonRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return lr.db
}

func (lr *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	return lr.conn(tx).WithContext(ctx).Create(lesson).Error
}

func (lr *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	var lesson types.Lesson
	err := lr.conn(tx).WithContext(ctx).Where("id = ?", id).First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (lr *lessonRepo) MaxPosition(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error) {
	var max int
	if err := lr.conn(tx).WithContext(ctx).
		Model(&types.Lesson{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

// ShiftUpFrom opens a hole at `from` by incrementing every position >= from.
func (lr *lessonRepo) ShiftUpFrom(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, from int) error {
	return lr.conn(tx).WithContext(ctx).
		Model(&types.Lesson{}).
		Where("course_id = ? AND position >= ?", courseID, from).
		UpdateColumn("position", gorm.Expr("position + 1")).Error
}

// ShiftDownAfter closes the hole left at `after` by decrementing every
// position > after.
func (lr *lessonRepo) ShiftDownAfter(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, after int) error {
	return lr.conn(tx).WithContext(ctx).
		Model(&types.Lesson{}).
		Where("course_id = ? AND position > ?", courseID, after).
		UpdateColumn("position", gorm.Expr("position - 1")).Error
}

func (lr *lessonRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return lr.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Lesson{}).Error
}

func (lr *lessonRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Lesson, error) {
	var lessons []*types.Lesson
	if err := lr.conn(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position asc").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (lr *lessonRepo) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	if err := lr.conn(tx).WithContext(ctx).
		Model(&types.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
