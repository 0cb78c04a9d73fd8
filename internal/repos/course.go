package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/types"
)

// CourseListParams narrows and pages the public course listing. Zero
// values mean "no filter".
type CourseListParams struct {
	Page         int
	Limit        int
	SortBy       string
	SortOrder    string
	SearchTerm   string
	Status       types.CourseStatus
	CategoryID   *uuid.UUID
	InstructorID *uuid.UUID
	IsPaid       *bool
}

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, course *types.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	GetByIDUnscoped(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	GetDetail(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error)
	Updates(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	List(ctx context.Context, tx *gorm.DB, params CourseListParams) ([]*types.Course, int64, error)
	CountByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (cr *courseRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *courseRepo) Create(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	return cr.conn(tx).WithContext(ctx).Create(course).Error
}

func (cr *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	var course types.Course
	err := cr.conn(tx).WithContext(ctx).Where("id = ?", id).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByIDUnscoped also returns tombstoned courses so mutation attempts on
// them can be told apart from genuinely missing rows.
func (cr *courseRepo) GetByIDUnscoped(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	var course types.Course
	err := cr.conn(tx).WithContext(ctx).Unscoped().Where("id = ?", id).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (cr *courseRepo) GetDetail(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	var course types.Course
	err := cr.conn(tx).WithContext(ctx).
		Preload("Category").
		Preload("Instructor").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("id = ?", id).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (cr *courseRepo) SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error) {
	var count int64
	if err := cr.conn(tx).WithContext(ctx).
		Model(&types.Course{}).
		Unscoped().
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *courseRepo) Updates(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	return cr.conn(tx).WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (cr *courseRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return cr.conn(tx).WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     types.CourseArchived,
			"deleted_at": at,
		}).Error
}

func (cr *courseRepo) List(ctx context.Context, tx *gorm.DB, params CourseListParams) ([]*types.Course, int64, error) {
	q := cr.conn(tx).WithContext(ctx).Model(&types.Course{})

	if params.SearchTerm != "" {
		q = q.Where("title LIKE ?", "%"+params.SearchTerm+"%")
	}
	if params.Status != "" {
		q = q.Where("status = ?", params.Status)
	}
	if params.CategoryID != nil {
		q = q.Where("category_id = ?", *params.CategoryID)
	}
	if params.InstructorID != nil {
		q = q.Where("instructor_id = ?", *params.InstructorID)
	}
	if params.IsPaid != nil {
		q = q.Where("is_paid = ?", *params.IsPaid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []*types.Course
	if err := q.
		Preload("Category").
		Preload("Instructor").
		Order(params.SortBy + " " + params.SortOrder).
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (cr *courseRepo) CountByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := cr.conn(tx).WithContext(ctx).
		Model(&types.Course{}).
		Unscoped().
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
