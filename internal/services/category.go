package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/repos"
	"github.com/learnhub/lms-backend/internal/types"
)

type CreateCategoryInput struct {
	Name        string
	Description string
}

type CategoryService interface {
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*types.Category, error)
	ListCategories(ctx context.Context) ([]*types.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

type categoryService struct {
	log        *logger.Logger
	categories repos.CategoryRepo
	courses    repos.CourseRepo
}

func NewCategoryService(log *logger.Logger, categories repos.CategoryRepo, courses repos.CourseRepo) CategoryService {
	return &categoryService{
		log:        log.With("service", "CategoryService"),
		categories: categories,
		courses:    courses,
	}
}

func (cs *categoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*types.Category, error) {
	slug := normalizeSlug(in.Name)
	exists, err := cs.categories.NameOrSlugExists(ctx, nil, in.Name, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierr.Conflict("category already exists")
	}
	category := &types.Category{
		ID:          uuid.New(),
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
	}
	if err := cs.categories.Create(ctx, nil, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("category already exists")
		}
		return nil, err
	}
	return category, nil
}

func (cs *categoryService) ListCategories(ctx context.Context) ([]*types.Category, error) {
	return cs.categories.List(ctx, nil)
}

// DeleteCategory refuses removal while any course, including archived
// ones, still points at the category.
func (cs *categoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	category, err := cs.categories.GetByID(ctx, nil, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return apierr.NotFound("category not found")
	}
	inUse, err := cs.courses.CountByCategory(ctx, nil, categoryID)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return apierr.Conflict("category is in use by courses")
	}
	return cs.categories.Delete(ctx, nil, categoryID)
}
