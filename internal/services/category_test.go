package services

import (
	"context"
	"testing"

	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/types"
)

func TestCreateCategorySlugAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	category, err := env.categorySvc.CreateCategory(ctx, CreateCategoryInput{
		Name:        "Web Development",
		Description: "frontend and backend",
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.Slug != "web-development" {
		t.Fatalf("unexpected slug %q", category.Slug)
	}

	_, err = env.categorySvc.CreateCategory(ctx, CreateCategoryInput{Name: "Web Development"})
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409 on duplicate name, got %v", err)
	}

	// A different name colliding on the slug is also a duplicate.
	_, err = env.categorySvc.CreateCategory(ctx, CreateCategoryInput{Name: "web   development"})
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409 on slug collision, got %v", err)
	}
}

func TestDeleteCategoryInUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.createUser(t, types.RoleInstructor)

	category, err := env.categorySvc.CreateCategory(ctx, CreateCategoryInput{Name: "DevOps"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.CategoryID = &category.ID
	})

	err = env.categorySvc.DeleteCategory(ctx, category.ID)
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409 while category in use, got %v", err)
	}

	// An archived course still pins its category.
	if _, err := env.courseSvc.SoftDeleteCourse(ctxAs(instructor), course.ID); err != nil {
		t.Fatalf("soft delete course: %v", err)
	}
	err = env.categorySvc.DeleteCategory(ctx, category.ID)
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409 with archived course attached, got %v", err)
	}
}

func TestDeleteCategoryNotFound(t *testing.T) {
	env := newTestEnv(t)

	category, err := env.categorySvc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Orphan"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := env.categorySvc.DeleteCategory(context.Background(), category.ID); err != nil {
		t.Fatalf("delete unused category: %v", err)
	}
	err = env.categorySvc.DeleteCategory(context.Background(), category.ID)
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404 on repeat delete, got %v", err)
	}
}
