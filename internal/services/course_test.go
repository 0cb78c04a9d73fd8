package services

import (
	"testing"

	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/types"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestCreateCoursePricingInvariant(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	ctx := ctxAs(instructor)

	_, err := env.courseSvc.CreateCourse(ctx, CreateCourseInput{
		Title:  "Paid without price",
		IsPaid: boolPtr(true),
	})
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409 for paid course without price, got %v", err)
	}

	_, err = env.courseSvc.CreateCourse(ctx, CreateCourseInput{
		Title: "Free with price",
		Price: floatPtr(20),
	})
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409 for free course with price, got %v", err)
	}

	course, err := env.courseSvc.CreateCourse(ctx, CreateCourseInput{
		Title:  "Paid course",
		IsPaid: boolPtr(true),
		Price:  floatPtr(49.99),
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if !course.IsPaid || course.Price != 49.99 {
		t.Fatalf("unexpected pricing: paid=%v price=%v", course.IsPaid, course.Price)
	}
	if course.Status != types.CourseDraft {
		t.Fatalf("new course must start as draft, got %s", course.Status)
	}
}

func TestCreateCourseSlugCollision(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	ctx := ctxAs(instructor)

	first, err := env.courseSvc.CreateCourse(ctx, CreateCourseInput{Title: "Go Basics"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	second, err := env.courseSvc.CreateCourse(ctx, CreateCourseInput{Title: "Go Basics"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if first.Slug != "go-basics" {
		t.Fatalf("unexpected slug %q", first.Slug)
	}
	if second.Slug != "go-basics-1" {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestCreateCourseRejectsNonInstructor(t *testing.T) {
	env := newTestEnv(t)
	student := env.createUser(t, types.RoleStudent)

	_, err := env.courseSvc.CreateCourse(ctxAs(student), CreateCourseInput{Title: "Nope"})
	if apierr.StatusOf(err) != 403 {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestUpdateCoursePricingReconciliation(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	ctx := ctxAs(instructor)

	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.IsPaid = true
		c.Price = 30
	})

	// Flipping to free while the stored price is non-zero must fail
	// unless the price is zeroed in the same request.
	_, err := env.courseSvc.UpdateCourse(ctx, course.ID, UpdateCourseInput{
		IsPaid: boolPtr(false),
	})
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409, got %v", err)
	}

	updated, err := env.courseSvc.UpdateCourse(ctx, course.ID, UpdateCourseInput{
		IsPaid: boolPtr(false),
		Price:  floatPtr(0),
	})
	if err != nil {
		t.Fatalf("update course: %v", err)
	}
	if updated.IsPaid || updated.Price != 0 {
		t.Fatalf("unexpected pricing after update: paid=%v price=%v", updated.IsPaid, updated.Price)
	}

	// Now the course is free; a bare price change must be rejected.
	_, err = env.courseSvc.UpdateCourse(ctx, course.ID, UpdateCourseInput{
		Price: floatPtr(15),
	})
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestUpdateCourseTitleRegeneratesSlug(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	ctx := ctxAs(instructor)

	course, err := env.courseSvc.CreateCourse(ctx, CreateCourseInput{Title: "Old Title"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	updated, err := env.courseSvc.UpdateCourse(ctx, course.ID, UpdateCourseInput{
		Title: strPtr("New Title"),
	})
	if err != nil {
		t.Fatalf("update course: %v", err)
	}
	if updated.Slug != "new-title" {
		t.Fatalf("expected slug regenerated, got %q", updated.Slug)
	}
}

func TestUpdateCourseOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, types.RoleInstructor)
	other := env.createUser(t, types.RoleInstructor)
	admin := env.createUser(t, types.RoleAdmin)
	course := env.createCourse(t, owner, nil)

	_, err := env.courseSvc.UpdateCourse(ctxAs(other), course.ID, UpdateCourseInput{
		Description: strPtr("hijack"),
	})
	if apierr.StatusOf(err) != 403 {
		t.Fatalf("expected 403 for non-owner, got %v", err)
	}

	if _, err := env.courseSvc.UpdateCourse(ctxAs(admin), course.ID, UpdateCourseInput{
		Description: strPtr("moderated"),
	}); err != nil {
		t.Fatalf("admin update should pass: %v", err)
	}
}

func TestSoftDeleteCourse(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	ctx := ctxAs(instructor)
	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.Status = types.CoursePublished
	})

	deleted, err := env.courseSvc.SoftDeleteCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if deleted.Status != types.CourseArchived || !deleted.DeletedAt.Valid {
		t.Fatalf("expected archived tombstone, got status=%s deleted=%v", deleted.Status, deleted.DeletedAt.Valid)
	}

	// Tombstoned courses reject every further mutation.
	_, err = env.courseSvc.UpdateCourse(ctx, course.ID, UpdateCourseInput{Description: strPtr("x")})
	if apierr.StatusOf(err) != 403 {
		t.Fatalf("expected 403 updating deleted course, got %v", err)
	}
	_, err = env.courseSvc.SoftDeleteCourse(ctx, course.ID)
	if apierr.StatusOf(err) != 403 {
		t.Fatalf("expected 403 deleting twice, got %v", err)
	}
	_, err = env.courseSvc.PublishCourse(ctx, course.ID)
	if apierr.StatusOf(err) != 403 {
		t.Fatalf("expected 403 publishing deleted course, got %v", err)
	}

	// And it disappears from public reads.
	if _, err := env.courseSvc.GetCourse(ctx, course.ID); apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404 reading deleted course, got %v", err)
	}
}

func TestPublishCourseRequiresLessons(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	ctx := ctxAs(instructor)
	course := env.createCourse(t, instructor, nil)

	_, err := env.courseSvc.PublishCourse(ctx, course.ID)
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409 publishing empty course, got %v", err)
	}

	env.createLesson(t, course.ID, 1, nil)
	published, err := env.courseSvc.PublishCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != types.CoursePublished {
		t.Fatalf("expected published status, got %s", published.Status)
	}
}

func TestListCoursesFiltersAndPaginates(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)

	for i := 0; i < 3; i++ {
		env.createCourse(t, instructor, func(c *types.Course) {
			c.Status = types.CoursePublished
			c.IsPaid = true
			c.Price = 10
		})
	}
	env.createCourse(t, instructor, nil) // draft, free

	isPaid := true
	courses, params, total, err := env.courseSvc.ListCourses(ctxAs(instructor), ListCoursesInput{
		Status: "PUBLISHED",
		IsPaid: &isPaid,
		Limit:  2,
	})
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses on page, got %d", len(courses))
	}
	if params.Page != 1 || params.Limit != 2 {
		t.Fatalf("unexpected params %+v", params)
	}
}

func TestListCoursesNormalizesParams(t *testing.T) {
	t.Parallel()

	params := normalizeListParams(ListCoursesInput{
		Page:      -4,
		Limit:     10_000,
		SortBy:    "password",
		SortOrder: "DROP TABLE",
	})
	if params.Page != 1 {
		t.Fatalf("expected page 1, got %d", params.Page)
	}
	if params.Limit != maxPageSize {
		t.Fatalf("expected limit clamped to %d, got %d", maxPageSize, params.Limit)
	}
	if params.SortBy != "created_at" || params.SortOrder != "desc" {
		t.Fatalf("expected safe sort defaults, got %s %s", params.SortBy, params.SortOrder)
	}
}

func TestListCourseLessonsHidesUnpublished(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	student := env.createUser(t, types.RoleStudent)
	course := env.createCourse(t, instructor, nil)
	env.createLesson(t, course.ID, 1, nil)

	_, err := env.courseSvc.ListCourseLessons(ctxAs(student), course.ID)
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404 for draft course, got %v", err)
	}

	// The owner still sees the outline before publishing.
	lessons, err := env.courseSvc.ListCourseLessons(ctxAs(instructor), course.ID)
	if err != nil {
		t.Fatalf("owner listing: %v", err)
	}
	if len(lessons) != 1 {
		t.Fatalf("expected 1 lesson, got %d", len(lessons))
	}
}
