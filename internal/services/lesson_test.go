package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/types"
)

func intPtr(v int) *int { return &v }

func assertPositions(t *testing.T, env *testEnv, courseID uuid.UUID, wantTitles []string) {
	t.Helper()
	lessons, err := env.lessons.ListByCourse(context.Background(), nil, courseID)
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}
	if len(lessons) != len(wantTitles) {
		t.Fatalf("expected %d lessons, got %d", len(wantTitles), len(lessons))
	}
	for i, l := range lessons {
		if l.Position != i+1 {
			t.Fatalf("lesson %d has position %d, want %d", i, l.Position, i+1)
		}
		if l.Title != wantTitles[i] {
			t.Fatalf("position %d holds %q, want %q", i+1, l.Title, wantTitles[i])
		}
	}
}

func TestCreateLessonAppends(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	course := env.createCourse(t, instructor, nil)
	ctx := ctxAs(instructor)

	for _, title := range []string{"one", "two", "three"} {
		if _, err := env.lessonSvc.CreateLesson(ctx, CreateLessonInput{
			CourseID:    course.ID,
			Title:       title,
			ContentType: types.ContentText,
			ContentText: "body",
		}); err != nil {
			t.Fatalf("create lesson %q: %v", title, err)
		}
	}
	assertPositions(t, env, course.ID, []string{"one", "two", "three"})
}

func TestCreateLessonInsertShiftsTail(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	course := env.createCourse(t, instructor, nil)
	ctx := ctxAs(instructor)

	for _, title := range []string{"one", "two", "three"} {
		if _, err := env.lessonSvc.CreateLesson(ctx, CreateLessonInput{
			CourseID:    course.ID,
			Title:       title,
			ContentType: types.ContentText,
			ContentText: "body",
		}); err != nil {
			t.Fatalf("create lesson %q: %v", title, err)
		}
	}

	inserted, err := env.lessonSvc.CreateLesson(ctx, CreateLessonInput{
		CourseID:    course.ID,
		Title:       "middle",
		ContentType: types.ContentText,
		ContentText: "body",
		Position:    intPtr(2),
	})
	if err != nil {
		t.Fatalf("insert lesson: %v", err)
	}
	if inserted.Position != 2 {
		t.Fatalf("inserted at position %d, want 2", inserted.Position)
	}
	assertPositions(t, env, course.ID, []string{"one", "middle", "two", "three"})
}

func TestCreateLessonClampsOversizedPosition(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	course := env.createCourse(t, instructor, nil)
	ctx := ctxAs(instructor)

	if _, err := env.lessonSvc.CreateLesson(ctx, CreateLessonInput{
		CourseID:    course.ID,
		Title:       "one",
		ContentType: types.ContentText,
		ContentText: "body",
	}); err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	lesson, err := env.lessonSvc.CreateLesson(ctx, CreateLessonInput{
		CourseID:    course.ID,
		Title:       "two",
		ContentType: types.ContentText,
		ContentText: "body",
		Position:    intPtr(99),
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	if lesson.Position != 2 {
		t.Fatalf("expected clamp to position 2, got %d", lesson.Position)
	}
	assertPositions(t, env, course.ID, []string{"one", "two"})
}

func TestCreateLessonContentValidation(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	course := env.createCourse(t, instructor, nil)
	ctx := ctxAs(instructor)

	_, err := env.lessonSvc.CreateLesson(ctx, CreateLessonInput{
		CourseID:    course.ID,
		Title:       "video without url",
		ContentType: types.ContentVideo,
	})
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409, got %v", err)
	}

	// A video lesson must not retain stray text content.
	lesson, err := env.lessonSvc.CreateLesson(ctx, CreateLessonInput{
		CourseID:    course.ID,
		Title:       "video",
		ContentType: types.ContentVideo,
		ContentURL:  "https://cdn.example.com/v.mp4",
		ContentText: "leftover",
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	if lesson.ContentText != "" {
		t.Fatalf("expected content_text cleared, got %q", lesson.ContentText)
	}
}

func TestCreateLessonDeniedForNonOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, types.RoleInstructor)
	other := env.createUser(t, types.RoleInstructor)
	course := env.createCourse(t, owner, nil)

	_, err := env.lessonSvc.CreateLesson(ctxAs(other), CreateLessonInput{
		CourseID:    course.ID,
		Title:       "nope",
		ContentType: types.ContentText,
		ContentText: "body",
	})
	if apierr.StatusOf(err) != 403 {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestDeleteLessonClosesGap(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	course := env.createCourse(t, instructor, nil)
	ctx := ctxAs(instructor)

	var lessons []*types.Lesson
	for _, title := range []string{"one", "two", "three"} {
		l, err := env.lessonSvc.CreateLesson(ctx, CreateLessonInput{
			CourseID:    course.ID,
			Title:       title,
			ContentType: types.ContentText,
			ContentText: "body",
		})
		if err != nil {
			t.Fatalf("create lesson %q: %v", title, err)
		}
		lessons = append(lessons, l)
	}

	if err := env.lessonSvc.DeleteLesson(ctx, lessons[1].ID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}
	assertPositions(t, env, course.ID, []string{"one", "three"})
}

func TestDeleteLessonRemovesCompletions(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	student := env.createUser(t, types.RoleStudent)
	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.Status = types.CoursePublished
	})
	lesson := env.createLesson(t, course.ID, 1, nil)

	if err := env.lessonSvc.CompleteLesson(ctxAs(student), lesson.ID); err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	if err := env.lessonSvc.DeleteLesson(ctxAs(instructor), lesson.ID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}
	done, err := env.completions.Exists(context.Background(), nil, student.ID, lesson.ID)
	if err != nil {
		t.Fatalf("check completion: %v", err)
	}
	if done {
		t.Fatal("expected completion to be removed with the lesson")
	}
}

func TestGetLessonRedactsPaidContent(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	student := env.createUser(t, types.RoleStudent)
	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.Status = types.CoursePublished
		c.IsPaid = true
		c.Price = 49.99
	})
	lesson := env.createLesson(t, course.ID, 1, func(l *types.Lesson) {
		l.Duration = intPtr(120)
	})

	view, err := env.lessonSvc.GetLesson(ctxAs(student), lesson.ID)
	if err != nil {
		t.Fatalf("get lesson: %v", err)
	}
	if view.ContentText != nil || view.ContentURL != nil || view.Duration != nil {
		t.Fatal("expected content fields redacted for unenrolled student")
	}
	if view.Title != lesson.Title || view.Position != 1 {
		t.Fatal("expected metadata to survive redaction")
	}
}

func TestGetLessonFullForEnrolledStudent(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	student := env.createUser(t, types.RoleStudent)
	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.Status = types.CoursePublished
		c.IsPaid = true
		c.Price = 49.99
	})
	lesson := env.createLesson(t, course.ID, 1, nil)

	if _, err := env.enrollmentSvc.Enroll(ctxAs(student), course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	view, err := env.lessonSvc.GetLesson(ctxAs(student), lesson.ID)
	if err != nil {
		t.Fatalf("get lesson: %v", err)
	}
	if view.ContentText == nil || *view.ContentText != "body" {
		t.Fatal("expected full content for enrolled student")
	}
}

func TestGetLessonPreviewBypassesPaywall(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	student := env.createUser(t, types.RoleStudent)
	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.Status = types.CoursePublished
		c.IsPaid = true
		c.Price = 10
	})
	lesson := env.createLesson(t, course.ID, 1, func(l *types.Lesson) {
		l.IsPreview = true
	})

	view, err := env.lessonSvc.GetLesson(ctxAs(student), lesson.ID)
	if err != nil {
		t.Fatalf("get lesson: %v", err)
	}
	if view.ContentText == nil {
		t.Fatal("expected preview lesson content without enrollment")
	}
}

func TestCompleteLessonRequiresAccess(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	student := env.createUser(t, types.RoleStudent)
	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.Status = types.CoursePublished
		c.IsPaid = true
		c.Price = 10
	})
	lesson := env.createLesson(t, course.ID, 1, nil)

	err := env.lessonSvc.CompleteLesson(ctxAs(student), lesson.ID)
	if apierr.StatusOf(err) != 403 {
		t.Fatalf("expected 403 for unenrolled student, got %v", err)
	}
}

func TestCompleteLessonTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, types.RoleInstructor)
	student := env.createUser(t, types.RoleStudent)
	course := env.createCourse(t, instructor, func(c *types.Course) {
		c.Status = types.CoursePublished
	})
	lesson := env.createLesson(t, course.ID, 1, nil)

	ctx := ctxAs(student)
	if err := env.lessonSvc.CompleteLesson(ctx, lesson.ID); err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	err := env.lessonSvc.CompleteLesson(ctx, lesson.ID)
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409 on repeat completion, got %v", err)
	}
}
