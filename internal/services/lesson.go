package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/ctxutil"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/repos"
	"github.com/learnhub/lms-backend/internal/types"
)

type CreateLessonInput struct {
	CourseID    uuid.UUID
	Title       string
	ContentType types.ContentType
	ContentURL  string
	ContentText string
	Duration    *int
	Position    *int
	IsPreview   bool
}

// LessonView is the read projection of a lesson. Content fields are nil
// when the caller has not paid for them.
type LessonView struct {
	ID          uuid.UUID         `json:"id"`
	CourseID    uuid.UUID         `json:"course_id"`
	Title       string            `json:"title"`
	ContentType types.ContentType `json:"content_type"`
	Position    int               `json:"position"`
	IsPreview   bool              `json:"is_preview"`
	ContentURL  *string           `json:"content_url,omitempty"`
	ContentText *string           `json:"content_text,omitempty"`
	Duration    *int              `json:"duration,omitempty"`
}

type LessonService interface {
	CreateLesson(ctx context.Context, in CreateLessonInput) (*types.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
	GetLesson(ctx context.Context, lessonID uuid.UUID) (*LessonView, error)
	CompleteLesson(ctx context.Context, lessonID uuid.UUID) error
}

type lessonService struct {
	db          *gorm.DB
	log         *logger.Logger
	courses     repos.CourseRepo
	lessons     repos.LessonRepo
	enrollments repos.EnrollmentRepo
	completions repos.LessonCompletionRepo
	events      EventService
}

func NewLessonService(
	db *gorm.DB,
	log *logger.Logger,
	courses repos.CourseRepo,
	lessons repos.LessonRepo,
	enrollments repos.EnrollmentRepo,
	completions repos.LessonCompletionRepo,
	events EventService,
) LessonService {
	return &lessonService{
		db:          db,
		log:         log.With("service", "LessonService"),
		courses:     courses,
		lessons:     lessons,
		enrollments: enrollments,
		completions: completions,
		events:      events,
	}
}

func (ls *lessonService) CreateLesson(ctx context.Context, in CreateLessonInput) (*types.Lesson, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}

	course, err := ls.courses.GetByIDUnscoped(ctx, nil, in.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}
	if course.DeletedAt.Valid {
		return nil, apierr.NotFound("course deleted")
	}
	if err := requireOwnerOrAdmin(rd, course.InstructorID); err != nil {
		return nil, err
	}

	if !in.ContentType.Valid() {
		return nil, apierr.Conflict("invalid content type")
	}
	// Exactly one content field is populated per content type.
	switch in.ContentType {
	case types.ContentVideo:
		if in.ContentURL == "" {
			return nil, apierr.Conflict("video lesson requires content_url")
		}
		in.ContentText = ""
	case types.ContentText:
		if in.ContentText == "" {
			return nil, apierr.Conflict("text lesson requires content_text")
		}
		in.ContentURL = ""
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return nil, apierr.Conflict("duration must be positive")
	}

	lesson := &types.Lesson{
		ID:          uuid.New(),
		CourseID:    in.CourseID,
		Title:       in.Title,
		ContentType: in.ContentType,
		ContentURL:  in.ContentURL,
		ContentText: in.ContentText,
		Duration:    in.Duration,
		IsPreview:   in.IsPreview,
	}

	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		max, err := ls.lessons.MaxPosition(ctx, tx, in.CourseID)
		if err != nil {
			return err
		}
		// Requested positions past the end clamp to an append; positions
		// inside the run push the tail up by one first.
		target := max + 1
		if in.Position != nil && *in.Position >= 1 && *in.Position <= max {
			target = *in.Position
			if err := ls.lessons.ShiftUpFrom(ctx, tx, in.CourseID, target); err != nil {
				return err
			}
		}
		lesson.Position = target
		return ls.lessons.Create(ctx, tx, lesson)
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (ls *lessonService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("missing caller identity")
	}

	lesson, err := ls.lessons.GetByID(ctx, nil, lessonID)
	if err != nil {
		return err
	}
	if lesson == nil {
		return apierr.NotFound("lesson not found")
	}
	course, err := ls.courses.GetByIDUnscoped(ctx, nil, lesson.CourseID)
	if err != nil {
		return err
	}
	if course == nil {
		return apierr.NotFound("course not found")
	}
	if err := requireOwnerOrAdmin(rd, course.InstructorID); err != nil {
		return err
	}

	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ls.completions.DeleteByLesson(ctx, tx, lessonID); err != nil {
			return err
		}
		if err := ls.lessons.Delete(ctx, tx, lessonID); err != nil {
			return err
		}
		return ls.lessons.ShiftDownAfter(ctx, tx, lesson.CourseID, lesson.Position)
	})
}

func (ls *lessonService) GetLesson(ctx context.Context, lessonID uuid.UUID) (*LessonView, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}

	lesson, err := ls.lessons.GetByID(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, apierr.NotFound("lesson not found")
	}
	course, err := ls.courses.GetByID(ctx, nil, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}

	view := &LessonView{
		ID:          lesson.ID,
		CourseID:    lesson.CourseID,
		Title:       lesson.Title,
		ContentType: lesson.ContentType,
		Position:    lesson.Position,
		IsPreview:   lesson.IsPreview,
	}

	full := rd.Role == types.RoleAdmin || course.InstructorID == rd.UserID ||
		!course.IsPaid || lesson.IsPreview
	if !full {
		enrolled, err := ls.enrollments.Exists(ctx, nil, rd.UserID, course.ID)
		if err != nil {
			return nil, err
		}
		full = enrolled
	}
	if full {
		if lesson.ContentURL != "" {
			view.ContentURL = &lesson.ContentURL
		}
		if lesson.ContentText != "" {
			view.ContentText = &lesson.ContentText
		}
		view.Duration = lesson.Duration
	}
	return view, nil
}

func (ls *lessonService) CompleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("missing caller identity")
	}

	lesson, err := ls.lessons.GetByID(ctx, nil, lessonID)
	if err != nil {
		return err
	}
	if lesson == nil {
		return apierr.NotFound("lesson not found")
	}
	course, err := ls.courses.GetByID(ctx, nil, lesson.CourseID)
	if err != nil {
		return err
	}
	if course == nil {
		return apierr.NotFound("course not found")
	}

	allowed := !course.IsPaid || lesson.IsPreview
	if !allowed {
		enrolled, err := ls.enrollments.Exists(ctx, nil, rd.UserID, course.ID)
		if err != nil {
			return err
		}
		allowed = enrolled
	}
	if !allowed {
		return apierr.Forbidden("enroll in the course to track progress")
	}

	done, err := ls.completions.Exists(ctx, nil, rd.UserID, lessonID)
	if err != nil {
		return err
	}
	if done {
		return apierr.Conflict("lesson already completed")
	}

	completion := &types.LessonCompletion{
		ID:        uuid.New(),
		StudentID: rd.UserID,
		LessonID:  lessonID,
	}
	if err := ls.completions.Create(ctx, nil, completion); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierr.Conflict("lesson already completed")
		}
		return err
	}

	ls.events.Record(ctx, nil, rd.UserID, "lesson.completed", map[string]any{
		"lesson_id": lessonID.String(),
		"course_id": course.ID.String(),
	})
	return nil
}
