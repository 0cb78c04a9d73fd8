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

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error)
}

type enrollmentService struct {
	db          *gorm.DB
	log         *logger.Logger
	courses     repos.CourseRepo
	enrollments repos.EnrollmentRepo
	events      EventService
}

func NewEnrollmentService(
	db *gorm.DB,
	log *logger.Logger,
	courses repos.CourseRepo,
	enrollments repos.EnrollmentRepo,
	events EventService,
) EnrollmentService {
	return &enrollmentService{
		db:          db,
		log:         log.With("service", "EnrollmentService"),
		courses:     courses,
		enrollments: enrollments,
		events:      events,
	}
}

func (es *enrollmentService) Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}

	course, err := es.courses.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}
	if course.Status != types.CoursePublished {
		return nil, apierr.Conflict("course is not open for enrollment")
	}

	exists, err := es.enrollments.Exists(ctx, nil, rd.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierr.Conflict("already enrolled")
	}

	enrollment := &types.Enrollment{
		ID:        uuid.New(),
		StudentID: rd.UserID,
		CourseID:  courseID,
	}
	if err := es.enrollments.Create(ctx, nil, enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("already enrolled")
		}
		return nil, err
	}

	es.events.Record(ctx, nil, rd.UserID, "course.enrolled", map[string]any{
		"course_id": courseID.String(),
	})
	return enrollment, nil
}
