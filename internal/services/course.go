package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/ctxutil"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/repos"
	"github.com/learnhub/lms-backend/internal/types"
)

type CreateCourseInput struct {
	Title         string
	Description   string
	IsPaid        *bool
	Price         *float64
	CategoryID    *uuid.UUID
	Thumbnail     []byte
	ThumbnailName string
}

type UpdateCourseInput struct {
	Title         *string
	Description   *string
	IsPaid        *bool
	Price         *float64
	CategoryID    *uuid.UUID
	Thumbnail     []byte
	ThumbnailName string
}

type ListCoursesInput struct {
	Page         int
	Limit        int
	SortBy       string
	SortOrder    string
	SearchTerm   string
	Status       string
	CategoryID   *uuid.UUID
	InstructorID *uuid.UUID
	IsPaid       *bool
}

// LessonSummary is the listing projection: no content payload, so the
// course outline is safe to show to any caller allowed to see it.
type LessonSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Duration  *int      `json:"duration,omitempty"`
	IsPreview bool      `json:"is_preview"`
}

type CourseService interface {
	CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, in UpdateCourseInput) (*types.Course, error)
	SoftDeleteCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	PublishCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	ListCourses(ctx context.Context, in ListCoursesInput) ([]*types.Course, repos.CourseListParams, int64, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	ListCourseLessons(ctx context.Context, courseID uuid.UUID) ([]LessonSummary, error)
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	users      repos.UserRepo
	categories repos.CategoryRepo
	courses    repos.CourseRepo
	lessons    repos.LessonRepo
	uploader   UploadService
	events     EventService
}

func NewCourseService(
	db *gorm.DB,
	log *logger.Logger,
	users repos.UserRepo,
	categories repos.CategoryRepo,
	courses repos.CourseRepo,
	lessons repos.LessonRepo,
	uploader UploadService,
	events EventService,
) CourseService {
	return &courseService{
		db:         db,
		log:        log.With("service", "CourseService"),
		users:      users,
		categories: categories,
		courses:    courses,
		lessons:    lessons,
		uploader:   uploader,
		events:     events,
	}
}

func (cs *courseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}

	isPaid := in.IsPaid != nil && *in.IsPaid
	price := 0.0
	if isPaid {
		if in.Price != nil {
			price = *in.Price
		}
		if price <= 0 {
			return nil, apierr.Conflict("paid course must have price > 0")
		}
	} else if in.Price != nil && *in.Price != 0 {
		return nil, apierr.Conflict("free course must have price = 0")
	}

	if in.CategoryID != nil {
		category, err := cs.categories.GetByID(ctx, nil, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apierr.NotFound("category not found")
		}
	}

	thumbnailURL := ""
	if len(in.Thumbnail) > 0 {
		url, err := cs.uploadThumbnail(ctx, in.Thumbnail, in.ThumbnailName)
		if err != nil {
			return nil, err
		}
		thumbnailURL = url
	}

	var course *types.Course
	create := func(slug string) error {
		return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			instructor, err := cs.users.GetByID(ctx, tx, rd.UserID)
			if err != nil {
				return err
			}
			if instructor == nil || instructor.Role != types.RoleInstructor {
				return apierr.Forbidden("only instructors can create courses")
			}
			course = &types.Course{
				ID:           uuid.New(),
				Title:        in.Title,
				Slug:         slug,
				Description:  in.Description,
				Price:        price,
				IsPaid:       isPaid,
				ThumbnailURL: thumbnailURL,
				Status:       types.CourseDraft,
				InstructorID: instructor.ID,
				CategoryID:   in.CategoryID,
			}
			return cs.courses.Create(ctx, tx, course)
		})
	}

	slug, err := generateUniqueSlug(ctx, nil, cs.courses, in.Title)
	if err != nil {
		return nil, err
	}
	if err := create(slug); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Lost the slug race; regenerate against the committed state and
		// retry exactly once.
		slug, err = generateUniqueSlug(ctx, nil, cs.courses, in.Title)
		if err != nil {
			return nil, err
		}
		if err := create(slug); err != nil {
			return nil, err
		}
	}
	return course, nil
}

func (cs *courseService) UpdateCourse(ctx context.Context, courseID uuid.UUID, in UpdateCourseInput) (*types.Course, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}

	course, err := cs.courses.GetByIDUnscoped(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}
	if course.DeletedAt.Valid {
		return nil, apierr.Forbidden("course is deleted")
	}
	if err := requireOwnerOrAdmin(rd, course.InstructorID); err != nil {
		return nil, err
	}

	if err := reconcilePricing(course, in.IsPaid, in.Price); err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		category, err := cs.categories.GetByID(ctx, nil, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apierr.NotFound("category not found")
		}
	}

	fields := map[string]any{}
	if in.Title != nil && *in.Title != course.Title {
		slug, err := generateUniqueSlug(ctx, nil, cs.courses, *in.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = *in.Title
		fields["slug"] = slug
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.IsPaid != nil {
		fields["is_paid"] = *in.IsPaid
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}
	if len(in.Thumbnail) > 0 {
		url, err := cs.uploadThumbnail(ctx, in.Thumbnail, in.ThumbnailName)
		if err != nil {
			return nil, err
		}
		fields["thumbnail_url"] = url
	}

	if len(fields) > 0 {
		if err := cs.courses.Updates(ctx, nil, courseID, fields); err != nil {
			return nil, err
		}
	}
	return cs.courses.GetByID(ctx, nil, courseID)
}

// reconcilePricing applies the paid/price invariant against the stored
// course when the caller supplies only part of the pair.
func reconcilePricing(course *types.Course, isPaid *bool, price *float64) error {
	if isPaid != nil {
		effective := course.Price
		if price != nil {
			effective = *price
		}
		if !*isPaid && effective != 0 {
			return apierr.Conflict("cannot set free course with non-zero price")
		}
		if *isPaid && effective <= 0 {
			return apierr.Conflict("paid course must have price > 0")
		}
		return nil
	}
	if price != nil {
		if !course.IsPaid && *price != 0 {
			return apierr.Conflict("cannot set price for a free course")
		}
		if course.IsPaid && *price <= 0 {
			return apierr.Conflict("paid course must have price > 0")
		}
	}
	return nil
}

func (cs *courseService) SoftDeleteCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}

	course, err := cs.courses.GetByIDUnscoped(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}
	if course.DeletedAt.Valid {
		return nil, apierr.Forbidden("course is deleted")
	}
	if err := requireOwnerOrAdmin(rd, course.InstructorID); err != nil {
		return nil, err
	}

	if err := cs.courses.SoftDelete(ctx, nil, courseID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return cs.courses.GetByIDUnscoped(ctx, nil, courseID)
}

func (cs *courseService) PublishCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}

	course, err := cs.courses.GetByIDUnscoped(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}
	if course.DeletedAt.Valid {
		return nil, apierr.Forbidden("course is deleted")
	}
	if err := requireOwnerOrAdmin(rd, course.InstructorID); err != nil {
		return nil, err
	}

	lessonCount, err := cs.lessons.CountByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if lessonCount == 0 {
		return nil, apierr.Conflict("course must have at least one lesson to publish")
	}

	if err := cs.courses.Updates(ctx, nil, courseID, map[string]any{
		"status": types.CoursePublished,
	}); err != nil {
		return nil, err
	}

	cs.events.Record(ctx, nil, rd.UserID, "course.published", map[string]any{
		"course_id": courseID.String(),
	})
	return cs.courses.GetByID(ctx, nil, courseID)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var courseSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"price":      true,
}

func normalizeListParams(in ListCoursesInput) repos.CourseListParams {
	params := repos.CourseListParams{
		Page:         in.Page,
		Limit:        in.Limit,
		SortBy:       in.SortBy,
		SortOrder:    in.SortOrder,
		SearchTerm:   in.SearchTerm,
		CategoryID:   in.CategoryID,
		InstructorID: in.InstructorID,
		IsPaid:       in.IsPaid,
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = defaultPageSize
	}
	if params.Limit > maxPageSize {
		params.Limit = maxPageSize
	}
	if !courseSortColumns[params.SortBy] {
		params.SortBy = "created_at"
	}
	if params.SortOrder != "asc" {
		params.SortOrder = "desc"
	}
	if s := types.CourseStatus(in.Status); s.Valid() {
		params.Status = s
	}
	return params
}

func (cs *courseService) ListCourses(ctx context.Context, in ListCoursesInput) ([]*types.Course, repos.CourseListParams, int64, error) {
	params := normalizeListParams(in)
	courses, total, err := cs.courses.List(ctx, nil, params)
	if err != nil {
		return nil, params, 0, err
	}
	return courses, params, total, nil
}

func (cs *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	course, err := cs.courses.GetDetail(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}
	return course, nil
}

func (cs *courseService) ListCourseLessons(ctx context.Context, courseID uuid.UUID) ([]LessonSummary, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}

	course, err := cs.courses.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apierr.NotFound("course not found")
	}

	isAdmin := rd.Role == types.RoleAdmin
	isOwner := course.InstructorID == rd.UserID
	if !isAdmin && !isOwner && course.Status != types.CoursePublished {
		return nil, apierr.NotFound("course is not published yet")
	}

	lessons, err := cs.lessons.ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]LessonSummary, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, LessonSummary{
			ID:        l.ID,
			Title:     l.Title,
			Position:  l.Position,
			Duration:  l.Duration,
			IsPreview: l.IsPreview,
		})
	}
	return out, nil
}

func (cs *courseService) uploadThumbnail(ctx context.Context, data []byte, name string) (string, error) {
	if cs.uploader == nil {
		return "", apierr.Internal(fmt.Errorf("upload service not configured"))
	}
	key := fmt.Sprintf("thumbnails/%s-%s", uuid.New(), name)
	return cs.uploader.Upload(ctx, key, data)
}

func requireOwnerOrAdmin(rd *ctxutil.RequestData, instructorID uuid.UUID) error {
	if rd.Role == types.RoleAdmin || rd.UserID == instructorID {
		return nil
	}
	return apierr.Forbidden("you do not own this course")
}
