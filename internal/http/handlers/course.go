package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnhub/lms-backend/internal/http/response"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/services"
)

type CourseHandler struct {
	log         *logger.Logger
	courses     services.CourseService
	enrollments services.EnrollmentService
}

func NewCourseHandler(log *logger.Logger, courses services.CourseService, enrollments services.EnrollmentService) *CourseHandler {
	return &CourseHandler{
		log:         log.With("handler", "CourseHandler"),
		courses:     courses,
		enrollments: enrollments,
	}
}

type createCourseRequest struct {
	Title       string   `json:"title" form:"title" binding:"required"`
	Description string   `json:"description" form:"description"`
	IsPaid      *bool    `json:"is_paid" form:"is_paid"`
	Price       *float64 `json:"price" form:"price"`
	CategoryID  *string  `json:"category_id" form:"category_id"`
}

func (ch *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	in := services.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		IsPaid:      req.IsPaid,
		Price:       req.Price,
		CategoryID:  categoryID,
	}
	if data, name, err := readUpload(c, "thumbnail"); err != nil {
		response.Error(c, err)
		return
	} else if data != nil {
		in.Thumbnail = data
		in.ThumbnailName = name
	}
	course, err := ch.courses.CreateCourse(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "course created", course)
}

type updateCourseRequest struct {
	Title       *string  `json:"title" form:"title"`
	Description *string  `json:"description" form:"description"`
	IsPaid      *bool    `json:"is_paid" form:"is_paid"`
	Price       *float64 `json:"price" form:"price"`
	CategoryID  *string  `json:"category_id" form:"category_id"`
}

func (ch *CourseHandler) Update(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	var req updateCourseRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	in := services.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		IsPaid:      req.IsPaid,
		Price:       req.Price,
		CategoryID:  categoryID,
	}
	if data, name, err := readUpload(c, "thumbnail"); err != nil {
		response.Error(c, err)
		return
	} else if data != nil {
		in.Thumbnail = data
		in.ThumbnailName = name
	}
	course, err := ch.courses.UpdateCourse(c.Request.Context(), courseID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "course updated", course)
}

func (ch *CourseHandler) Delete(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	course, err := ch.courses.SoftDeleteCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "course deleted", course)
}

func (ch *CourseHandler) Publish(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	course, err := ch.courses.PublishCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "course published", course)
}

func (ch *CourseHandler) List(c *gin.Context) {
	in := services.ListCoursesInput{
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		SearchTerm: c.Query("search"),
		Status:     c.Query("status"),
	}
	in.Page, _ = strconv.Atoi(c.Query("page"))
	in.Limit, _ = strconv.Atoi(c.Query("limit"))
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
			return
		}
		in.CategoryID = &id
	}
	if raw := c.Query("instructor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
			return
		}
		in.InstructorID = &id
	}
	if raw := c.Query("is_paid"); raw != "" {
		isPaid, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
			return
		}
		in.IsPaid = &isPaid
	}

	courses, params, total, err := ch.courses.ListCourses(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, "courses", courses, response.Meta{
		Limit: params.Limit,
		Page:  params.Page,
		Total: total,
	})
}

func (ch *CourseHandler) Get(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	course, err := ch.courses.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "course", course)
}

func (ch *CourseHandler) ListLessons(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	lessons, err := ch.courses.ListCourseLessons(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "lessons", lessons)
}

func (ch *CourseHandler) Enroll(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	enrollment, err := ch.enrollments.Enroll(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "enrolled", enrollment)
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
