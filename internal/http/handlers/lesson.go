package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnhub/lms-backend/internal/http/response"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/services"
	"github.com/learnhub/lms-backend/internal/types"
)

type LessonHandler struct {
	log     *logger.Logger
	lessons services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessons services.LessonService) *LessonHandler {
	return &LessonHandler{
		log:     log.With("handler", "LessonHandler"),
		lessons: lessons,
	}
}

type createLessonRequest struct {
	CourseID    string `json:"course_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	ContentURL  string `json:"content_url"`
	ContentText string `json:"content_text"`
	Duration    *int   `json:"duration"`
	Position    *int   `json:"position"`
	IsPreview   bool   `json:"is_preview"`
}

func (lh *LessonHandler) Create(c *gin.Context) {
	var req createLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	lesson, err := lh.lessons.CreateLesson(c.Request.Context(), services.CreateLessonInput{
		CourseID:    courseID,
		Title:       req.Title,
		ContentType: types.ContentType(req.ContentType),
		ContentURL:  req.ContentURL,
		ContentText: req.ContentText,
		Duration:    req.Duration,
		Position:    req.Position,
		IsPreview:   req.IsPreview,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "lesson created", lesson)
}

func (lh *LessonHandler) Delete(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	if err := lh.lessons.DeleteLesson(c.Request.Context(), lessonID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "lesson deleted", nil)
}

func (lh *LessonHandler) Get(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	lesson, err := lh.lessons.GetLesson(c.Request.Context(), lessonID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "lesson", lesson)
}

func (lh *LessonHandler) Complete(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	if err := lh.lessons.CompleteLesson(c.Request.Context(), lessonID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "lesson completed", nil)
}
