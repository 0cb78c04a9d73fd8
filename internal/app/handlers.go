package app

import (
	"github.com/learnhub/lms-backend/internal/http/handlers"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
)

type handlerSet struct {
	health     *handlers.HealthHandler
	auth       *handlers.AuthHandler
	users      *handlers.UserHandler
	categories *handlers.CategoryHandler
	courses    *handlers.CourseHandler
	lessons    *handlers.LessonHandler
}

func wireHandlers(cfg *Config, log *logger.Logger, s *serviceSet) *handlerSet {
	return &handlerSet{
		health:     handlers.NewHealthHandler(),
		auth:       handlers.NewAuthHandler(log, s.auth, cfg.CookieDomain, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.SecureCookies),
		users:      handlers.NewUserHandler(log, s.users),
		categories: handlers.NewCategoryHandler(log, s.categories),
		courses:    handlers.NewCourseHandler(log, s.courses, s.enrollments),
		lessons:    handlers.NewLessonHandler(log, s.lessons),
	}
}
