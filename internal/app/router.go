package app

import (
	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-backend/internal/http/middleware"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/types"
)

func wireRouter(cfg *Config, log *logger.Logger, h *handlerSet, m *middlewareSet) *gin.Engine {
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/", h.health.Health)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", m.limiter.Limit("login"), h.auth.Login)
		auth.GET("/getme", m.auth.RequireRoles(), h.auth.GetMe)
		auth.POST("/refresh-token", h.auth.Refresh)
		auth.PATCH("/change-password",
			m.auth.RequireRoles(types.RoleAdmin, types.RoleInstructor, types.RoleStudent),
			h.auth.ChangePassword)
	}

	user := v1.Group("/user")
	{
		user.POST("/create-admin", m.auth.RequireRoles(types.RoleSuperAdmin), h.users.CreateAdmin)
		user.PATCH("/:id/suspend",
			m.auth.RequireRoles(types.RoleSuperAdmin, types.RoleAdmin),
			h.users.SetSuspended)
	}

	category := v1.Group("/category")
	{
		category.POST("", m.auth.RequireRoles(types.RoleAdmin), h.categories.Create)
		category.GET("", h.categories.List)
		category.DELETE("/:id", m.auth.RequireRoles(types.RoleAdmin), h.categories.Delete)
	}

	course := v1.Group("/course")
	{
		course.POST("", m.auth.RequireRoles(types.RoleInstructor), h.courses.Create)
		course.PATCH("/:id", m.auth.RequireRoles(types.RoleInstructor, types.RoleAdmin), h.courses.Update)
		course.DELETE("/:id", m.auth.RequireRoles(types.RoleInstructor, types.RoleAdmin), h.courses.Delete)
		course.PATCH("/:id/publish", m.auth.RequireRoles(types.RoleInstructor, types.RoleAdmin), h.courses.Publish)
		course.GET("", h.courses.List)
		course.GET("/:id", h.courses.Get)
		course.GET("/:id/lessons",
			m.auth.RequireRoles(types.RoleAdmin, types.RoleInstructor, types.RoleStudent),
			h.courses.ListLessons)
		course.POST("/:id/enroll", m.auth.RequireRoles(types.RoleStudent), h.courses.Enroll)
	}

	lesson := v1.Group("/lesson")
	{
		lesson.POST("", m.auth.RequireRoles(types.RoleInstructor), h.lessons.Create)
		lesson.DELETE("/:id", m.auth.RequireRoles(types.RoleAdmin, types.RoleInstructor), h.lessons.Delete)
		lesson.GET("/:id",
			m.auth.RequireRoles(types.RoleAdmin, types.RoleInstructor, types.RoleStudent),
			h.lessons.Get)
		lesson.POST("/:id/complete", m.auth.RequireRoles(types.RoleStudent), h.lessons.Complete)
	}

	return router
}
