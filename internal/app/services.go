package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/services"
)

type serviceSet struct {
	auth        services.AuthService
	users       services.UserService
	categories  services.CategoryService
	courses     services.CourseService
	lessons     services.LessonService
	enrollments services.EnrollmentService
	events      services.EventService
	uploader    services.UploadService
}

func wireServices(ctx context.Context, cfg *Config, db *gorm.DB, log *logger.Logger, r *repoSet) (*serviceSet, error) {
	var uploader services.UploadService
	if cfg.GCSBucket != "" {
		var err error
		uploader, err = services.NewBucketService(ctx, log, cfg.GCSBucket, cfg.CDNDomain, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("GCS bucket not configured, file uploads disabled")
	}

	events := services.NewEventService(log, r.events)
	authCfg := services.AuthConfig{
		AccessSecret:    cfg.JWTAccessSecret,
		RefreshSecret:   cfg.JWTRefreshSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		BcryptCost:      cfg.BcryptCost,
	}

	return &serviceSet{
		auth:        services.NewAuthService(log, authCfg, r.users, events),
		users:       services.NewUserService(db, log, r.users, uploader, cfg.BcryptCost),
		categories:  services.NewCategoryService(log, r.categories, r.courses),
		courses:     services.NewCourseService(db, log, r.users, r.categories, r.courses, r.lessons, uploader, events),
		lessons:     services.NewLessonService(db, log, r.courses, r.lessons, r.enrollments, r.completions, events),
		enrollments: services.NewEnrollmentService(db, log, r.courses, r.enrollments, events),
		events:      events,
		uploader:    uploader,
	}, nil
}
