package app

import (
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/repos"
)

type repoSet struct {
	users       repos.UserRepo
	categories  repos.CategoryRepo
	courses     repos.CourseRepo
	lessons     repos.LessonRepo
	enrollments repos.EnrollmentRepo
	completions repos.LessonCompletionRepo
	events      repos.UserEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) *repoSet {
	return &repoSet{
		users:       repos.NewUserRepo(db, log),
		categories:  repos.NewCategoryRepo(db, log),
		courses:     repos.NewCourseRepo(db, log),
		lessons:     repos.NewLessonRepo(db, log),
		enrollments: repos.NewEnrollmentRepo(db, log),
		completions: repos.NewLessonCompletionRepo(db, log),
		events:      repos.NewUserEventRepo(db, log),
	}
}
