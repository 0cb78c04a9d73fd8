package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/db"
	"github.com/learnhub/lms-backend/internal/pkg/ctxutil"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/repos"
	"github.com/learnhub/lms-backend/internal/types"
)

// testEnv wires the full service stack against an in-memory sqlite
// database so tests exercise the real repo queries.
type testEnv struct {
	db          *gorm.DB
	users       repos.UserRepo
	categories  repos.CategoryRepo
	courses     repos.CourseRepo
	lessons     repos.LessonRepo
	enrollments repos.EnrollmentRepo
	completions repos.LessonCompletionRepo

	authSvc       AuthService
	userSvc       UserService
	categorySvc   CategoryService
	courseSvc     CourseService
	lessonSvc     LessonService
	enrollmentSvc EnrollmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.NewNop()
	users := repos.NewUserRepo(gdb, log)
	categories := repos.NewCategoryRepo(gdb, log)
	courses := repos.NewCourseRepo(gdb, log)
	lessons := repos.NewLessonRepo(gdb, log)
	enrollments := repos.NewEnrollmentRepo(gdb, log)
	completions := repos.NewLessonCompletionRepo(gdb, log)
	events := NewEventService(log, repos.NewUserEventRepo(gdb, log))

	authCfg := AuthConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}

	return &testEnv{
		db:          gdb,
		users:       users,
		categories:  categories,
		courses:     courses,
		lessons:     lessons,
		enrollments: enrollments,
		completions: completions,

		authSvc:       NewAuthService(log, authCfg, users, events),
		userSvc:       NewUserService(gdb, log, users, nil, bcrypt.MinCost),
		categorySvc:   NewCategoryService(log, categories, courses),
		courseSvc:     NewCourseService(gdb, log, users, categories, courses, lessons, nil, events),
		lessonSvc:     NewLessonService(gdb, log, courses, lessons, enrollments, completions, events),
		enrollmentSvc: NewEnrollmentService(gdb, log, courses, enrollments, events),
	}
}

func (e *testEnv) createUser(t *testing.T, role types.Role) *types.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &types.User{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("%s user", role),
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.New()),
		Password: string(hash),
		Role:     role,
	}
	if err := e.users.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) createCourse(t *testing.T, instructor *types.User, mutate func(*types.Course)) *types.Course {
	t.Helper()
	course := &types.Course{
		ID:           uuid.New(),
		Title:        fmt.Sprintf("Course %s", uuid.New()),
		Slug:         fmt.Sprintf("course-%s", uuid.New()),
		Status:       types.CourseDraft,
		InstructorID: instructor.ID,
	}
	if mutate != nil {
		mutate(course)
	}
	if err := e.courses.Create(context.Background(), nil, course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

func (e *testEnv) createLesson(t *testing.T, courseID uuid.UUID, position int, mutate func(*types.Lesson)) *types.Lesson {
	t.Helper()
	lesson := &types.Lesson{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       fmt.Sprintf("Lesson %d", position),
		ContentType: types.ContentText,
		ContentText: "body",
		Position:    position,
	}
	if mutate != nil {
		mutate(lesson)
	}
	if err := e.lessons.Create(context.Background(), nil, lesson); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	return lesson
}

func ctxAs(user *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
}
