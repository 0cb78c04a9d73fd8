package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnhub/lms-backend/internal/http/response"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/services"
)

const maxUploadBytes = 5 << 20

type UserHandler struct {
	log   *logger.Logger
	users services.UserService
}

func NewUserHandler(log *logger.Logger, users services.UserService) *UserHandler {
	return &UserHandler{
		log:   log.With("handler", "UserHandler"),
		users: users,
	}
}

type createAdminRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

func (uh *UserHandler) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	in := services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if data, name, err := readUpload(c, "avatar"); err != nil {
		response.Error(c, err)
		return
	} else if data != nil {
		in.Avatar = data
		in.AvatarName = name
	}
	user, err := uh.users.CreateAdmin(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "admin created", user)
}

type suspendRequest struct {
	Suspended *bool `json:"suspended" binding:"required"`
}

func (uh *UserHandler) SetSuspended(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	var req suspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	user, err := uh.users.SetSuspended(c.Request.Context(), userID, *req.Suspended)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "suspension updated", user)
}

// bindJSONOrForm accepts either a JSON body or a multipart form for
// endpoints that optionally carry a file.
func bindJSONOrForm(c *gin.Context, obj any) error {
	if c.ContentType() == "application/json" {
		return c.ShouldBindJSON(obj)
	}
	return c.ShouldBind(obj)
}

// readUpload pulls an optional file field out of a multipart request.
// Returns (nil, "", nil) when the field is absent.
func readUpload(c *gin.Context, field string) ([]byte, string, error) {
	if c.ContentType() == "application/json" {
		return nil, "", nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}
	if header.Size > maxUploadBytes {
		return nil, "", apierr.Conflict("file too large")
	}
	f, err := header.Open()
	if err != nil {
		return nil, "", apierr.Internal(err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", apierr.Internal(err)
	}
	if len(data) > maxUploadBytes {
		return nil, "", apierr.Conflict("file too large")
	}
	return data, header.Filename, nil
}
