package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/lms-backend/internal/pkg/ctxutil"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/repos"
	"github.com/learnhub/lms-backend/internal/types"
)

type AuthConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *types.User
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetMe(ctx context.Context) (*types.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ParseAccessToken(tokenString string) (*ctxutil.RequestData, error)
}

type authClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	log    *logger.Logger
	cfg    AuthConfig
	users  repos.UserRepo
	events EventService
}

func NewAuthService(log *logger.Logger, cfg AuthConfig, users repos.UserRepo, events EventService) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		log:    log.With("service", "AuthService"),
		cfg:    cfg,
		users:  users,
		events: events,
	}
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := as.users.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsSuspended {
		return nil, apierr.NotFound("incorrect email or suspended user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("incorrect password")
	}

	accessToken, err := as.signToken(user, as.cfg.AccessSecret, as.cfg.AccessTokenTTL)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	refreshToken, err := as.signToken(user, as.cfg.RefreshSecret, as.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	as.events.Record(ctx, nil, user.ID, "user.login", nil)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (as *authService) GetMe(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Unauthorized("missing caller identity")
	}
	user, err := as.users.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound("user not found")
	}
	return user, nil
}

func (as *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized("missing caller identity")
	}
	user, err := as.users.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apierr.NotFound("user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apierr.Unauthorized("incorrect old password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), as.cfg.BcryptCost)
	if err != nil {
		return apierr.Internal(err)
	}
	return as.users.UpdatePassword(ctx, nil, user.ID, string(hash))
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// user row is reloaded so a suspension that happened after the refresh
// token was issued still locks the account out.
func (as *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := as.parseToken(refreshToken, as.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", apierr.Unauthorized("invalid refresh token")
	}
	user, err := as.users.GetByID(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsSuspended {
		return "", apierr.Unauthorized("invalid refresh token")
	}
	accessToken, err := as.signToken(user, as.cfg.AccessSecret, as.cfg.AccessTokenTTL)
	if err != nil {
		return "", apierr.Internal(err)
	}
	return accessToken, nil
}

func (as *authService) ParseAccessToken(tokenString string) (*ctxutil.RequestData, error) {
	claims, err := as.parseToken(tokenString, as.cfg.AccessSecret)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierr.Unauthorized("invalid access token")
	}
	role := types.Role(claims.Role)
	if !role.Valid() {
		return nil, apierr.Unauthorized("invalid access token")
	}
	return &ctxutil.RequestData{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}

func (as *authService) signToken(user *types.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   user.ID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (as *authService) parseToken(tokenString, secret string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apierr.Unauthorized("token expired")
		}
		return nil, apierr.Unauthorized("invalid token")
	}
	if !token.Valid {
		return nil, apierr.Unauthorized("invalid token")
	}
	return claims, nil
}
