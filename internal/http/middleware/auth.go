package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-backend/internal/http/response"
	"github.com/learnhub/lms-backend/internal/pkg/ctxutil"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/types"
)

const accessTokenCookie = "accessToken"

// TokenParser is the slice of the auth service the middleware needs.
type TokenParser interface {
	ParseAccessToken(tokenString string) (*ctxutil.RequestData, error)
}

type AuthMiddleware struct {
	log    *logger.Logger
	parser TokenParser
}

func NewAuthMiddleware(log *logger.Logger, parser TokenParser) *AuthMiddleware {
	return &AuthMiddleware{
		log:    log.With("middleware", "AuthMiddleware"),
		parser: parser,
	}
}

// RequireRoles authenticates the request and rejects callers whose role
// is not in the allow list. An empty list admits any authenticated user.
func (am *AuthMiddleware) RequireRoles(roles ...types.Role) gin.HandlerFunc {
	allowed := make(map[types.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.AbortError(c, apierr.Unauthorized("missing access token"))
			return
		}
		rd, err := am.parser.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, err)
			return
		}
		if len(allowed) > 0 && !allowed[rd.Role] {
			response.AbortError(c, apierr.Forbidden("insufficient role"))
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// extractToken prefers the auth cookie and falls back to a bearer header
// for non-browser clients.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
