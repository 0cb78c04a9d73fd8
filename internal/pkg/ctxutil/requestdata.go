package ctxutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/lms-backend/internal/types"
)

type requestDataKey struct{}

// RequestData carries the authenticated caller identity extracted from the
// access token. Set by the auth middleware, read by services.
type RequestData struct {
	UserID uuid.UUID
	Email  string
	Role   types.Role
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
