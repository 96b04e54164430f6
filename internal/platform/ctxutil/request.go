package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries the authenticated caller through a request.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
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

// UserID returns the authenticated user id or uuid.Nil.
func UserID(ctx context.Context) uuid.UUID {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}

// Default returns ctx, or context.Background when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
