package ctxutil

import (
	"context"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/models"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyActor key = iota
	keyOpName
)

// WithActor /Actor: кто сейчас вошёл в консоль (nil, никто)
func WithActor(ctx context.Context, u *models.User) context.Context {
	if u == nil {
		return ctx
	}
	cp := *u
	return context.WithValue(ctx, keyActor, &cp)
}

func Actor(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(keyActor).(*models.User)
	return u, ok && u != nil
}

// WithOp /Op: имя операции (для логов/трейса)
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Fields: поля для zap из контекста.
func Fields(ctx context.Context) []zap.Field {
	var fs []zap.Field
	if u, ok := Actor(ctx); ok {
		fs = append(fs, zap.Int64("actor_id", u.ID), zap.String("actor_role", string(u.Role)))
	}
	if op, ok := Op(ctx); ok {
		fs = append(fs, zap.String("op", op))
	}
	return fs
}
