package ctxutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/school-console/internal/models"
)

func TestActor(t *testing.T) {
	ctx := context.Background()
	_, ok := Actor(ctx)
	assert.False(t, ok)

	u := &models.User{ID: 3, Name: "Ann", Role: models.Admin}
	ctx = WithActor(ctx, u)
	u.Name = "changed"

	got, ok := Actor(ctx)
	require.True(t, ok)
	assert.Equal(t, "Ann", got.Name)

	assert.Same(t, ctx, WithActor(ctx, nil))
}

func TestFields(t *testing.T) {
	ctx := WithOp(WithActor(context.Background(), &models.User{ID: 1, Role: models.Student}), "register")
	fs := Fields(ctx)
	require.Len(t, fs, 3)
	assert.Equal(t, "actor_id", fs[0].Key)
	assert.Equal(t, "op", fs[2].Key)

	assert.Empty(t, Fields(context.Background()))
}
