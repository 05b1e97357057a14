package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Spok95/school-console/internal/cascade"
	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/seed"
	"github.com/Spok95/school-console/internal/testutil/testdb"
)

func small(s uint64) seed.Options {
	o := seed.DefaultOptions(s)
	o.Now = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	o.Students = seed.Range{Min: 5, Max: 8}
	o.Staff = seed.Range{Min: 2, Max: 3}
	o.Formations = seed.Range{Min: 2, Max: 3}
	o.ClassesPerFormation = seed.Range{Min: 2, Max: 3}
	o.ActivitiesPerClass = seed.Range{Min: 2, Max: 4}
	return o
}

func newGenerator(t *testing.T) (*db.Store, *cascade.Engine, *seed.Generator) {
	s := testdb.NewSQLite(t)
	log := zaptest.NewLogger(t)
	c := cascade.New(s, log)
	return s, c, seed.New(s, c, log)
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	s, casc, g := newGenerator(t)

	got, err := g.Generate(ctx, small(7))
	require.NoError(t, err)

	cnt := func(k models.Kind) int {
		n, err := s.Count(ctx, k, db.All())
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, got.Users, cnt(models.KindUser))
	assert.Equal(t, got.Formations, cnt(models.KindFormation))
	assert.Equal(t, got.Classes, cnt(models.KindClass))
	assert.Equal(t, got.Activities, cnt(models.KindActivity))
	assert.Equal(t, got.FormationLinks, cnt(models.KindFormationLink))
	assert.Equal(t, got.ClassLinks, cnt(models.KindClassLink))
	assert.Equal(t, got.ActivityLinks, cnt(models.KindActivityLink))
	assert.NotZero(t, got.ActivityLinks)

	students, err := s.Students(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(students), 5)
	assert.LessOrEqual(t, len(students), 8)

	acts, err := s.Activities(ctx, db.All())
	require.NoError(t, err)
	for _, a := range acts {
		if !a.IsScored {
			assert.Zero(t, a.MaxScore)
		}
	}

	links, err := s.ActivityLinks(ctx, db.All(), db.RelActivity)
	require.NoError(t, err)
	seen := map[[2]int64]bool{}
	for _, l := range links {
		key := [2]int64{l.StudentID, l.ClassActivityID}
		assert.False(t, seen[key], "duplicate link %v", key)
		seen[key] = true
		if l.Score != nil {
			assert.LessOrEqual(t, *l.Score, l.Activity.MaxScore)
		}
	}

	orphans, err := casc.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestGenerate_Deterministic(t *testing.T) {
	ctx := context.Background()
	_, _, g1 := newGenerator(t)
	_, _, g2 := newGenerator(t)

	a, err := g1.Generate(ctx, small(42))
	require.NoError(t, err)
	b, err := g2.Generate(ctx, small(42))
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestGenerate_ReplacesData(t *testing.T) {
	ctx := context.Background()
	s, _, g := newGenerator(t)

	first, err := g.Generate(ctx, small(1))
	require.NoError(t, err)
	second, err := g.Generate(ctx, small(2))
	require.NoError(t, err)

	assert.EqualValues(t, first.Users, second.Deleted[models.KindUser])
	assert.EqualValues(t, first.Formations, second.Deleted[models.KindFormation])

	n, err := s.Count(ctx, models.KindUser, db.All())
	require.NoError(t, err)
	assert.Equal(t, second.Users, n)
}
