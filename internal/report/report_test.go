package report_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Spok95/school-console/internal/cascade"
	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/report"
	"github.com/Spok95/school-console/internal/testutil/testdb"
)

func r(x models.Rank) *models.Rank { return &x }

func TestAverageRank(t *testing.T) {
	cases := []struct {
		name  string
		in    []*models.Rank
		want  string
		count int
	}{
		{"empty", nil, report.Undefined, 0},
		{"all unset", []*models.Rank{nil, nil}, report.Undefined, 0},
		{"A A B", []*models.Rank{r("A"), r("A"), r("B")}, "A", 3},
		{"half rounds up", []*models.Rank{r("A"), r("B")}, "B", 2},
		{"one and a half", []*models.Rank{r("B"), r("C")}, "C", 2},
		{"nil ignored", []*models.Rank{r("A"), nil, r("E")}, "C", 2},
		{"single E", []*models.Rank{r("E")}, "E", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, n := report.AverageRank(tc.in)
			assert.Equal(t, tc.count, n)
			if got == nil {
				assert.Equal(t, tc.want, report.Undefined)
				return
			}
			assert.Equal(t, tc.want, string(*got))
		})
	}
}

func TestAverageScore(t *testing.T) {
	_, ok := report.AverageScore(nil)
	assert.False(t, ok)

	avg, ok := report.AverageScore([]int{80, 81})
	require.True(t, ok)
	assert.InDelta(t, 80.5, avg, 1e-9)

	avg, ok = report.AverageScore([]int{0, 10, 0})
	require.True(t, ok)
	assert.InDelta(t, 10.0/3, avg, 1e-9)
}

func newEngines(t *testing.T) (*db.Store, *report.Engine, *cascade.Engine) {
	s := testdb.NewSQLite(t)
	log := zaptest.NewLogger(t)
	return s, report.New(s, log), cascade.New(s, log)
}

func TestCohortRollup_FormationRank(t *testing.T) {
	ctx := context.Background()
	s, rep, _ := newEngines(t)

	f := testdb.Formation(t, s, "F1")
	for i, rank := range []models.Rank{"A", "A", "B"} {
		sid := testdb.Student(t, s, "S"+string(rune('1'+i)))
		testdb.FormationLink(t, s, sid, f, r(rank))
	}
	testdb.FormationLink(t, s, testdb.Student(t, s, "unranked"), f, nil)

	out, err := rep.CohortRollup(ctx, f)
	require.NoError(t, err)
	require.NotNil(t, out.AverageRank)
	assert.Equal(t, models.RankA, *out.AverageRank)
	assert.Equal(t, 3, out.Ranked)
}

func TestCohortRollup_Undefined(t *testing.T) {
	ctx := context.Background()
	s, rep, _ := newEngines(t)

	f := testdb.Formation(t, s, "Empty")
	testdb.Class(t, s, f, "C")

	out, err := rep.CohortRollup(ctx, f)
	require.NoError(t, err)
	assert.Nil(t, out.AverageRank)
	assert.Zero(t, out.Ranked)
	assert.Empty(t, out.Classes)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCohort(&buf, out))
	assert.Contains(t, buf.String(), "average rank undefined")
}

func TestCohortRollup_OmitsEmpty(t *testing.T) {
	ctx := context.Background()
	s, rep, _ := newEngines(t)

	f := testdb.Formation(t, s, "F")
	ranked := testdb.Class(t, s, f, "Ranked")
	unranked := testdb.Class(t, s, f, "Unranked")
	scored := testdb.Activity(t, s, ranked, "Scored", 100)
	ungraded := testdb.Activity(t, s, ranked, "Ungraded", 100)
	unscored := testdb.Activity(t, s, ranked, "Unscored", 0)
	hidden := testdb.Activity(t, s, unranked, "Hidden", 100)

	s1 := testdb.Student(t, s, "S1")
	s2 := testdb.Student(t, s, "S2")
	testdb.ClassLink(t, s, s1, ranked, r("B"))
	testdb.ClassLink(t, s, s2, ranked, nil)
	testdb.ClassLink(t, s, s1, unranked, nil)
	testdb.ActivityLink(t, s, s1, scored, models.IntPtr(80))
	testdb.ActivityLink(t, s, s2, scored, models.IntPtr(81))
	testdb.ActivityLink(t, s, s1, ungraded, nil)
	testdb.ActivityLink(t, s, s1, unscored, models.IntPtr(0))
	testdb.ActivityLink(t, s, s1, hidden, models.IntPtr(50))

	out, err := rep.CohortRollup(ctx, f)
	require.NoError(t, err)
	require.Len(t, out.Classes, 1)

	c := out.Classes[0]
	assert.Equal(t, ranked, c.ClassID)
	assert.Equal(t, models.RankB, c.AverageRank)
	assert.Equal(t, 1, c.Ranked)
	require.Len(t, c.Activities, 1)
	assert.Equal(t, scored, c.Activities[0].ActivityID)
	assert.InDelta(t, 80.5, c.Activities[0].Average, 1e-9)
	assert.Equal(t, 2, c.Activities[0].Scored)
	assert.Equal(t, 100, c.Activities[0].MaxScore)
}

func TestCohortRollup_AfterClassDelete(t *testing.T) {
	ctx := context.Background()
	s, rep, casc := newEngines(t)

	f1 := testdb.Formation(t, s, "F1")
	c1 := testdb.Class(t, s, f1, "C1")
	a1 := testdb.Activity(t, s, c1, "A1", 100)
	s1 := testdb.Student(t, s, "S1")
	testdb.ClassLink(t, s, s1, c1, r("A"))
	testdb.ActivityLink(t, s, s1, a1, models.IntPtr(80))

	before, err := rep.CohortRollup(ctx, f1)
	require.NoError(t, err)
	require.Len(t, before.Classes, 1)

	_, err = casc.DeleteCascade(ctx, models.KindClass, db.ByID(c1))
	require.NoError(t, err)

	after, err := rep.CohortRollup(ctx, f1)
	require.NoError(t, err)
	assert.Empty(t, after.Classes)
	assert.Equal(t, "F1", after.Formation.Title)
}

func TestStudentView(t *testing.T) {
	ctx := context.Background()
	s, rep, _ := newEngines(t)

	f1 := testdb.Formation(t, s, "F1")
	c1 := testdb.Class(t, s, f1, "C1")
	a1 := testdb.Activity(t, s, c1, "A1", 100)
	s1 := testdb.Student(t, s, "S1")
	testdb.FormationLink(t, s, s1, f1, r("B"))
	testdb.ClassLink(t, s, s1, c1, nil)
	testdb.ActivityLink(t, s, s1, a1, models.IntPtr(80))

	out, err := rep.StudentView(ctx, s1)
	require.NoError(t, err)
	require.Len(t, out.Formations, 1)

	f := out.Formations[0]
	assert.Equal(t, "F1", f.Title)
	require.NotNil(t, f.Rank)
	assert.Equal(t, models.RankB, *f.Rank)
	require.Len(t, f.Classes, 1)
	assert.Nil(t, f.Classes[0].Rank)
	require.Len(t, f.Classes[0].Activities, 1)
	assert.Equal(t, "A1", f.Classes[0].Activities[0].Title)
	assert.Equal(t, 80, f.Classes[0].Activities[0].Score)

	var buf bytes.Buffer
	require.NoError(t, report.WriteStudent(&buf, out))
	assert.Contains(t, buf.String(), "rank B")
	assert.Contains(t, buf.String(), "80/100")
}

func TestStudentView_SkipsUnscoredAndForeignClasses(t *testing.T) {
	ctx := context.Background()
	s, rep, _ := newEngines(t)

	f1 := testdb.Formation(t, s, "F1")
	f2 := testdb.Formation(t, s, "F2")
	c1 := testdb.Class(t, s, f1, "C1")
	c2 := testdb.Class(t, s, f2, "C2")
	unscored := testdb.Activity(t, s, c1, "Talk", 0)
	ungraded := testdb.Activity(t, s, c1, "Essay", 20)
	other := testdb.Activity(t, s, c2, "Other", 10)

	s1 := testdb.Student(t, s, "S1")
	testdb.FormationLink(t, s, s1, f2, nil)
	testdb.FormationLink(t, s, s1, f1, nil)
	testdb.ClassLink(t, s, s1, c1, r("A"))
	testdb.ClassLink(t, s, s1, c2, nil)
	testdb.ActivityLink(t, s, s1, unscored, models.IntPtr(0))
	testdb.ActivityLink(t, s, s1, ungraded, nil)
	testdb.ActivityLink(t, s, s1, other, models.IntPtr(3))

	out, err := rep.StudentView(ctx, s1)
	require.NoError(t, err)
	require.Len(t, out.Formations, 2)

	// порядок записи, не порядок id
	assert.Equal(t, "F2", out.Formations[0].Title)
	require.Len(t, out.Formations[0].Classes, 1)
	assert.Equal(t, "C2", out.Formations[0].Classes[0].Title)
	require.Len(t, out.Formations[0].Classes[0].Activities, 1)

	assert.Equal(t, "F1", out.Formations[1].Title)
	require.Len(t, out.Formations[1].Classes, 1)
	assert.Empty(t, out.Formations[1].Classes[0].Activities)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	_, rep, _ := newEngines(t)

	_, err := rep.StudentView(ctx, 404)
	assert.True(t, models.IsNotFound(err))

	_, err = rep.CohortRollup(ctx, 404)
	assert.True(t, models.IsNotFound(err))
}
