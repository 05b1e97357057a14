package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Spok95/school-console/internal/cascade"
	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/enroll"
	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/report"
	"github.com/Spok95/school-console/internal/seed"
	"github.com/Spok95/school-console/internal/testutil/testdb"
)

func deps(t *testing.T, s *db.Store) Deps {
	log := zaptest.NewLogger(t)
	casc := cascade.New(s, log)
	opts := seed.DefaultOptions(7)
	opts.Students = seed.Range{Min: 3, Max: 3}
	opts.Staff = seed.Range{Min: 1, Max: 1}
	opts.Formations = seed.Range{Min: 2, Max: 2}
	opts.ClassesPerFormation = seed.Range{Min: 2, Max: 2}
	opts.ActivitiesPerClass = seed.Range{Min: 2, Max: 2}
	return Deps{
		Store:       s,
		Cascade:     casc,
		Reports:     report.New(s, log),
		Enroll:      enroll.New(s, casc, log),
		Seed:        seed.New(s, casc, log),
		SeedOptions: opts,
		ExportDir:   t.TempDir(),
		Log:         log,
		Now:         func() time.Time { return time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC) },
	}
}

// run прогоняет сценарий, по одному ответу на строку.
func run(t *testing.T, s *db.Store, lines ...string) (*Console, string) {
	t.Helper()
	var out bytes.Buffer
	c := New(deps(t, s), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, c.Run(context.Background()))
	return c, out.String()
}

func TestCreateFormation(t *testing.T) {
	s := testdb.NewSQLite(t)
	_, out := run(t, s,
		"1",                        // formations
		"1",                        // create
		"Math", "Algebra and more", // title, description
		"2024-09-01", "2025-06-30",
		"10", // back
		"8",  // quit
	)

	fs, err := s.Formations(context.Background(), db.All())
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "Math", fs[0].Title)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), fs[0].EndDate.UTC())
	assert.Contains(t, out, "Created formation")
}

func TestCreateFormation_InvalidDatesReported(t *testing.T) {
	s := testdb.NewSQLite(t)
	_, out := run(t, s, "1", "1", "Math", "x", "2025-06-30", "2024-09-01", "10", "8")

	assert.Contains(t, out, "error:")
	n, err := s.Count(context.Background(), models.KindFormation, db.All())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDateReprompts(t *testing.T) {
	s := testdb.NewSQLite(t)
	_, out := run(t, s, "1", "1", "Math", "x", "01/09/2024", "2024-09-01", "2024-09-02", "10", "8")

	assert.Contains(t, out, `invalid date "01/09/2024"`)
	n, err := s.Count(context.Background(), models.KindFormation, db.All())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStudentGating(t *testing.T) {
	s := testdb.NewSQLite(t)
	testdb.Student(t, s, "Alice")

	c, out := run(t, s,
		"3", "1", // sign in as Alice
		"2", // users: not allowed for students
		"1", // formations
		"3", // update: not allowed
	)
	assert.True(t, c.Session().IsStudent())
	assert.Contains(t, out, "[Alice - student]")
	assert.Contains(t, out, `"Manage users" is not allowed`)
	assert.Contains(t, out, `"Update a formation" is not allowed`)
	assert.Contains(t, out, "Register to a formation")
}

func TestStudentRegisters(t *testing.T) {
	s := testdb.NewSQLite(t)
	st := testdb.Student(t, s, "Alice")
	testdb.Formation(t, s, "Math")
	testdb.Formation(t, s, "Physics")

	_, out := run(t, s,
		"3", "1", // sign in
		"1",      // formations
		"1", "2", // register to Physics
		"2", // list
		"10", "8",
	)
	assert.Contains(t, out, "Physics [REGISTERED]")
	assert.NotContains(t, out, "Math [REGISTERED]")

	links, err := s.FormationLinks(context.Background(), db.Where(db.Eq("student_id", st)))
	require.NoError(t, err)
	require.Len(t, links, 1)
}

func TestCohortScores(t *testing.T) {
	s := testdb.NewSQLite(t)
	f := testdb.Formation(t, s, "Math")
	a, b := testdb.Student(t, s, "A"), testdb.Student(t, s, "B")
	testdb.FormationLink(t, s, a, f, models.RankPtr(models.RankA))
	testdb.FormationLink(t, s, b, f, models.RankPtr(models.RankC))

	_, out := run(t, s, "1", "7", "1", "10", "8")
	assert.Contains(t, out, "average rank B")
}

func TestSetFormationRank(t *testing.T) {
	s := testdb.NewSQLite(t)
	f := testdb.Formation(t, s, "Math")
	st := testdb.Student(t, s, "A")
	lid := testdb.FormationLink(t, s, st, f, nil)

	run(t, s, "1", "9", "1", "1", "d", "10", "8")

	l, err := s.FormationLink(context.Background(), lid)
	require.NoError(t, err)
	require.NotNil(t, l.Rank)
	assert.Equal(t, models.RankD, *l.Rank)

	run(t, s, "1", "9", "1", "1", "-", "10", "8")
	l, err = s.FormationLink(context.Background(), lid)
	require.NoError(t, err)
	assert.Nil(t, l.Rank)
}

func TestDeleteUserCascades(t *testing.T) {
	s := testdb.NewSQLite(t)
	f := testdb.Formation(t, s, "Math")
	st := testdb.Student(t, s, "A")
	testdb.FormationLink(t, s, st, f, nil)

	_, out := run(t, s, "2", "4", "1", "6", "8")
	assert.Contains(t, out, "Deleted:")

	ctx := context.Background()
	n, err := s.Count(ctx, models.KindFormationLink, db.All())
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = s.Count(ctx, models.KindUser, db.All())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGenerateAndAudit(t *testing.T) {
	s := testdb.NewSQLite(t)
	_, out := run(t, s, "5", "y", "7", "8")

	assert.Contains(t, out, "Generated")
	assert.Contains(t, out, "No orphaned rows")
	n, err := s.Count(context.Background(), models.KindUser, db.All())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestDeleteDataNeedsConfirmation(t *testing.T) {
	s := testdb.NewSQLite(t)
	testdb.Formation(t, s, "Math")

	run(t, s, "6", "n", "8")
	n, err := s.Count(context.Background(), models.KindFormation, db.All())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	run(t, s, "6", "y", "8")
	n, err = s.Count(context.Background(), models.KindFormation, db.All())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExportScores(t *testing.T) {
	s := testdb.NewSQLite(t)
	testdb.Formation(t, s, "Math")

	_, out := run(t, s, "1", "8", "1", "10", "8")
	assert.Contains(t, out, "Saved ")
	assert.Contains(t, out, ".xlsx")
}

func TestExportUsers(t *testing.T) {
	s := testdb.NewSQLite(t)
	testdb.Student(t, s, "Alice")

	_, out := run(t, s, "2", "5", "6", "8")
	assert.Contains(t, out, "(1 users)")
}
