package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/report"
)

var at = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

func TestColName(t *testing.T) {
	assert.Equal(t, "A", colName(1))
	assert.Equal(t, "Z", colName(26))
	assert.Equal(t, "AA", colName(27))
	assert.Equal(t, "AZ", colName(52))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a_b_c.xlsx", sanitizeFileName("  a/b:c.xlsx "))
	assert.Equal(t, "Go _ Rust", sheetTitle("Go [ Rust"))
	assert.Len(t, []rune(sheetTitle("a very long formation title that keeps going")), 31)
	assert.Equal(t, "cohort - - - 2024-09-01.xlsx", CohortReportFilename("  ", at))
}

func TestStudentWorkbook(t *testing.T) {
	rep := &report.StudentReport{
		Student: models.User{ID: 1, Name: "Ann Lee", Role: models.Student},
		Formations: []report.FormationEntry{
			{FormationID: 1, Title: "Go", Rank: models.RankPtr(models.RankB), Classes: []report.ClassEntry{
				{ClassID: 1, Title: "Basics", Activities: []report.ActivityScore{
					{ActivityID: 1, Title: "Quiz", Score: 80, MaxScore: 100},
				}},
				{ClassID: 2, Title: "Empty", Rank: models.RankPtr(models.RankA)},
			}},
			{FormationID: 2, Title: "Rust"},
		},
	}
	wb, err := StudentWorkbook(rep, at)
	require.NoError(t, err)
	assert.Equal(t, "scores - Ann Lee - 2024-09-01.xlsx", wb.Name)

	path, err := wb.Save(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Scores")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Formation", rows[0][0])
	assert.Equal(t, []string{"Go", "B", "Basics", "", "Quiz", "80", "100"}, rows[1])
	assert.Equal(t, []string{"Go", "B", "Empty", "A"}, rows[2])
	assert.Equal(t, []string{"Rust"}, rows[3])
}

func TestCohortWorkbook(t *testing.T) {
	rep := &report.CohortReport{
		Formation: models.Formation{ID: 1, Title: "Go"},
		Classes: []report.ClassRollup{
			{ClassID: 1, Title: "Basics", AverageRank: models.RankA, Ranked: 2, Activities: []report.ActivityAverage{
				{ActivityID: 1, Title: "Quiz", Average: 80.5, Scored: 2, MaxScore: 100},
			}},
		},
	}
	wb, err := CohortWorkbook(rep, at)
	require.NoError(t, err)
	dir := t.TempDir()
	path, err := wb.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cohort - Go - 2024-09-01.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Formation", "Classes", "Activities"}, f.GetSheetList())

	summary, err := f.GetRows("Formation")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", report.Undefined, "0"}, summary[1])

	acts, err := f.GetRows("Activities")
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "80.5", acts[1][2])
}

func TestRosterWorkbook(t *testing.T) {
	wb, err := RosterWorkbook([]db.RosterRow{
		{ID: 2, Name: "Ann", Role: models.Student, Formations: 1, Classes: 2, Activities: 3},
		{ID: 1, Name: "Bob", Role: models.Teacher},
	}, at)
	require.NoError(t, err)
	path, err := wb.Save(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, wb.Close())
	assert.Equal(t, "users - 2024-09-01.xlsx", filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "Ann", "student", "1", "2", "3"}, rows[1])
	assert.Equal(t, []string{"1", "Bob", "teacher", "0", "0", "0"}, rows[2])
}
