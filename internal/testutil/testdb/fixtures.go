package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
)

var day = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

func Formation(t testing.TB, s *db.Store, title string) int64 {
	t.Helper()
	id, err := s.InsertFormation(context.Background(), &models.Formation{
		Title: title, StartDate: day, EndDate: day.AddDate(0, 6, 0),
	})
	require.NoError(t, err)
	return id
}

func Class(t testing.TB, s *db.Store, formationID int64, title string) int64 {
	t.Helper()
	id, err := s.InsertClass(context.Background(), &models.Class{
		Title: title, FormationID: formationID, StartDate: day, EndDate: day.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	return id
}

// Activity создаёт активность; maxScore == 0 означает неоцениваемую.
func Activity(t testing.TB, s *db.Store, classID int64, title string, maxScore int) int64 {
	t.Helper()
	id, err := s.InsertActivity(context.Background(), &models.ClassActivity{
		Title: title, ClassID: classID, IsScored: maxScore > 0, MaxScore: maxScore,
		StartDate: day, EndDate: day,
	})
	require.NoError(t, err)
	return id
}

func User(t testing.TB, s *db.Store, name string, role models.Role) int64 {
	t.Helper()
	id, err := s.InsertUser(context.Background(), &models.User{Name: name, Role: role})
	require.NoError(t, err)
	return id
}

func Student(t testing.TB, s *db.Store, name string) int64 {
	return User(t, s, name, models.Student)
}

func FormationLink(t testing.TB, s *db.Store, studentID, formationID int64, rank *models.Rank) int64 {
	t.Helper()
	id, err := s.InsertFormationLink(context.Background(), &models.FormationStudentLink{
		StudentID: studentID, FormationID: formationID, Rank: rank,
	})
	require.NoError(t, err)
	return id
}

func ClassLink(t testing.TB, s *db.Store, studentID, classID int64, rank *models.Rank) int64 {
	t.Helper()
	id, err := s.InsertClassLink(context.Background(), &models.ClassStudentLink{
		StudentID: studentID, ClassID: classID, Rank: rank,
	})
	require.NoError(t, err)
	return id
}

func ActivityLink(t testing.TB, s *db.Store, studentID, activityID int64, score *int) int64 {
	t.Helper()
	id, err := s.InsertActivityLink(context.Background(), &models.ClassActivityStudentLink{
		StudentID: studentID, ClassActivityID: activityID, Score: score,
	})
	require.NoError(t, err)
	return id
}
