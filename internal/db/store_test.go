package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/testutil/testdb"
)

func TestInsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	fid := testdb.Formation(t, s, "Go backend")
	f, err := s.Formation(ctx, fid)
	require.NoError(t, err)
	assert.Equal(t, "Go backend", f.Title)
	assert.Equal(t, 2024, f.StartDate.Year())
	assert.Empty(t, f.Classes)

	_, err = s.Formation(ctx, fid+100)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestInsertRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	_, err := s.InsertUser(ctx, &models.User{Name: "Eve", Role: "janitor"})
	assert.True(t, models.IsValidation(err))

	_, err = s.InsertUser(ctx, &models.User{Name: "   ", Role: models.Student})
	assert.True(t, models.IsValidation(err))

	fid := testdb.Formation(t, s, "F")
	cid := testdb.Class(t, s, fid, "C")
	_, err = s.InsertActivity(ctx, &models.ClassActivity{Title: "A", ClassID: cid, IsScored: true, MaxScore: -1})
	assert.True(t, models.IsValidation(err))

	sid := testdb.Student(t, s, "S")
	bad := models.Rank("F")
	_, err = s.InsertFormationLink(ctx, &models.FormationStudentLink{StudentID: sid, FormationID: fid, Rank: &bad})
	assert.True(t, models.IsValidation(err))

	n, err := s.Count(ctx, models.KindFormationLink, db.All())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsertChecksParents(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	_, err := s.InsertClass(ctx, &models.Class{Title: "orphan", FormationID: 42})
	assert.True(t, models.IsNotFound(err))

	_, err = s.InsertActivity(ctx, &models.ClassActivity{Title: "orphan", ClassID: 42})
	assert.True(t, models.IsNotFound(err))

	f1 := testdb.Formation(t, s, "F1")
	f2 := testdb.Formation(t, s, "F2")
	c1 := testdb.Class(t, s, f1, "C1")

	a := &models.ClassActivity{Title: "A", ClassID: c1}
	_, err = s.InsertActivity(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, f1, a.FormationID)

	_, err = s.InsertActivity(ctx, &models.ClassActivity{Title: "B", ClassID: c1, FormationID: f2})
	assert.True(t, models.IsValidation(err))

	teacher := testdb.User(t, s, "T", models.Teacher)
	_, err = s.InsertFormationLink(ctx, &models.FormationStudentLink{StudentID: teacher, FormationID: f1})
	assert.True(t, models.IsValidation(err))

	sid := testdb.Student(t, s, "S")
	_, err = s.InsertClassLink(ctx, &models.ClassStudentLink{StudentID: sid, ClassID: 999})
	assert.True(t, models.IsNotFound(err))
}

func TestActivityLinkScoreBound(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	fid := testdb.Formation(t, s, "F")
	cid := testdb.Class(t, s, fid, "C")
	aid := testdb.Activity(t, s, cid, "Quiz", 10)
	sid := testdb.Student(t, s, "S")

	_, err := s.InsertActivityLink(ctx, &models.ClassActivityStudentLink{StudentID: sid, ClassActivityID: aid, Score: models.IntPtr(11)})
	assert.True(t, models.IsValidation(err))

	lid := testdb.ActivityLink(t, s, sid, aid, nil)
	require.NoError(t, s.UpdateActivityLink(ctx, lid, models.ScorePatch{Score: models.IntPtr(7)}))

	l, err := s.ActivityLink(ctx, lid)
	require.NoError(t, err)
	require.NotNil(t, l.Score)
	assert.Equal(t, 7, *l.Score)

	err = s.UpdateActivityLink(ctx, lid, models.ScorePatch{Score: models.IntPtr(12)})
	assert.True(t, models.IsValidation(err))

	require.NoError(t, s.UpdateActivityLink(ctx, lid, models.ScorePatch{Clear: true}))
	l, err = s.ActivityLink(ctx, lid)
	require.NoError(t, err)
	assert.Nil(t, l.Score)
}

func TestUpdateActivity_MaxScoreNotBelowScores(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	fid := testdb.Formation(t, s, "F")
	cid := testdb.Class(t, s, fid, "C")
	aid := testdb.Activity(t, s, cid, "Quiz", 100)
	sid := testdb.Student(t, s, "S")
	testdb.ActivityLink(t, s, sid, aid, models.IntPtr(80))

	err := s.UpdateActivity(ctx, aid, models.ClassActivityPatch{MaxScore: models.IntPtr(10)})
	assert.True(t, models.IsValidation(err))
	a, err := s.Activity(ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, 100, a.MaxScore)

	require.NoError(t, s.UpdateActivity(ctx, aid, models.ClassActivityPatch{MaxScore: models.IntPtr(80)}))

	// без оценивания максимум обнуляется, оценки просто перестают учитываться
	unscored := false
	require.NoError(t, s.UpdateActivity(ctx, aid, models.ClassActivityPatch{IsScored: &unscored}))
	a, err = s.Activity(ctx, aid)
	require.NoError(t, err)
	assert.False(t, a.IsScored)
	assert.Zero(t, a.MaxScore)
}

func TestUpdateUser_RoleChangeKeepsLinksConsistent(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	fid := testdb.Formation(t, s, "F")
	sid := testdb.Student(t, s, "S")
	lid := testdb.FormationLink(t, s, sid, fid, models.RankPtr(models.RankA))

	teacher := models.Teacher
	err := s.UpdateUser(ctx, sid, models.UserPatch{Role: &teacher})
	assert.True(t, models.IsValidation(err))
	u, err := s.User(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, models.Student, u.Role)

	name := "Renamed"
	require.NoError(t, s.UpdateUser(ctx, sid, models.UserPatch{Name: &name}))

	_, err = s.DeleteWhere(ctx, models.KindFormationLink, db.ByID(lid))
	require.NoError(t, err)
	require.NoError(t, s.UpdateUser(ctx, sid, models.UserPatch{Role: &teacher}))
	u, err = s.User(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, models.Teacher, u.Role)
	assert.Equal(t, "Renamed", u.Name)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	fid := testdb.Formation(t, s, "Old")
	title := "New"
	require.NoError(t, s.UpdateFormation(ctx, fid, models.FormationPatch{Title: &title}))

	f, err := s.Formation(ctx, fid)
	require.NoError(t, err)
	assert.Equal(t, "New", f.Title)

	err = s.UpdateFormation(ctx, fid+1, models.FormationPatch{Title: &title})
	assert.True(t, models.IsNotFound(err))

	empty := ""
	err = s.UpdateFormation(ctx, fid, models.FormationPatch{Title: &empty})
	assert.True(t, models.IsValidation(err))

	sid := testdb.Student(t, s, "S")
	lid := testdb.FormationLink(t, s, sid, fid, nil)
	require.NoError(t, s.UpdateFormationLink(ctx, lid, models.RankPatch{Rank: models.RankPtr(models.RankB)}))
	l, err := s.FormationLink(ctx, lid)
	require.NoError(t, err)
	assert.Equal(t, "B", models.RankString(l.Rank))

	require.NoError(t, s.UpdateFormationLink(ctx, lid, models.RankPatch{Clear: true}))
	l, err = s.FormationLink(ctx, lid)
	require.NoError(t, err)
	assert.Nil(t, l.Rank)
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	fid := testdb.Formation(t, s, "F")
	c1 := testdb.Class(t, s, fid, "C1")
	c2 := testdb.Class(t, s, fid, "C2")
	c3 := testdb.Class(t, s, fid, "C3")

	ids, err := s.IDs(ctx, models.KindClass, db.Where(db.InIDs("id", []int64{c3, c1})))
	require.NoError(t, err)
	assert.Equal(t, []int64{c1, c3}, ids)

	ids, err = s.IDs(ctx, models.KindClass, db.Where(db.InIDs("id", nil)))
	require.NoError(t, err)
	assert.Empty(t, ids)

	classes, err := s.Classes(ctx, db.Where(db.Eq("formation_id", fid), db.Gt("id", c1)))
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, c2, classes[0].ID)

	_, err = s.Classes(ctx, db.Where(db.Eq("no_such_column", 1)))
	assert.True(t, models.IsValidation(err))

	sid := testdb.Student(t, s, "S")
	testdb.FormationLink(t, s, sid, fid, nil)
	testdb.FormationLink(t, s, sid, fid, models.RankPtr(models.RankA))
	n, err := s.Count(ctx, models.KindFormationLink, db.Where(db.IsNull("rank")))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.Count(ctx, models.KindFormationLink, db.Where(db.NotNull("rank")))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteWhere(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	testdb.Student(t, s, "A")
	testdb.Student(t, s, "B")

	_, err := s.DeleteWhere(ctx, models.KindUser, db.Filter{})
	assert.True(t, models.IsValidation(err))

	n, err := s.DeleteWhere(ctx, models.KindUser, db.Where(db.Eq("name", "A")))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.DeleteWhere(ctx, models.KindUser, db.All())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	fid := testdb.Formation(t, s, "F")
	testdb.Class(t, s, fid, "C")

	_, err := s.DeleteWhere(ctx, models.KindFormation, db.ByID(fid))
	require.Error(t, err)
}

func TestExpand(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	fid := testdb.Formation(t, s, "F")
	c1 := testdb.Class(t, s, fid, "C1")
	c2 := testdb.Class(t, s, fid, "C2")
	a1 := testdb.Activity(t, s, c1, "A1", 100)
	testdb.Activity(t, s, c1, "A2", 0)
	sid := testdb.Student(t, s, "S")
	testdb.ActivityLink(t, s, sid, a1, models.IntPtr(80))

	f, err := s.Formation(ctx, fid, db.RelClasses)
	require.NoError(t, err)
	require.Len(t, f.Classes, 2)
	assert.Equal(t, c2, f.Classes[1].ID)

	classes, err := s.Classes(ctx, db.Where(db.Eq("formation_id", fid)), db.RelFormation, db.RelActivities)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	require.NotNil(t, classes[0].Formation)
	assert.Equal(t, "F", classes[0].Formation.Title)
	assert.Len(t, classes[0].Activities, 2)
	assert.Empty(t, classes[1].Activities)

	links, err := s.ActivityLinks(ctx, db.Where(db.Eq("student_id", sid)), db.RelStudent, db.RelActivity)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "S", links[0].Student.Name)
	assert.Equal(t, "A1", links[0].Activity.Title)
	assert.True(t, links[0].Activity.IsScored)

	_, err = s.Formations(ctx, db.All(), db.RelStudent)
	assert.True(t, models.IsValidation(err))
}

func TestRoster(t *testing.T) {
	ctx := context.Background()
	s := testdb.NewSQLite(t)

	f := testdb.Formation(t, s, "F")
	c := testdb.Class(t, s, f, "C")
	a := testdb.Activity(t, s, c, "A", 10)
	bob := testdb.Student(t, s, "bob")
	testdb.User(t, s, "Alice", models.Teacher)
	testdb.FormationLink(t, s, bob, f, nil)
	testdb.ClassLink(t, s, bob, c, nil)
	testdb.ActivityLink(t, s, bob, a, nil)

	rows, err := s.Roster(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Name)
	assert.Zero(t, rows[0].Formations)
	assert.Equal(t, db.RosterRow{ID: bob, Name: "bob", Role: models.Student, Formations: 1, Classes: 1, Activities: 1}, rows[1])
}
