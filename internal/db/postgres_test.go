//go:build testutil
// +build testutil

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

func TestPostgres_RoundTrip(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	s := h.Store

	fid := testdb.Formation(t, s, "F")
	cid := testdb.Class(t, s, fid, "C")
	aid := testdb.Activity(t, s, cid, "A", 100)
	sid := testdb.Student(t, s, "S")
	testdb.FormationLink(t, s, sid, fid, models.RankPtr(models.RankB))
	testdb.ActivityLink(t, s, sid, aid, models.IntPtr(80))

	links, err := s.FormationLinks(ctx, db.Where(db.Eq("student_id", sid)), db.RelFormation)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "B", models.RankString(links[0].Rank))
	assert.Equal(t, "F", links[0].Formation.Title)

	acts, err := s.Activities(ctx, db.Where(db.In("id", aid)), db.RelClass)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, fid, acts[0].FormationID)
	assert.Equal(t, "C", acts[0].Class.Title)

	_, err = s.DeleteWhere(ctx, models.KindFormation, db.ByID(fid))
	require.Error(t, err, "foreign keys must block a parent delete")
}
