package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-console/internal/models"
)

func scanFormationLink(r rowScanner) (models.FormationStudentLink, error) {
	var (
		l    models.FormationStudentLink
		rank sql.NullString
	)
	err := r.Scan(&l.ID, &l.StudentID, &l.FormationID, &rank)
	l.Rank = rankFromNull(rank)
	return l, err
}

func scanClassLink(r rowScanner) (models.ClassStudentLink, error) {
	var (
		l    models.ClassStudentLink
		rank sql.NullString
	)
	err := r.Scan(&l.ID, &l.StudentID, &l.ClassID, &rank)
	l.Rank = rankFromNull(rank)
	return l, err
}

func scanActivityLink(r rowScanner) (models.ClassActivityStudentLink, error) {
	var (
		l     models.ClassActivityStudentLink
		score sql.NullInt64
	)
	err := r.Scan(&l.ID, &l.StudentID, &l.ClassActivityID, &score)
	l.Score = intFromNull(score)
	return l, err
}

// checkParents проверяет студента и родителя связи до вставки.
func (s *Store) checkParents(ctx context.Context, op string, studentID int64, parent models.Kind, parentID int64) error {
	if _, err := s.Student(ctx, studentID); err != nil {
		if models.IsNotFound(err) {
			return models.NotFound(models.KindUser, op, studentID)
		}
		return err
	}
	ok, err := s.exists(ctx, parent, parentID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NotFound(parent, op, parentID)
	}
	return nil
}

func checkScore(op string, a *models.ClassActivity, score *int) error {
	if score == nil {
		return nil
	}
	if *score > a.MaxScore {
		return models.Validation(models.KindActivityLink, op,
			fmt.Sprintf("score %d exceeds max score %d of activity %d", *score, a.MaxScore, a.ID))
	}
	return nil
}

// --- formation links

func (s *Store) InsertFormationLink(ctx context.Context, l *models.FormationStudentLink) (int64, error) {
	if err := models.Validate(models.KindFormationLink, l); err != nil {
		return 0, err
	}
	if err := s.checkParents(ctx, "InsertFormationLink", l.StudentID, models.KindFormation, l.FormationID); err != nil {
		return 0, err
	}
	id, err := s.insertRow(ctx, models.KindFormationLink, l.StudentID, l.FormationID, nullRank(l.Rank))
	if err != nil {
		return 0, err
	}
	l.ID = id
	return id, nil
}

func (s *Store) UpdateFormationLink(ctx context.Context, id int64, p models.RankPatch) error {
	l, err := s.FormationLink(ctx, id)
	if err != nil {
		return err
	}
	p.ApplyFormation(l)
	if err := models.Validate(models.KindFormationLink, l); err != nil {
		return err
	}
	return s.updateRow(ctx, models.KindFormationLink, id, l.StudentID, l.FormationID, nullRank(l.Rank))
}

func (s *Store) FormationLink(ctx context.Context, id int64, rels ...Relation) (*models.FormationStudentLink, error) {
	if err := checkRelations(models.KindFormationLink, rels); err != nil {
		return nil, err
	}
	l, err := selectOne(ctx, s, models.KindFormationLink, id, scanFormationLink)
	if err != nil {
		return nil, err
	}
	items := []models.FormationStudentLink{*l}
	if err := s.expandFormationLinks(ctx, items, rels); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Store) FormationLinks(ctx context.Context, f Filter, rels ...Relation) ([]models.FormationStudentLink, error) {
	if err := checkRelations(models.KindFormationLink, rels); err != nil {
		return nil, err
	}
	items, err := selectMany(ctx, s, models.KindFormationLink, f, scanFormationLink)
	if err != nil {
		return nil, err
	}
	return items, s.expandFormationLinks(ctx, items, rels)
}

// --- class links

func (s *Store) InsertClassLink(ctx context.Context, l *models.ClassStudentLink) (int64, error) {
	if err := models.Validate(models.KindClassLink, l); err != nil {
		return 0, err
	}
	if err := s.checkParents(ctx, "InsertClassLink", l.StudentID, models.KindClass, l.ClassID); err != nil {
		return 0, err
	}
	id, err := s.insertRow(ctx, models.KindClassLink, l.StudentID, l.ClassID, nullRank(l.Rank))
	if err != nil {
		return 0, err
	}
	l.ID = id
	return id, nil
}

func (s *Store) UpdateClassLink(ctx context.Context, id int64, p models.RankPatch) error {
	l, err := s.ClassLink(ctx, id)
	if err != nil {
		return err
	}
	p.ApplyClass(l)
	if err := models.Validate(models.KindClassLink, l); err != nil {
		return err
	}
	return s.updateRow(ctx, models.KindClassLink, id, l.StudentID, l.ClassID, nullRank(l.Rank))
}

func (s *Store) ClassLink(ctx context.Context, id int64, rels ...Relation) (*models.ClassStudentLink, error) {
	if err := checkRelations(models.KindClassLink, rels); err != nil {
		return nil, err
	}
	l, err := selectOne(ctx, s, models.KindClassLink, id, scanClassLink)
	if err != nil {
		return nil, err
	}
	items := []models.ClassStudentLink{*l}
	if err := s.expandClassLinks(ctx, items, rels); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Store) ClassLinks(ctx context.Context, f Filter, rels ...Relation) ([]models.ClassStudentLink, error) {
	if err := checkRelations(models.KindClassLink, rels); err != nil {
		return nil, err
	}
	items, err := selectMany(ctx, s, models.KindClassLink, f, scanClassLink)
	if err != nil {
		return nil, err
	}
	return items, s.expandClassLinks(ctx, items, rels)
}

// --- activity links

// InsertActivityLink ограничивает score сверху max_score активности.
func (s *Store) InsertActivityLink(ctx context.Context, l *models.ClassActivityStudentLink) (int64, error) {
	if err := models.Validate(models.KindActivityLink, l); err != nil {
		return 0, err
	}
	if err := s.checkParents(ctx, "InsertActivityLink", l.StudentID, models.KindActivity, l.ClassActivityID); err != nil {
		return 0, err
	}
	a, err := s.Activity(ctx, l.ClassActivityID)
	if err != nil {
		return 0, err
	}
	if err := checkScore("InsertActivityLink", a, l.Score); err != nil {
		return 0, err
	}
	id, err := s.insertRow(ctx, models.KindActivityLink, l.StudentID, l.ClassActivityID, nullInt(l.Score))
	if err != nil {
		return 0, err
	}
	l.ID = id
	return id, nil
}

func (s *Store) UpdateActivityLink(ctx context.Context, id int64, p models.ScorePatch) error {
	l, err := s.ActivityLink(ctx, id, RelActivity)
	if err != nil {
		return err
	}
	p.Apply(l)
	if err := models.Validate(models.KindActivityLink, l); err != nil {
		return err
	}
	if l.Activity != nil {
		if err := checkScore("UpdateActivityLink", l.Activity, l.Score); err != nil {
			return err
		}
	}
	return s.updateRow(ctx, models.KindActivityLink, id, l.StudentID, l.ClassActivityID, nullInt(l.Score))
}

func (s *Store) ActivityLink(ctx context.Context, id int64, rels ...Relation) (*models.ClassActivityStudentLink, error) {
	if err := checkRelations(models.KindActivityLink, rels); err != nil {
		return nil, err
	}
	l, err := selectOne(ctx, s, models.KindActivityLink, id, scanActivityLink)
	if err != nil {
		return nil, err
	}
	items := []models.ClassActivityStudentLink{*l}
	if err := s.expandActivityLinks(ctx, items, rels); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Store) ActivityLinks(ctx context.Context, f Filter, rels ...Relation) ([]models.ClassActivityStudentLink, error) {
	if err := checkRelations(models.KindActivityLink, rels); err != nil {
		return nil, err
	}
	items, err := selectMany(ctx, s, models.KindActivityLink, f, scanActivityLink)
	if err != nil {
		return nil, err
	}
	return items, s.expandActivityLinks(ctx, items, rels)
}
