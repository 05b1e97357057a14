package db

import (
	"context"
	"fmt"

	"github.com/Spok95/school-console/internal/models"
)

func scanActivity(r rowScanner) (models.ClassActivity, error) {
	var a models.ClassActivity
	err := r.Scan(&a.ID, &a.Title, &a.Description, &a.ClassID, &a.FormationID,
		&a.IsScored, &a.MaxScore, &a.StartDate, &a.EndDate)
	return a, err
}

func activityValues(a *models.ClassActivity) []any {
	return []any{a.Title, a.Description, a.ClassID, a.FormationID,
		a.IsScored, a.MaxScore, dateValue(a.StartDate), dateValue(a.EndDate)}
}

// InsertActivity берёт formation_id из класса, если он не задан, и отвергает
// несовпадающий: активность и её класс обязаны принадлежать одной формации.
func (s *Store) InsertActivity(ctx context.Context, a *models.ClassActivity) (int64, error) {
	if a.ClassID <= 0 {
		return 0, models.Validation(models.KindActivity, "InsertActivity", "class_id is required")
	}
	c, err := s.Class(ctx, a.ClassID)
	if err != nil {
		if models.IsNotFound(err) {
			return 0, models.NotFound(models.KindClass, "InsertActivity", a.ClassID)
		}
		return 0, err
	}
	switch {
	case a.FormationID == 0:
		a.FormationID = c.FormationID
	case a.FormationID != c.FormationID:
		return 0, models.Validation(models.KindActivity, "InsertActivity",
			fmt.Sprintf("formation_id %d does not match class %d formation %d", a.FormationID, c.ID, c.FormationID))
	}
	if err := models.Validate(models.KindActivity, a); err != nil {
		return 0, err
	}
	id, err := s.insertRow(ctx, models.KindActivity, activityValues(a)...)
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

// UpdateActivity не двигает активность между классами. Снятие флага scored
// обнуляет max_score; новый max_score не может быть ниже выставленных оценок.
func (s *Store) UpdateActivity(ctx context.Context, id int64, p models.ClassActivityPatch) error {
	a, err := s.Activity(ctx, id)
	if err != nil {
		return err
	}
	p.Apply(a)
	if !a.IsScored {
		a.MaxScore = 0
	}
	if err := models.Validate(models.KindActivity, a); err != nil {
		return err
	}
	if a.IsScored {
		// уже выставленные оценки не должны превысить новый максимум
		n, err := s.Count(ctx, models.KindActivityLink, Where(Eq("class_activity_id", id), Gt("score", a.MaxScore)))
		if err != nil {
			return err
		}
		if n > 0 {
			return models.Validation(models.KindActivity, "Update",
				fmt.Sprintf("max score %d is below %d existing score(s)", a.MaxScore, n))
		}
	}
	return s.updateRow(ctx, models.KindActivity, id, activityValues(a)...)
}

func (s *Store) Activity(ctx context.Context, id int64, rels ...Relation) (*models.ClassActivity, error) {
	if err := checkRelations(models.KindActivity, rels); err != nil {
		return nil, err
	}
	a, err := selectOne(ctx, s, models.KindActivity, id, scanActivity)
	if err != nil {
		return nil, err
	}
	items := []models.ClassActivity{*a}
	if err := s.expandActivities(ctx, items, rels); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Store) Activities(ctx context.Context, f Filter, rels ...Relation) ([]models.ClassActivity, error) {
	if err := checkRelations(models.KindActivity, rels); err != nil {
		return nil, err
	}
	items, err := selectMany(ctx, s, models.KindActivity, f, scanActivity)
	if err != nil {
		return nil, err
	}
	return items, s.expandActivities(ctx, items, rels)
}
