package db

import (
	"context"

	"github.com/Spok95/school-console/internal/models"
)

func scanClass(r rowScanner) (models.Class, error) {
	var c models.Class
	err := r.Scan(&c.ID, &c.Title, &c.Description, &c.FormationID, &c.StartDate, &c.EndDate)
	return c, err
}

func classValues(c *models.Class) []any {
	return []any{c.Title, c.Description, c.FormationID, dateValue(c.StartDate), dateValue(c.EndDate)}
}

// InsertClass требует существующую формацию.
func (s *Store) InsertClass(ctx context.Context, c *models.Class) (int64, error) {
	if err := models.Validate(models.KindClass, c); err != nil {
		return 0, err
	}
	ok, err := s.exists(ctx, models.KindFormation, c.FormationID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, models.NotFound(models.KindFormation, "InsertClass", c.FormationID)
	}
	id, err := s.insertRow(ctx, models.KindClass, classValues(c)...)
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

func (s *Store) UpdateClass(ctx context.Context, id int64, p models.ClassPatch) error {
	c, err := s.Class(ctx, id)
	if err != nil {
		return err
	}
	p.Apply(c)
	if err := models.Validate(models.KindClass, c); err != nil {
		return err
	}
	return s.updateRow(ctx, models.KindClass, id, classValues(c)...)
}

func (s *Store) Class(ctx context.Context, id int64, rels ...Relation) (*models.Class, error) {
	if err := checkRelations(models.KindClass, rels); err != nil {
		return nil, err
	}
	c, err := selectOne(ctx, s, models.KindClass, id, scanClass)
	if err != nil {
		return nil, err
	}
	items := []models.Class{*c}
	if err := s.expandClasses(ctx, items, rels); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Store) Classes(ctx context.Context, f Filter, rels ...Relation) ([]models.Class, error) {
	if err := checkRelations(models.KindClass, rels); err != nil {
		return nil, err
	}
	items, err := selectMany(ctx, s, models.KindClass, f, scanClass)
	if err != nil {
		return nil, err
	}
	return items, s.expandClasses(ctx, items, rels)
}
