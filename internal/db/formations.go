package db

import (
	"context"

	"github.com/Spok95/school-console/internal/models"
)

func scanFormation(r rowScanner) (models.Formation, error) {
	var f models.Formation
	err := r.Scan(&f.ID, &f.Title, &f.Description, &f.StartDate, &f.EndDate)
	return f, err
}

func formationValues(f *models.Formation) []any {
	return []any{f.Title, f.Description, dateValue(f.StartDate), dateValue(f.EndDate)}
}

func (s *Store) InsertFormation(ctx context.Context, f *models.Formation) (int64, error) {
	if err := models.Validate(models.KindFormation, f); err != nil {
		return 0, err
	}
	id, err := s.insertRow(ctx, models.KindFormation, formationValues(f)...)
	if err != nil {
		return 0, err
	}
	f.ID = id
	return id, nil
}

func (s *Store) UpdateFormation(ctx context.Context, id int64, p models.FormationPatch) error {
	f, err := s.Formation(ctx, id)
	if err != nil {
		return err
	}
	p.Apply(f)
	if err := models.Validate(models.KindFormation, f); err != nil {
		return err
	}
	return s.updateRow(ctx, models.KindFormation, id, formationValues(f)...)
}

func (s *Store) Formation(ctx context.Context, id int64, rels ...Relation) (*models.Formation, error) {
	if err := checkRelations(models.KindFormation, rels); err != nil {
		return nil, err
	}
	f, err := selectOne(ctx, s, models.KindFormation, id, scanFormation)
	if err != nil {
		return nil, err
	}
	items := []models.Formation{*f}
	if err := s.expandFormations(ctx, items, rels); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Store) Formations(ctx context.Context, f Filter, rels ...Relation) ([]models.Formation, error) {
	if err := checkRelations(models.KindFormation, rels); err != nil {
		return nil, err
	}
	items, err := selectMany(ctx, s, models.KindFormation, f, scanFormation)
	if err != nil {
		return nil, err
	}
	return items, s.expandFormations(ctx, items, rels)
}
