package enroll

import (
	"context"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
)

func keys(m map[int64]int64) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// AvailableFormations: формации, куда студент ещё не записан.
func (s *Service) AvailableFormations(ctx context.Context, studentID int64) ([]models.Formation, error) {
	reg, err := s.Registered(ctx, models.KindFormationLink, studentID)
	if err != nil {
		return nil, err
	}
	all, err := s.store.Formations(ctx, db.All())
	if err != nil {
		return nil, err
	}
	var out []models.Formation
	for _, f := range all {
		if _, ok := reg[f.ID]; !ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// AvailableClasses: классы формаций студента, куда он ещё не записан.
func (s *Service) AvailableClasses(ctx context.Context, studentID int64) ([]models.Class, error) {
	formations, err := s.Registered(ctx, models.KindFormationLink, studentID)
	if err != nil {
		return nil, err
	}
	reg, err := s.Registered(ctx, models.KindClassLink, studentID)
	if err != nil {
		return nil, err
	}
	classes, err := s.store.Classes(ctx, db.Where(db.InIDs("formation_id", keys(formations))), db.RelFormation)
	if err != nil {
		return nil, err
	}
	var out []models.Class
	for _, c := range classes {
		if _, ok := reg[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// AvailableActivities: активности классов студента, куда он ещё не записан.
func (s *Service) AvailableActivities(ctx context.Context, studentID int64) ([]models.ClassActivity, error) {
	classes, err := s.Registered(ctx, models.KindClassLink, studentID)
	if err != nil {
		return nil, err
	}
	reg, err := s.Registered(ctx, models.KindActivityLink, studentID)
	if err != nil {
		return nil, err
	}
	acts, err := s.store.Activities(ctx, db.Where(db.InIDs("class_id", keys(classes))), db.RelClass)
	if err != nil {
		return nil, err
	}
	var out []models.ClassActivity
	for _, a := range acts {
		if _, ok := reg[a.ID]; !ok {
			out = append(out, a)
		}
	}
	return out, nil
}
