package db

import (
	"context"
	"fmt"

	"github.com/Spok95/school-console/internal/models"
)

// Relation names a relationship that reads may attach eagerly.
// Each requested relation costs exactly one batched IN query.
type Relation string

const (
	RelFormation  Relation = "formation"
	RelClass      Relation = "class"
	RelActivity   Relation = "activity"
	RelStudent    Relation = "student"
	RelClasses    Relation = "classes"
	RelActivities Relation = "activities"
)

var relations = map[models.Kind][]Relation{
	models.KindFormation:     {RelClasses},
	models.KindClass:         {RelFormation, RelActivities},
	models.KindActivity:      {RelClass, RelFormation},
	models.KindUser:          nil,
	models.KindFormationLink: {RelStudent, RelFormation},
	models.KindClassLink:     {RelStudent, RelClass},
	models.KindActivityLink:  {RelStudent, RelActivity},
}

func checkRelations(kind models.Kind, rels []Relation) error {
	for _, r := range rels {
		ok := false
		for _, allowed := range relations[kind] {
			if r == allowed {
				ok = true
				break
			}
		}
		if !ok {
			return models.Validation(kind, "Expand", fmt.Sprintf("unknown relation %q", r))
		}
	}
	return nil
}

func wants(rels []Relation, r Relation) bool {
	for _, x := range rels {
		if x == r {
			return true
		}
	}
	return false
}

func uniqIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func collect[T any](items []T, key func(*T) int64) []int64 {
	ids := make([]int64, 0, len(items))
	for i := range items {
		ids = append(ids, key(&items[i]))
	}
	return uniqIDs(ids)
}

func byID[T any](items []T, key func(*T) int64) map[int64]*T {
	m := make(map[int64]*T, len(items))
	for i := range items {
		m[key(&items[i])] = &items[i]
	}
	return m
}

func (s *Store) formationsByID(ctx context.Context, ids []int64) (map[int64]*models.Formation, error) {
	items, err := s.Formations(ctx, Where(InIDs("id", ids)))
	if err != nil {
		return nil, err
	}
	return byID(items, func(f *models.Formation) int64 { return f.ID }), nil
}

func (s *Store) classesByID(ctx context.Context, ids []int64) (map[int64]*models.Class, error) {
	items, err := s.Classes(ctx, Where(InIDs("id", ids)))
	if err != nil {
		return nil, err
	}
	return byID(items, func(c *models.Class) int64 { return c.ID }), nil
}

func (s *Store) activitiesByID(ctx context.Context, ids []int64) (map[int64]*models.ClassActivity, error) {
	items, err := s.Activities(ctx, Where(InIDs("id", ids)))
	if err != nil {
		return nil, err
	}
	return byID(items, func(a *models.ClassActivity) int64 { return a.ID }), nil
}

func (s *Store) usersByID(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	items, err := s.Users(ctx, Where(InIDs("id", ids)))
	if err != nil {
		return nil, err
	}
	return byID(items, func(u *models.User) int64 { return u.ID }), nil
}

func (s *Store) expandFormations(ctx context.Context, items []models.Formation, rels []Relation) error {
	if len(items) == 0 || !wants(rels, RelClasses) {
		return nil
	}
	ids := collect(items, func(f *models.Formation) int64 { return f.ID })
	classes, err := s.Classes(ctx, Where(InIDs("formation_id", ids)))
	if err != nil {
		return err
	}
	grouped := make(map[int64][]models.Class, len(ids))
	for _, c := range classes {
		grouped[c.FormationID] = append(grouped[c.FormationID], c)
	}
	for i := range items {
		items[i].Classes = grouped[items[i].ID]
	}
	return nil
}

func (s *Store) expandClasses(ctx context.Context, items []models.Class, rels []Relation) error {
	if len(items) == 0 {
		return nil
	}
	if wants(rels, RelFormation) {
		m, err := s.formationsByID(ctx, collect(items, func(c *models.Class) int64 { return c.FormationID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Formation = m[items[i].FormationID]
		}
	}
	if wants(rels, RelActivities) {
		ids := collect(items, func(c *models.Class) int64 { return c.ID })
		acts, err := s.Activities(ctx, Where(InIDs("class_id", ids)))
		if err != nil {
			return err
		}
		grouped := make(map[int64][]models.ClassActivity, len(ids))
		for _, a := range acts {
			grouped[a.ClassID] = append(grouped[a.ClassID], a)
		}
		for i := range items {
			items[i].Activities = grouped[items[i].ID]
		}
	}
	return nil
}

func (s *Store) expandActivities(ctx context.Context, items []models.ClassActivity, rels []Relation) error {
	if len(items) == 0 {
		return nil
	}
	if wants(rels, RelClass) {
		m, err := s.classesByID(ctx, collect(items, func(a *models.ClassActivity) int64 { return a.ClassID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Class = m[items[i].ClassID]
		}
	}
	if wants(rels, RelFormation) {
		m, err := s.formationsByID(ctx, collect(items, func(a *models.ClassActivity) int64 { return a.FormationID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Formation = m[items[i].FormationID]
		}
	}
	return nil
}

func (s *Store) expandFormationLinks(ctx context.Context, items []models.FormationStudentLink, rels []Relation) error {
	if len(items) == 0 {
		return nil
	}
	if wants(rels, RelStudent) {
		m, err := s.usersByID(ctx, collect(items, func(l *models.FormationStudentLink) int64 { return l.StudentID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Student = m[items[i].StudentID]
		}
	}
	if wants(rels, RelFormation) {
		m, err := s.formationsByID(ctx, collect(items, func(l *models.FormationStudentLink) int64 { return l.FormationID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Formation = m[items[i].FormationID]
		}
	}
	return nil
}

func (s *Store) expandClassLinks(ctx context.Context, items []models.ClassStudentLink, rels []Relation) error {
	if len(items) == 0 {
		return nil
	}
	if wants(rels, RelStudent) {
		m, err := s.usersByID(ctx, collect(items, func(l *models.ClassStudentLink) int64 { return l.StudentID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Student = m[items[i].StudentID]
		}
	}
	if wants(rels, RelClass) {
		m, err := s.classesByID(ctx, collect(items, func(l *models.ClassStudentLink) int64 { return l.ClassID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Class = m[items[i].ClassID]
		}
	}
	return nil
}

func (s *Store) expandActivityLinks(ctx context.Context, items []models.ClassActivityStudentLink, rels []Relation) error {
	if len(items) == 0 {
		return nil
	}
	if wants(rels, RelStudent) {
		m, err := s.usersByID(ctx, collect(items, func(l *models.ClassActivityStudentLink) int64 { return l.StudentID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Student = m[items[i].StudentID]
		}
	}
	if wants(rels, RelActivity) {
		m, err := s.activitiesByID(ctx, collect(items, func(l *models.ClassActivityStudentLink) int64 { return l.ClassActivityID }))
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Activity = m[items[i].ClassActivityID]
		}
	}
	return nil
}
