package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/school-console/internal/metrics"
	"github.com/Spok95/school-console/internal/models"
)

// Reference: строка child, чьё поле Field указывает на ParentID.
type Reference struct {
	Kind     models.Kind
	ID       int64
	Field    string
	Parent   models.Kind
	ParentID int64
}

func (r Reference) String() string {
	return fmt.Sprintf("%s %d: %s=%d", r.Kind, r.ID, r.Field, r.ParentID)
}

// Dangling находит строки child, у которых field ссылается на отсутствующую строку parent.
// При включённых внешних ключах результат пуст; проверка нужна для баз, открытых без них.
func (s *Store) Dangling(ctx context.Context, child models.Kind, field string, parent models.Kind) (out []Reference, err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("dangling", string(child), started, err) }()

	ct, err := tableFor(child)
	if err != nil {
		return nil, err
	}
	pt, err := tableFor(parent)
	if err != nil {
		return nil, err
	}
	if !ct.hasColumn(field) {
		return nil, models.Validation(child, "Dangling", fmt.Sprintf("unknown column %q", field))
	}
	q := fmt.Sprintf(`SELECT c.id, c.%[1]s FROM %[2]s c LEFT JOIN %[3]s p ON p.id = c.%[1]s WHERE p.id IS NULL ORDER BY c.id`,
		field, ct.name, pt.name)
	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("dangling %s.%s: %w", child, field, err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		r := Reference{Kind: child, Field: field, Parent: parent}
		if err := rows.Scan(&r.ID, &r.ParentID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MismatchedActivities: активности, чей formation_id расходится с formation_id их класса.
func (s *Store) MismatchedActivities(ctx context.Context) (out []Reference, err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("mismatch", string(models.KindActivity), started, err) }()

	rows, err := s.query(ctx, `
		SELECT a.id, a.formation_id
		FROM class_activities a
		JOIN classes c ON c.id = a.class_id
		WHERE a.formation_id <> c.formation_id
		ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("mismatched activities: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		r := Reference{Kind: models.KindActivity, Field: "formation_id", Parent: models.KindFormation}
		if err := rows.Scan(&r.ID, &r.ParentID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
