package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/school-console/internal/metrics"
	"github.com/Spok95/school-console/internal/models"
)

// RosterRow: пользователь и число его записей на каждом уровне.
type RosterRow struct {
	ID         int64
	Name       string
	Role       models.Role
	Formations int
	Classes    int
	Activities int
}

// Roster перечисляет пользователей по алфавиту (без учёта регистра) со счётчиками связей.
// У не-студентов связей нет, счётчики нулевые.
func (s *Store) Roster(ctx context.Context) (out []RosterRow, err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("roster", string(models.KindUser), started, err) }()

	const q = `
		SELECT u.id, u.name, u.role,
		       (SELECT COUNT(*) FROM formation_student_links l WHERE l.student_id = u.id),
		       (SELECT COUNT(*) FROM class_student_links l WHERE l.student_id = u.id),
		       (SELECT COUNT(*) FROM class_activity_student_links l WHERE l.student_id = u.id)
		FROM users u
		ORDER BY LOWER(u.name), u.id`

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r RosterRow
		var role string
		if err := rows.Scan(&r.ID, &r.Name, &role, &r.Formations, &r.Classes, &r.Activities); err != nil {
			return nil, fmt.Errorf("roster scan: %w", err)
		}
		r.Role = models.Role(role)
		out = append(out, r)
	}
	return out, rows.Err()
}
