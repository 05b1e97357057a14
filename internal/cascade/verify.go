package cascade

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/metrics"
	"github.com/Spok95/school-console/internal/models"
)

// ref: внешний ключ child.field → parent.
type ref struct {
	child  models.Kind
	field  string
	parent models.Kind
}

var refs = []ref{
	{models.KindClass, "formation_id", models.KindFormation},
	{models.KindActivity, "class_id", models.KindClass},
	{models.KindActivity, "formation_id", models.KindFormation},
	{models.KindFormationLink, "formation_id", models.KindFormation},
	{models.KindFormationLink, "student_id", models.KindUser},
	{models.KindClassLink, "class_id", models.KindClass},
	{models.KindClassLink, "student_id", models.KindUser},
	{models.KindActivityLink, "class_activity_id", models.KindActivity},
	{models.KindActivityLink, "student_id", models.KindUser},
}

// verify пересчитывает ссылки на удалённые id. Любая выжившая ссылка: IntegrityViolation.
func (r *run) verify(ctx context.Context) error {
	var survivors []string
	for _, rf := range refs {
		parents := r.removed[rf.parent]
		if len(parents) == 0 {
			continue
		}
		for _, part := range chunks(parents, r.e.chunk) {
			n, err := r.e.store.Count(ctx, rf.child, db.Where(db.InIDs(rf.field, part)))
			if err != nil {
				return fmt.Errorf("cascade %s: verify %s.%s: %w", r.root, rf.child, rf.field, err)
			}
			if n > 0 {
				survivors = append(survivors, fmt.Sprintf("%d %s rows via %s", n, rf.child, rf.field))
			}
		}
	}
	if len(survivors) > 0 {
		return models.Integrity(r.root, "DeleteCascade",
			"rows still reference removed parents: "+strings.Join(survivors, ", "))
	}
	return nil
}

// Audit обходит всё хранилище и возвращает строки, ссылающиеся на несуществующих
// родителей, а также активности с formation_id, отличным от их класса.
func (e *Engine) Audit(ctx context.Context) ([]db.Reference, error) {
	var out []db.Reference
	for _, rf := range refs {
		found, err := e.store.Dangling(ctx, rf.child, rf.field, rf.parent)
		if err != nil {
			return nil, fmt.Errorf("audit %s.%s: %w", rf.child, rf.field, err)
		}
		out = append(out, found...)
	}
	mism, err := e.store.MismatchedActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit activities: %w", err)
	}
	out = append(out, mism...)

	metrics.Orphans.Set(float64(len(out)))
	if len(out) > 0 {
		e.log.Warn("integrity audit found orphans", zap.Int("count", len(out)))
	}
	return out, nil
}
