package cascade

import (
	"context"
	"fmt"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
)

func (e *Engine) DeleteFormation(ctx context.Context, id int64) (Result, error) {
	return e.DeleteCascade(ctx, models.KindFormation, db.ByID(id), ExpectOne())
}

func (e *Engine) DeleteClass(ctx context.Context, id int64) (Result, error) {
	return e.DeleteCascade(ctx, models.KindClass, db.ByID(id), ExpectOne())
}

func (e *Engine) DeleteActivity(ctx context.Context, id int64) (Result, error) {
	return e.DeleteCascade(ctx, models.KindActivity, db.ByID(id), ExpectOne())
}

func (e *Engine) DeleteUser(ctx context.Context, id int64) (Result, error) {
	return e.DeleteCascade(ctx, models.KindUser, db.ByID(id), ExpectOne())
}

// Unlink удаляет одну связь студента. Для остальных видов: ValidationError.
func (e *Engine) Unlink(ctx context.Context, kind models.Kind, linkID int64) (Result, error) {
	if !kind.IsLink() {
		return nil, models.Validation(kind, "Unlink", fmt.Sprintf("%s is not a link kind", kind))
	}
	return e.DeleteCascade(ctx, kind, db.ByID(linkID), ExpectOne())
}

// DeleteAll очищает все таблицы: формации со всем содержимым, затем пользователей
// с оставшимися связями.
func (e *Engine) DeleteAll(ctx context.Context) (Result, error) {
	res := Result{}
	for _, k := range []models.Kind{models.KindFormation, models.KindUser} {
		r, err := e.DeleteCascade(ctx, k, db.All())
		res.merge(r)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
