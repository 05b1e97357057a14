// Package enroll registers students into formations, classes and activities
// and records their ranks and scores.
package enroll

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/cascade"
	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/logging"
	"github.com/Spok95/school-console/internal/models"
)

type Service struct {
	store *db.Store
	casc  *cascade.Engine
	log   *zap.Logger
}

func New(store *db.Store, casc *cascade.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, casc: casc, log: log.Named("enroll")}
}

// parentField: колонка связи, указывающая на родителя.
func parentField(kind models.Kind) (string, error) {
	switch kind {
	case models.KindFormationLink:
		return "formation_id", nil
	case models.KindClassLink:
		return "class_id", nil
	case models.KindActivityLink:
		return "class_activity_id", nil
	}
	return "", models.Validation(kind, "Enroll", fmt.Sprintf("%s is not a link kind", kind))
}

// Registered возвращает id родителей, в которые записан студент, и id соответствующих связей.
func (s *Service) Registered(ctx context.Context, kind models.Kind, studentID int64) (map[int64]int64, error) {
	field, err := parentField(kind)
	if err != nil {
		return nil, err
	}
	out := map[int64]int64{}
	f := db.Where(db.Eq("student_id", studentID))
	switch kind {
	case models.KindFormationLink:
		links, err := s.store.FormationLinks(ctx, f)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			out[l.FormationID] = l.ID
		}
	case models.KindClassLink:
		links, err := s.store.ClassLinks(ctx, f)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			out[l.ClassID] = l.ID
		}
	default:
		links, err := s.store.ActivityLinks(ctx, f)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			out[l.ClassActivityID] = l.ID
		}
	}
	s.log.Debug("registrations", zap.String("kind", string(kind)), zap.String("by", field), zap.Int("count", len(out)))
	return out, nil
}

func (s *Service) isRegistered(ctx context.Context, kind models.Kind, studentID, parentID int64) (bool, error) {
	field, err := parentField(kind)
	if err != nil {
		return false, err
	}
	n, err := s.store.Count(ctx, kind, db.Where(db.Eq("student_id", studentID), db.Eq(field, parentID)))
	return n > 0, err
}

func (s *Service) ensureNew(ctx context.Context, kind models.Kind, op string, studentID, parentID int64) error {
	dup, err := s.isRegistered(ctx, kind, studentID, parentID)
	if err != nil {
		return err
	}
	if dup {
		return models.Validation(kind, op, fmt.Sprintf("student %d is already registered", studentID))
	}
	return nil
}

func (s *Service) RegisterFormation(ctx context.Context, studentID, formationID int64) (int64, error) {
	if _, err := s.store.Student(ctx, studentID); err != nil {
		return 0, err
	}
	if err := s.ensureNew(ctx, models.KindFormationLink, "RegisterFormation", studentID, formationID); err != nil {
		return 0, err
	}
	id, err := s.store.InsertFormationLink(ctx, &models.FormationStudentLink{StudentID: studentID, FormationID: formationID})
	if err != nil {
		return 0, err
	}
	logging.With(ctx, s.log).Info("registered", zap.Int64("student_id", studentID), zap.Int64("formation_id", formationID))
	return id, nil
}

// RegisterClass требует записи студента в формацию класса.
func (s *Service) RegisterClass(ctx context.Context, studentID, classID int64) (int64, error) {
	if _, err := s.store.Student(ctx, studentID); err != nil {
		return 0, err
	}
	c, err := s.store.Class(ctx, classID)
	if err != nil {
		return 0, err
	}
	ok, err := s.isRegistered(ctx, models.KindFormationLink, studentID, c.FormationID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, models.Validation(models.KindClassLink, "RegisterClass",
			fmt.Sprintf("student %d is not registered in formation %d", studentID, c.FormationID))
	}
	if err := s.ensureNew(ctx, models.KindClassLink, "RegisterClass", studentID, classID); err != nil {
		return 0, err
	}
	id, err := s.store.InsertClassLink(ctx, &models.ClassStudentLink{StudentID: studentID, ClassID: classID})
	if err != nil {
		return 0, err
	}
	logging.With(ctx, s.log).Info("registered", zap.Int64("student_id", studentID), zap.Int64("class_id", classID))
	return id, nil
}

// RegisterActivity требует записи студента в класс активности.
func (s *Service) RegisterActivity(ctx context.Context, studentID, activityID int64) (int64, error) {
	if _, err := s.store.Student(ctx, studentID); err != nil {
		return 0, err
	}
	a, err := s.store.Activity(ctx, activityID)
	if err != nil {
		return 0, err
	}
	ok, err := s.isRegistered(ctx, models.KindClassLink, studentID, a.ClassID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, models.Validation(models.KindActivityLink, "RegisterActivity",
			fmt.Sprintf("student %d is not registered in class %d", studentID, a.ClassID))
	}
	if err := s.ensureNew(ctx, models.KindActivityLink, "RegisterActivity", studentID, activityID); err != nil {
		return 0, err
	}
	id, err := s.store.InsertActivityLink(ctx, &models.ClassActivityStudentLink{StudentID: studentID, ClassActivityID: activityID})
	if err != nil {
		return 0, err
	}
	logging.With(ctx, s.log).Info("registered", zap.Int64("student_id", studentID), zap.Int64("activity_id", activityID))
	return id, nil
}

// Unregister удаляет одну связь через каскадный движок.
func (s *Service) Unregister(ctx context.Context, kind models.Kind, linkID int64) (cascade.Result, error) {
	return s.casc.Unlink(ctx, kind, linkID)
}

// UnregisterFrom снимает студента с родителя (формации, класса, активности).
// Если студент не записан: NotFoundError.
func (s *Service) UnregisterFrom(ctx context.Context, kind models.Kind, studentID, parentID int64) (cascade.Result, error) {
	field, err := parentField(kind)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.IDs(ctx, kind, db.Where(db.Eq("student_id", studentID), db.Eq(field, parentID)))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, models.NotFoundf(kind, "UnregisterFrom", "student %d is not registered in %s %d", studentID, field, parentID)
	}
	return s.casc.DeleteCascade(ctx, kind, db.Where(db.InIDs("id", ids)))
}
