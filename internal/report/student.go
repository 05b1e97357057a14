package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/metrics"
	"github.com/Spok95/school-console/internal/models"
)

type ActivityScore struct {
	ActivityID int64
	Title      string
	Score      int
	MaxScore   int
}

type ClassEntry struct {
	ClassID    int64
	Title      string
	Rank       *models.Rank
	Activities []ActivityScore
}

type FormationEntry struct {
	FormationID int64
	Title       string
	Rank        *models.Rank
	Classes     []ClassEntry
}

// StudentReport содержит оценки одного студента: формации → классы → оцениваемые активности.
type StudentReport struct {
	Student    models.User
	Formations []FormationEntry
}

// StudentView строит отчёт по студенту. Порядок на каждом уровне: порядок записи
// (порядок строк связей). Неоцениваемые активности и активности без оценки пропускаются.
func (e *Engine) StudentView(ctx context.Context, studentID int64) (*StudentReport, error) {
	u, err := e.store.User(ctx, studentID)
	if err != nil {
		return nil, err
	}
	byStudent := db.Where(db.Eq("student_id", studentID))

	flinks, err := e.store.FormationLinks(ctx, byStudent, db.RelFormation)
	if err != nil {
		return nil, err
	}
	clinks, err := e.store.ClassLinks(ctx, byStudent, db.RelClass)
	if err != nil {
		return nil, err
	}
	alinks, err := e.store.ActivityLinks(ctx, byStudent, db.RelActivity)
	if err != nil {
		return nil, err
	}

	rep := &StudentReport{Student: *u}
	for _, fl := range flinks {
		fe := FormationEntry{FormationID: fl.FormationID, Rank: fl.Rank}
		if fl.Formation != nil {
			fe.Title = fl.Formation.Title
		}
		for _, cl := range clinks {
			if cl.Class == nil || cl.Class.FormationID != fl.FormationID {
				continue
			}
			ce := ClassEntry{ClassID: cl.ClassID, Title: cl.Class.Title, Rank: cl.Rank}
			for i := range alinks {
				al := &alinks[i]
				if al.Activity == nil || al.Activity.ClassID != cl.ClassID {
					continue
				}
				score, ok := al.EffectiveScore(al.Activity)
				if !ok {
					continue
				}
				ce.Activities = append(ce.Activities, ActivityScore{
					ActivityID: al.ClassActivityID,
					Title:      al.Activity.Title,
					Score:      score,
					MaxScore:   al.Activity.MaxScore,
				})
			}
			fe.Classes = append(fe.Classes, ce)
		}
		rep.Formations = append(rep.Formations, fe)
	}

	metrics.ReportsBuilt.WithLabelValues("student").Inc()
	e.log.Debug("student report built", zap.Int64("student_id", studentID), zap.Int("formations", len(rep.Formations)))
	return rep, nil
}
