package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/metrics"
	"github.com/Spok95/school-console/internal/models"
)

type ActivityAverage struct {
	ActivityID int64
	Title      string
	Average    float64
	Scored     int
	MaxScore   int
}

type ClassRollup struct {
	ClassID     int64
	Title       string
	AverageRank models.Rank
	Ranked      int
	Activities  []ActivityAverage
}

// CohortReport: сводка по формации. AverageRank == nil значит «не определён».
type CohortReport struct {
	Formation   models.Formation
	AverageRank *models.Rank
	Ranked      int
	Classes     []ClassRollup
}

// CohortRollup считает средний ранг формации и её классов и средние баллы активностей.
// Класс без единого ранга в отчёт не попадает вместе со своими активностями;
// активность без оценок тоже опускается.
func (e *Engine) CohortRollup(ctx context.Context, formationID int64) (*CohortReport, error) {
	f, err := e.store.Formation(ctx, formationID)
	if err != nil {
		return nil, err
	}
	flinks, err := e.store.FormationLinks(ctx, db.Where(db.Eq("formation_id", formationID)))
	if err != nil {
		return nil, err
	}
	rep := &CohortReport{Formation: *f}
	rep.AverageRank, rep.Ranked = AverageRank(formationRanks(flinks))

	classes, err := e.store.Classes(ctx, db.Where(db.Eq("formation_id", formationID)), db.RelActivities)
	if err != nil {
		return nil, err
	}
	classIDs := make([]int64, 0, len(classes))
	var actIDs []int64
	for _, c := range classes {
		classIDs = append(classIDs, c.ID)
		for _, a := range c.Activities {
			actIDs = append(actIDs, a.ID)
		}
	}
	clinks, err := e.store.ClassLinks(ctx, db.Where(db.InIDs("class_id", classIDs)))
	if err != nil {
		return nil, err
	}
	alinks, err := e.store.ActivityLinks(ctx, db.Where(db.InIDs("class_activity_id", actIDs)))
	if err != nil {
		return nil, err
	}
	ranksByClass := make(map[int64][]*models.Rank, len(classes))
	for _, l := range clinks {
		ranksByClass[l.ClassID] = append(ranksByClass[l.ClassID], l.Rank)
	}
	linksByActivity := make(map[int64][]models.ClassActivityStudentLink, len(actIDs))
	for _, l := range alinks {
		linksByActivity[l.ClassActivityID] = append(linksByActivity[l.ClassActivityID], l)
	}

	for _, c := range classes {
		avg, n := AverageRank(ranksByClass[c.ID])
		if avg == nil {
			continue
		}
		cr := ClassRollup{ClassID: c.ID, Title: c.Title, AverageRank: *avg, Ranked: n}
		for i := range c.Activities {
			a := &c.Activities[i]
			if !a.IsScored {
				continue
			}
			var scores []int
			for _, l := range linksByActivity[a.ID] {
				if s, ok := l.EffectiveScore(a); ok {
					scores = append(scores, s)
				}
			}
			mean, ok := AverageScore(scores)
			if !ok {
				continue
			}
			cr.Activities = append(cr.Activities, ActivityAverage{
				ActivityID: a.ID, Title: a.Title, Average: mean, Scored: len(scores), MaxScore: a.MaxScore,
			})
		}
		rep.Classes = append(rep.Classes, cr)
	}

	metrics.ReportsBuilt.WithLabelValues("cohort").Inc()
	e.log.Debug("cohort report built", zap.Int64("formation_id", formationID), zap.Int("classes", len(rep.Classes)))
	return rep, nil
}

func formationRanks(links []models.FormationStudentLink) []*models.Rank {
	out := make([]*models.Rank, len(links))
	for i := range links {
		out[i] = links[i].Rank
	}
	return out
}
