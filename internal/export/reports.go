package export

import (
	"time"

	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/report"
)

func rankCell(r *models.Rank) any {
	if r == nil {
		return nil
	}
	return string(*r)
}

// StudentWorkbook раскладывает отчёт студента в плоскую таблицу: строка на активность,
// классы без оценок и формации без классов тоже получают строку.
func StudentWorkbook(rep *report.StudentReport, at time.Time) (*Workbook, error) {
	sheet := SheetSpec{
		Title:  "Scores",
		Header: []string{"Formation", "Formation rank", "Class", "Class rank", "Activity", "Score", "Max score"},
	}
	for _, f := range rep.Formations {
		if len(f.Classes) == 0 {
			sheet.Rows = append(sheet.Rows, []any{f.Title, rankCell(f.Rank)})
		}
		for _, c := range f.Classes {
			if len(c.Activities) == 0 {
				sheet.Rows = append(sheet.Rows, []any{f.Title, rankCell(f.Rank), c.Title, rankCell(c.Rank)})
			}
			for _, a := range c.Activities {
				sheet.Rows = append(sheet.Rows, []any{
					f.Title, rankCell(f.Rank), c.Title, rankCell(c.Rank), a.Title, a.Score, a.MaxScore,
				})
			}
		}
	}
	return NewWorkbook(StudentReportFilename(rep.Student.Name, at), []SheetSpec{sheet})
}

// CohortWorkbook: лист сводки, лист классов и лист активностей.
func CohortWorkbook(rep *report.CohortReport, at time.Time) (*Workbook, error) {
	avg := report.Undefined
	if rep.AverageRank != nil {
		avg = string(*rep.AverageRank)
	}
	summary := SheetSpec{
		Title:  "Formation",
		Header: []string{"Formation", "Average rank", "Ranked students"},
		Rows:   [][]any{{rep.Formation.Title, avg, rep.Ranked}},
	}
	classes := SheetSpec{
		Title:  "Classes",
		Header: []string{"Class", "Average rank", "Ranked students"},
	}
	activities := SheetSpec{
		Title:  "Activities",
		Header: []string{"Class", "Activity", "Average score", "Scored students", "Max score"},
	}
	for _, c := range rep.Classes {
		classes.Rows = append(classes.Rows, []any{c.Title, string(c.AverageRank), c.Ranked})
		for _, a := range c.Activities {
			activities.Rows = append(activities.Rows, []any{c.Title, a.Title, a.Average, a.Scored, a.MaxScore})
		}
	}
	return NewWorkbook(CohortReportFilename(rep.Formation.Title, at), []SheetSpec{summary, classes, activities})
}
