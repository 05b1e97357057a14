package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Spok95/school-console/internal/models"
)

// Undefined печатается вместо отсутствующего ранга.
const Undefined = "undefined"

func rankText(r *models.Rank) string {
	if r == nil {
		return Undefined
	}
	return string(*r)
}

// WriteStudent печатает отчёт студента с отступами по уровням.
func WriteStudent(w io.Writer, r *StudentReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Scores of %s\n", r.Student.Name)
	if len(r.Formations) == 0 {
		fmt.Fprintln(tw, "  no formations")
	}
	for _, f := range r.Formations {
		fmt.Fprintf(tw, "%s\trank %s\n", f.Title, rankText(f.Rank))
		for _, c := range f.Classes {
			if c.Rank != nil {
				fmt.Fprintf(tw, "  %s\trank %s\n", c.Title, *c.Rank)
			} else {
				fmt.Fprintf(tw, "  %s\t\n", c.Title)
			}
			for _, a := range c.Activities {
				fmt.Fprintf(tw, "    %s\t%d/%d\n", a.Title, a.Score, a.MaxScore)
			}
		}
	}
	return tw.Flush()
}

// WriteCohort печатает сводку формации; средние баллы с двумя знаками.
func WriteCohort(w io.Writer, r *CohortReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\taverage rank %s\t(%d ranked)\n", r.Formation.Title, rankText(r.AverageRank), r.Ranked)
	for _, c := range r.Classes {
		fmt.Fprintf(tw, "  %s\taverage rank %s\t(%d ranked)\n", c.Title, c.AverageRank, c.Ranked)
		for _, a := range c.Activities {
			fmt.Fprintf(tw, "    %s\taverage %.2f/%d\t(%d scored)\n", a.Title, a.Average, a.MaxScore, a.Scored)
		}
	}
	return tw.Flush()
}
