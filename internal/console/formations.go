package console

import (
	"context"
	"fmt"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/export"
	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/report"
)

func (c *Console) formationItems() []item {
	student := c.session.IsStudent()
	create, unregister := "Create a formation", "Unregister a student"
	if student {
		create, unregister = "Register to a formation", "Unregister from a formation"
	}
	return []item{
		{create, true, c.createFormation},
		{"List formations", true, c.listFormations},
		{"Update a formation", c.session.CanAdminister(), c.updateFormation},
		{"Delete a formation", c.session.CanAdminister(), c.deleteFormation},
		{unregister, true, c.unregisterFormation},
		{"Manage classes", true, func(ctx context.Context) error { return c.menu(ctx, c.classItems) }},
		{"Scores", true, c.scores},
		{"Export scores", true, c.exportScores},
		{"Set a formation rank", c.session.CanManage(), c.rankFormation},
		{"Back", true, back},
	}
}

func formationLabel(f models.Formation) string {
	return fmt.Sprintf("%s (%s)", f.Title, dates(f.StartDate, f.EndDate))
}

func (c *Console) createFormation(ctx context.Context) error {
	if c.session.IsStudent() {
		avail, err := c.Enroll.AvailableFormations(ctx, c.session.User.ID)
		if err != nil {
			return err
		}
		if len(avail) == 0 {
			c.p.Printf("You are already registered to all formations\n")
			return nil
		}
		f, ok := choose(c.p, "Choose a formation to register to", avail, formationLabel)
		if !ok {
			return nil
		}
		_, err = c.Enroll.RegisterFormation(ctx, c.session.User.ID, f.ID)
		return err
	}
	d, ok := c.readDetails("Formation", nil)
	if !ok {
		return nil
	}
	f := &models.Formation{Title: d.Title, Description: d.Description, StartDate: d.StartDate, EndDate: d.EndDate}
	if _, err := c.Store.InsertFormation(ctx, f); err != nil {
		return err
	}
	c.p.Printf("Created formation %d\n", f.ID)
	return nil
}

func (c *Console) listFormations(ctx context.Context) error {
	formations, err := c.Store.Formations(ctx, db.All())
	if err != nil {
		return err
	}
	var registered map[int64]int64
	if c.session.IsStudent() {
		if registered, err = c.Enroll.Registered(ctx, models.KindFormationLink, c.session.User.ID); err != nil {
			return err
		}
	}
	for _, f := range formations {
		mark := ""
		if _, ok := registered[f.ID]; ok {
			mark = " [REGISTERED]"
		}
		c.p.Printf("%d: %s%s -> '%s'\n", f.ID, f.Title, mark, f.Description)
	}
	return nil
}

func (c *Console) pickFormation(ctx context.Context, title string) (models.Formation, bool, error) {
	formations, err := c.Store.Formations(ctx, db.All())
	if err != nil {
		return models.Formation{}, false, err
	}
	f, ok := choose(c.p, title, formations, formationLabel)
	return f, ok, nil
}

func (c *Console) updateFormation(ctx context.Context) error {
	f, ok, err := c.pickFormation(ctx, "Choose a formation to update")
	if err != nil || !ok {
		return err
	}
	d, ok := c.readDetails("Formation", &details{f.Title, f.Description, f.StartDate, f.EndDate})
	if !ok {
		return nil
	}
	return c.Store.UpdateFormation(ctx, f.ID, models.FormationPatch{
		Title: &d.Title, Description: &d.Description, StartDate: &d.StartDate, EndDate: &d.EndDate,
	})
}

func (c *Console) deleteFormation(ctx context.Context) error {
	f, ok, err := c.pickFormation(ctx, "Choose a formation to delete")
	if err != nil || !ok {
		return err
	}
	res, err := c.Cascade.DeleteFormation(ctx, f.ID)
	if err != nil {
		return err
	}
	c.p.Printf("Deleted: %s\n", res)
	return nil
}

func (c *Console) unregisterFormation(ctx context.Context) error {
	if c.session.IsStudent() {
		links, err := c.Store.FormationLinks(ctx, db.Where(db.Eq("student_id", c.session.User.ID)), db.RelFormation)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			c.p.Printf("You are not registered to any formation\n")
			return nil
		}
		l, ok := choose(c.p, "Choose a formation to unregister from", links, func(l models.FormationStudentLink) string {
			return formationLabel(*l.Formation)
		})
		if !ok {
			return nil
		}
		_, err = c.Enroll.Unregister(ctx, models.KindFormationLink, l.ID)
		return err
	}

	l, ok, err := c.pickFormationLink(ctx, "Choose a student to unregister")
	if err != nil || !ok {
		return err
	}
	res, err := c.Enroll.Unregister(ctx, models.KindFormationLink, l.ID)
	if err != nil {
		return err
	}
	c.p.Printf("Deleted: %s\n", res)
	return nil
}

// pickFormationLink: сначала формация, потом студент из её списка.
func (c *Console) pickFormationLink(ctx context.Context, title string) (models.FormationStudentLink, bool, error) {
	f, ok, err := c.pickFormation(ctx, "Choose a formation")
	if err != nil || !ok {
		return models.FormationStudentLink{}, false, err
	}
	links, err := c.Store.FormationLinks(ctx, db.Where(db.Eq("formation_id", f.ID)), db.RelStudent)
	if err != nil {
		return models.FormationStudentLink{}, false, err
	}
	if len(links) == 0 {
		c.p.Printf("No student is registered to '%s'\n", f.Title)
		return models.FormationStudentLink{}, false, nil
	}
	l, ok := choose(c.p, title, links, func(l models.FormationStudentLink) string {
		return fmt.Sprintf("%s [%s]", l.Student.Name, rankLabel(l.Rank))
	})
	return l, ok, nil
}

func rankLabel(r *models.Rank) string {
	if r == nil {
		return report.Undefined
	}
	return string(*r)
}

func (c *Console) rankFormation(ctx context.Context) error {
	l, ok, err := c.pickFormationLink(ctx, "Choose a student to rank")
	if err != nil || !ok {
		return err
	}
	r, ok := c.readRank(l.Rank)
	if !ok {
		return nil
	}
	return c.Enroll.SetFormationRank(ctx, l.ID, r)
}

func (c *Console) scores(ctx context.Context) error {
	if c.session.IsStudent() {
		rep, err := c.Reports.StudentView(ctx, c.session.User.ID)
		if err != nil {
			return err
		}
		return report.WriteStudent(c.p.out, rep)
	}
	f, ok, err := c.pickFormation(ctx, "Choose a formation to show scores")
	if err != nil || !ok {
		return err
	}
	rep, err := c.Reports.CohortRollup(ctx, f.ID)
	if err != nil {
		return err
	}
	return report.WriteCohort(c.p.out, rep)
}

func (c *Console) exportScores(ctx context.Context) error {
	var (
		wb  *export.Workbook
		err error
	)
	at := c.Now()
	if c.session.IsStudent() {
		rep, rerr := c.Reports.StudentView(ctx, c.session.User.ID)
		if rerr != nil {
			return rerr
		}
		wb, err = export.StudentWorkbook(rep, at)
	} else {
		f, ok, ferr := c.pickFormation(ctx, "Choose a formation to export")
		if ferr != nil || !ok {
			return ferr
		}
		rep, rerr := c.Reports.CohortRollup(ctx, f.ID)
		if rerr != nil {
			return rerr
		}
		wb, err = export.CohortWorkbook(rep, at)
	}
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	path, err := wb.Save(c.ExportDir)
	if err != nil {
		return err
	}
	c.p.Printf("Saved %s\n", path)
	return nil
}
