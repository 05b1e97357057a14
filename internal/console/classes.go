package console

import (
	"context"
	"fmt"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
)

func (c *Console) classItems() []item {
	create, remove := "Create a class", "Delete a class"
	if c.session.IsStudent() {
		create, remove = "Register to a class", "Unregister from a class"
	}
	return []item{
		{create, true, c.createClass},
		{"List classes", true, c.listClasses},
		{"Update a class", c.session.CanManage(), c.updateClass},
		{remove, true, c.deleteClass},
		{"Manage class activities", true, func(ctx context.Context) error { return c.menu(ctx, c.activityItems) }},
		{"Set a class rank", c.session.CanManage(), c.rankClass},
		{"Back", true, back},
	}
}

func classLabel(cl models.Class) string {
	if cl.Formation != nil {
		return fmt.Sprintf("%s / %s (%s)", cl.Formation.Title, cl.Title, dates(cl.StartDate, cl.EndDate))
	}
	return fmt.Sprintf("%s (%s)", cl.Title, dates(cl.StartDate, cl.EndDate))
}

func (c *Console) pickClass(ctx context.Context, title string) (models.Class, bool, error) {
	classes, err := c.Store.Classes(ctx, db.All(), db.RelFormation)
	if err != nil {
		return models.Class{}, false, err
	}
	cl, ok := choose(c.p, title, classes, classLabel)
	return cl, ok, nil
}

func (c *Console) createClass(ctx context.Context) error {
	if c.session.IsStudent() {
		avail, err := c.Enroll.AvailableClasses(ctx, c.session.User.ID)
		if err != nil {
			return err
		}
		if len(avail) == 0 {
			c.p.Printf("No class to register to\n")
			return nil
		}
		cl, ok := choose(c.p, "Choose a class to register to", avail, classLabel)
		if !ok {
			return nil
		}
		_, err = c.Enroll.RegisterClass(ctx, c.session.User.ID, cl.ID)
		return err
	}
	f, ok, err := c.pickFormation(ctx, "Choose a formation")
	if err != nil || !ok {
		return err
	}
	d, ok := c.readDetails("Class", nil)
	if !ok {
		return nil
	}
	cl := &models.Class{
		Title: d.Title, Description: d.Description, FormationID: f.ID,
		StartDate: d.StartDate, EndDate: d.EndDate,
	}
	if _, err := c.Store.InsertClass(ctx, cl); err != nil {
		return err
	}
	c.p.Printf("Created class %d\n", cl.ID)
	return nil
}

func (c *Console) listClasses(ctx context.Context) error {
	classes, err := c.Store.Classes(ctx, db.All(), db.RelFormation)
	if err != nil {
		return err
	}
	var registered map[int64]int64
	if c.session.IsStudent() {
		if registered, err = c.Enroll.Registered(ctx, models.KindClassLink, c.session.User.ID); err != nil {
			return err
		}
	}
	for _, cl := range classes {
		mark := ""
		if _, ok := registered[cl.ID]; ok {
			mark = " [REGISTERED]"
		}
		c.p.Printf("%d: '%s'%s (%s) in %s\n", cl.ID, cl.Title, mark, dates(cl.StartDate, cl.EndDate), cl.Formation.Title)
	}
	return nil
}

func (c *Console) updateClass(ctx context.Context) error {
	cl, ok, err := c.pickClass(ctx, "Choose a class to update")
	if err != nil || !ok {
		return err
	}
	d, ok := c.readDetails("Class", &details{cl.Title, cl.Description, cl.StartDate, cl.EndDate})
	if !ok {
		return nil
	}
	return c.Store.UpdateClass(ctx, cl.ID, models.ClassPatch{
		Title: &d.Title, Description: &d.Description, StartDate: &d.StartDate, EndDate: &d.EndDate,
	})
}

func (c *Console) deleteClass(ctx context.Context) error {
	if c.session.IsStudent() {
		links, err := c.Store.ClassLinks(ctx, db.Where(db.Eq("student_id", c.session.User.ID)), db.RelClass)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			c.p.Printf("You are not registered to any class\n")
			return nil
		}
		l, ok := choose(c.p, "Choose a class to unregister from", links, func(l models.ClassStudentLink) string {
			return classLabel(*l.Class)
		})
		if !ok {
			return nil
		}
		_, err = c.Enroll.Unregister(ctx, models.KindClassLink, l.ID)
		return err
	}
	cl, ok, err := c.pickClass(ctx, "Choose a class to delete")
	if err != nil || !ok {
		return err
	}
	res, err := c.Cascade.DeleteClass(ctx, cl.ID)
	if err != nil {
		return err
	}
	c.p.Printf("Deleted: %s\n", res)
	return nil
}

func (c *Console) rankClass(ctx context.Context) error {
	cl, ok, err := c.pickClass(ctx, "Choose a class")
	if err != nil || !ok {
		return err
	}
	links, err := c.Store.ClassLinks(ctx, db.Where(db.Eq("class_id", cl.ID)), db.RelStudent)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		c.p.Printf("No student is registered to '%s'\n", cl.Title)
		return nil
	}
	l, ok := choose(c.p, "Choose a student to rank", links, func(l models.ClassStudentLink) string {
		return fmt.Sprintf("%s [%s]", l.Student.Name, rankLabel(l.Rank))
	})
	if !ok {
		return nil
	}
	r, ok := c.readRank(l.Rank)
	if !ok {
		return nil
	}
	return c.Enroll.SetClassRank(ctx, l.ID, r)
}
