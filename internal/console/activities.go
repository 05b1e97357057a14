package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
)

func (c *Console) activityItems() []item {
	create, remove := "Create an activity", "Delete an activity"
	if c.session.IsStudent() {
		create, remove = "Register to an activity", "Unregister from an activity"
	}
	return []item{
		{create, true, c.createActivity},
		{"List activities", true, c.listActivities},
		{"Update an activity", c.session.CanManage(), c.updateActivity},
		{remove, true, c.deleteActivity},
		{"Set a score", c.session.CanManage(), c.scoreActivity},
		{"Back", true, back},
	}
}

func activityLabel(a models.ClassActivity) string {
	scoring := "not scored"
	if a.IsScored {
		scoring = fmt.Sprintf("max %d", a.MaxScore)
	}
	if a.Class != nil {
		return fmt.Sprintf("%s / %s [%s] (%s)", a.Class.Title, a.Title, scoring, dates(a.StartDate, a.EndDate))
	}
	return fmt.Sprintf("%s [%s] (%s)", a.Title, scoring, dates(a.StartDate, a.EndDate))
}

func (c *Console) pickActivity(ctx context.Context, title string, f db.Filter) (models.ClassActivity, bool, error) {
	activities, err := c.Store.Activities(ctx, f, db.RelClass)
	if err != nil {
		return models.ClassActivity{}, false, err
	}
	a, ok := choose(c.p, title, activities, activityLabel)
	return a, ok, nil
}

// readScoring спрашивает, оценивается ли активность и максимальный балл.
func (c *Console) readScoring(scored bool, maxScore int) (bool, int, bool) {
	def := "n"
	if scored {
		def = "y"
	}
	s, ok := c.p.Edit("Scored (y/n)", def)
	if !ok {
		return false, 0, false
	}
	if s != "y" && s != "Y" && s != "yes" {
		return false, 0, true
	}
	if maxScore > 0 {
		v, ok := c.p.Edit("Max score", strconv.Itoa(maxScore))
		if !ok {
			return false, 0, false
		}
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			return true, n, true
		}
	}
	n, ok := c.p.Int("Max score", 1)
	return true, n, ok
}

func (c *Console) createActivity(ctx context.Context) error {
	if c.session.IsStudent() {
		avail, err := c.Enroll.AvailableActivities(ctx, c.session.User.ID)
		if err != nil {
			return err
		}
		if len(avail) == 0 {
			c.p.Printf("No activity to register to\n")
			return nil
		}
		a, ok := choose(c.p, "Choose an activity to register to", avail, activityLabel)
		if !ok {
			return nil
		}
		_, err = c.Enroll.RegisterActivity(ctx, c.session.User.ID, a.ID)
		return err
	}
	cl, ok, err := c.pickClass(ctx, "Choose a class")
	if err != nil || !ok {
		return err
	}
	d, ok := c.readDetails("Activity", nil)
	if !ok {
		return nil
	}
	scored, maxScore, ok := c.readScoring(false, 0)
	if !ok {
		return nil
	}
	a := &models.ClassActivity{
		Title: d.Title, Description: d.Description, ClassID: cl.ID, FormationID: cl.FormationID,
		IsScored: scored, MaxScore: maxScore, StartDate: d.StartDate, EndDate: d.EndDate,
	}
	if _, err := c.Store.InsertActivity(ctx, a); err != nil {
		return err
	}
	c.p.Printf("Created activity %d\n", a.ID)
	return nil
}

func (c *Console) listActivities(ctx context.Context) error {
	activities, err := c.Store.Activities(ctx, db.All(), db.RelClass)
	if err != nil {
		return err
	}
	var registered map[int64]int64
	if c.session.IsStudent() {
		if registered, err = c.Enroll.Registered(ctx, models.KindActivityLink, c.session.User.ID); err != nil {
			return err
		}
	}
	for _, a := range activities {
		mark := ""
		if _, ok := registered[a.ID]; ok {
			mark = " [REGISTERED]"
		}
		c.p.Printf("%d: %s%s\n", a.ID, activityLabel(a), mark)
	}
	return nil
}

func (c *Console) updateActivity(ctx context.Context) error {
	a, ok, err := c.pickActivity(ctx, "Choose an activity to update", db.All())
	if err != nil || !ok {
		return err
	}
	d, ok := c.readDetails("Activity", &details{a.Title, a.Description, a.StartDate, a.EndDate})
	if !ok {
		return nil
	}
	scored, maxScore, ok := c.readScoring(a.IsScored, a.MaxScore)
	if !ok {
		return nil
	}
	return c.Store.UpdateActivity(ctx, a.ID, models.ClassActivityPatch{
		Title: &d.Title, Description: &d.Description, IsScored: &scored, MaxScore: &maxScore,
		StartDate: &d.StartDate, EndDate: &d.EndDate,
	})
}

func (c *Console) deleteActivity(ctx context.Context) error {
	if c.session.IsStudent() {
		links, err := c.Store.ActivityLinks(ctx, db.Where(db.Eq("student_id", c.session.User.ID)), db.RelActivity)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			c.p.Printf("You are not registered to any activity\n")
			return nil
		}
		l, ok := choose(c.p, "Choose an activity to unregister from", links, func(l models.ClassActivityStudentLink) string {
			return activityLabel(*l.Activity)
		})
		if !ok {
			return nil
		}
		_, err = c.Enroll.Unregister(ctx, models.KindActivityLink, l.ID)
		return err
	}
	a, ok, err := c.pickActivity(ctx, "Choose an activity to delete", db.All())
	if err != nil || !ok {
		return err
	}
	res, err := c.Cascade.DeleteActivity(ctx, a.ID)
	if err != nil {
		return err
	}
	c.p.Printf("Deleted: %s\n", res)
	return nil
}

func scoreLabel(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func (c *Console) scoreActivity(ctx context.Context) error {
	a, ok, err := c.pickActivity(ctx, "Choose an activity", db.Where(db.Eq("scored", true)))
	if err != nil || !ok {
		return err
	}
	links, err := c.Store.ActivityLinks(ctx, db.Where(db.Eq("class_activity_id", a.ID)), db.RelStudent)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		c.p.Printf("No student is registered to '%s'\n", a.Title)
		return nil
	}
	l, ok := choose(c.p, "Choose a student to score", links, func(l models.ClassActivityStudentLink) string {
		return fmt.Sprintf("%s [%s/%d]", l.Student.Name, scoreLabel(l.Score), a.MaxScore)
	})
	if !ok {
		return nil
	}
	for {
		s, ok := c.p.Edit(fmt.Sprintf("Score (0-%d)", a.MaxScore), scoreLabel(l.Score))
		if !ok {
			return nil
		}
		if s == "" {
			return c.Enroll.SetScore(ctx, l.ID, nil)
		}
		n, err := strconv.Atoi(s)
		if err == nil {
			return c.Enroll.SetScore(ctx, l.ID, &n)
		}
		c.p.Printf("enter a number, or - to clear\n")
	}
}
