package console

import (
	"context"
	"fmt"

	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/export"
	"github.com/Spok95/school-console/internal/models"
)

func (c *Console) userItems() []item {
	return []item{
		{"Create a user", true, c.createUser},
		{"List users", true, c.listUsers},
		{"Update a user", true, c.updateUser},
		{"Delete a user", true, c.deleteUser},
		{"Export users", true, c.exportUsers},
		{"Back", true, back},
	}
}

func (c *Console) chooseRole(current models.Role) (models.Role, bool) {
	title := "User role"
	if current != "" {
		title = fmt.Sprintf("User role [%s]", current)
	}
	return choose(c.p, title, models.Roles, func(r models.Role) string { return string(r) })
}

func (c *Console) createUser(ctx context.Context) error {
	name, ok := c.p.Line("User name")
	if !ok {
		return nil
	}
	role, ok := c.chooseRole("")
	if !ok {
		return nil
	}
	u := &models.User{Name: name, Role: role}
	if _, err := c.Store.InsertUser(ctx, u); err != nil {
		return err
	}
	c.p.Printf("Created user %d\n", u.ID)
	return nil
}

func (c *Console) listUsers(ctx context.Context) error {
	users, err := c.Store.Users(ctx, db.All())
	if err != nil {
		return err
	}
	for _, u := range users {
		c.p.Printf("%d: %s\n", u.ID, userLabel(u))
	}
	return nil
}

func (c *Console) updateUser(ctx context.Context) error {
	users, err := c.Store.Users(ctx, db.All())
	if err != nil {
		return err
	}
	u, ok := choose(c.p, "Choose a user to update", users, userLabel)
	if !ok {
		return nil
	}
	name, ok := c.p.Edit("User name", u.Name)
	if !ok {
		return nil
	}
	role, ok := c.chooseRole(u.Role)
	if !ok {
		return nil
	}
	if err := c.Store.UpdateUser(ctx, u.ID, models.UserPatch{Name: &name, Role: &role}); err != nil {
		return err
	}
	if c.session.User != nil && c.session.User.ID == u.ID {
		c.session.User.Name, c.session.User.Role = name, role
	}
	return nil
}

func (c *Console) deleteUser(ctx context.Context) error {
	users, err := c.Store.Users(ctx, db.All())
	if err != nil {
		return err
	}
	u, ok := choose(c.p, "Choose a user to delete", users, userLabel)
	if !ok {
		return nil
	}
	res, err := c.Cascade.DeleteUser(ctx, u.ID)
	if err != nil {
		return err
	}
	if c.session.User != nil && c.session.User.ID == u.ID {
		c.session = Session{}
	}
	c.p.Printf("Deleted: %s\n", res)
	return nil
}

func (c *Console) exportUsers(ctx context.Context) error {
	rows, err := c.Store.Roster(ctx)
	if err != nil {
		return err
	}
	wb, err := export.RosterWorkbook(rows, c.Now())
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()
	path, err := wb.Save(c.ExportDir)
	if err != nil {
		return err
	}
	c.p.Printf("Saved %s (%d users)\n", path, len(rows))
	return nil
}
