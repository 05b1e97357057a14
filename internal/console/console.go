// Package console is the interactive text menu over the store and engines.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/cascade"
	"github.com/Spok95/school-console/internal/ctxutil"
	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/enroll"
	"github.com/Spok95/school-console/internal/logging"
	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/observability"
	"github.com/Spok95/school-console/internal/report"
	"github.com/Spok95/school-console/internal/seed"
)

var (
	errBack = errors.New("back")
	errQuit = errors.New("quit")
)

type Deps struct {
	Store       *db.Store
	Cascade     *cascade.Engine
	Reports     *report.Engine
	Enroll      *enroll.Service
	Seed        *seed.Generator
	SeedOptions seed.Options
	ExportDir   string
	Log         *zap.Logger
	Now         func() time.Time
}

type Console struct {
	Deps
	p       *Prompter
	session Session
}

func New(d Deps, in io.Reader, out io.Writer) *Console {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	d.Log = d.Log.Named("console")
	return &Console{Deps: d, p: NewPrompter(in, out)}
}

// Session: текущий пользователь; нужен тестам и логам.
func (c *Console) Session() Session { return c.session }

type item struct {
	label   string
	allowed bool
	run     func(ctx context.Context) error
}

func back(context.Context) error { return errBack }

// Run крутит главное меню до Quit или конца ввода.
func (c *Console) Run(ctx context.Context) error {
	c.p.Printf("Welcome to the school management system!\n")
	err := c.menu(ctx, c.mainItems)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (c *Console) menu(ctx context.Context, build func() []item) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		items := build()
		opts := make([]Option, len(items))
		for i, it := range items {
			opts[i] = Option{Label: it.label, Disabled: !it.allowed}
		}
		i, ok := c.p.Select("Choose an option"+c.session.String(), opts)
		if !ok {
			return nil
		}
		actx := ctxutil.WithOp(c.session.Context(ctx), items[i].label)
		err := items[i].run(actx)
		switch {
		case err == nil:
		case errors.Is(err, errBack):
			return nil
		case errors.Is(err, errQuit):
			return err
		default:
			c.fail(actx, err)
		}
	}
}

// fail печатает ошибку. Ошибки ввода и «не найдено» ожидаемы, остальное логируем и шлём в Sentry.
func (c *Console) fail(ctx context.Context, err error) {
	if models.IsValidation(err) || models.IsNotFound(err) {
		c.p.Printf("error: %v\n", err)
		return
	}
	c.p.Printf("unexpected error: %v\n", err)
	logging.With(ctx, c.Log).Error("action failed", zap.Error(err))
	observability.CaptureErrCtx(ctx, err)
}

func (c *Console) mainItems() []item {
	return []item{
		{"Manage formations", true, func(ctx context.Context) error { return c.menu(ctx, c.formationItems) }},
		{"Manage users", c.session.CanAdminister(), func(ctx context.Context) error { return c.menu(ctx, c.userItems) }},
		{"Sign in as", true, c.signIn},
		{"Sign out", c.session.SignedIn(), c.signOut},
		{"Generate data", c.session.CanAdminister(), c.generate},
		{"Delete data", c.session.CanAdminister(), c.deleteData},
		{"Check integrity", true, c.audit},
		{"Quit", true, func(context.Context) error { return errQuit }},
	}
}

func (c *Console) signIn(ctx context.Context) error {
	users, err := c.Store.Users(ctx, db.All())
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.p.Printf("No users found\n")
		return nil
	}
	u, ok := choose(c.p, "Choose a user", users, userLabel)
	if !ok {
		return nil
	}
	c.session = Session{User: &u}
	logging.With(c.session.Context(ctx), c.Log).Info("signed in")
	return nil
}

func (c *Console) signOut(context.Context) error {
	c.session = Session{}
	return nil
}

func (c *Console) generate(ctx context.Context) error {
	if !c.p.Confirm("This replaces all data. Continue?") {
		return nil
	}
	opts := c.SeedOptions
	opts.Now = c.Now().UTC().Truncate(24 * time.Hour)
	c.p.Printf("Generating...\n")
	counts, err := c.Seed.Generate(ctx, opts)
	if err != nil {
		return err
	}
	c.session = Session{}
	c.p.Printf("Generated %s\n", counts)
	return nil
}

func (c *Console) deleteData(ctx context.Context) error {
	if !c.p.Confirm("Delete all data?") {
		return nil
	}
	res, err := c.Cascade.DeleteAll(ctx)
	if err != nil {
		return err
	}
	c.session = Session{}
	c.p.Printf("Deleted: %s\n", res)
	return nil
}

func (c *Console) audit(ctx context.Context) error {
	orphans, err := c.Cascade.Audit(ctx)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		c.p.Printf("No orphaned rows\n")
		return nil
	}
	c.p.Printf("Found %d orphaned rows:\n", len(orphans))
	for _, o := range orphans {
		c.p.Printf("  %s\n", o)
	}
	return nil
}

func userLabel(u models.User) string { return fmt.Sprintf("%s - %s", u.Name, u.Role) }

func dates(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format(DateLayout), end.Format(DateLayout))
}
