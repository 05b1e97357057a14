// Package seed wipes the store and fills it with random but reproducible data.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/cascade"
	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/models"
)

// Range: включительные границы количества.
type Range struct{ Min, Max int }

type Options struct {
	Seed uint64
	Now  time.Time

	Students            Range
	Staff               Range
	Formations          Range
	ClassesPerFormation Range
	ActivitiesPerClass  Range
	// LinksPerLevel: сколько формаций, классов в формации и активностей в классе выбирает студент.
	LinksPerLevel Range
}

func DefaultOptions(seed uint64) Options {
	return Options{
		Seed:                seed,
		Now:                 time.Now().UTC().Truncate(24 * time.Hour),
		Students:            Range{20, 100},
		Staff:               Range{5, 10},
		Formations:          Range{5, 10},
		ClassesPerFormation: Range{5, 10},
		ActivitiesPerClass:  Range{5, 10},
		LinksPerLevel:       Range{1, 3},
	}
}

type Counts struct {
	Deleted        cascade.Result
	Users          int
	Formations     int
	Classes        int
	Activities     int
	FormationLinks int
	ClassLinks     int
	ActivityLinks  int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d users, %d formations, %d classes, %d activities, %d formation links, %d class links, %d activity links",
		c.Users, c.Formations, c.Classes, c.Activities, c.FormationLinks, c.ClassLinks, c.ActivityLinks)
}

type Generator struct {
	store *db.Store
	casc  *cascade.Engine
	log   *zap.Logger
}

func New(store *db.Store, casc *cascade.Engine, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{store: store, casc: casc, log: log.Named("seed")}
}

type gen struct {
	*Generator
	rnd  *rand.Rand
	opts Options
	out  Counts
}

// Generate удаляет все данные через каскад и создаёт новые. С одним и тем же Seed
// и Now результат одинаковый.
func (g *Generator) Generate(ctx context.Context, opts Options) (Counts, error) {
	deleted, err := g.casc.DeleteAll(ctx)
	if err != nil {
		return Counts{Deleted: deleted}, fmt.Errorf("seed: delete data: %w", err)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC().Truncate(24 * time.Hour)
	}
	r := &gen{
		Generator: g,
		rnd:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed)),
		opts:      opts,
		out:       Counts{Deleted: deleted},
	}
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", r.users},
		{"formations", r.formations},
		{"classes", r.classes},
		{"activities", r.activities},
		{"links", r.links},
	}
	for _, st := range steps {
		if err := st.fn(ctx); err != nil {
			return r.out, fmt.Errorf("seed: %s: %w", st.name, err)
		}
		g.log.Info("generated", zap.String("step", st.name), zap.Stringer("counts", r.out))
	}
	return r.out, nil
}

func (r *gen) n(rg Range) int {
	if rg.Max <= rg.Min {
		return rg.Min
	}
	return rg.Min + r.rnd.IntN(rg.Max-rg.Min+1)
}

func pick[T any](r *gen, items []T) T { return items[r.rnd.IntN(len(items))] }

func (r *gen) name() string { return pick(r, firstNames) + " " + pick(r, lastNames) }

func (r *gen) title() string { return pick(r, levels) + " " + pick(r, subjects) }

func (r *gen) description(title string) string { return title + " " + pick(r, fillers) + "." }

// dates: начало в последние 10 дней, конец в пределах года.
func (r *gen) dates() (time.Time, time.Time) {
	start := r.opts.Now.AddDate(0, 0, -r.rnd.IntN(10))
	end := r.opts.Now.AddDate(0, 0, 1+r.rnd.IntN(365))
	return start, end
}

func (r *gen) rank() *models.Rank {
	// A..E или пусто, равновероятно
	i := r.rnd.IntN(len(models.Ranks) + 1)
	if i == len(models.Ranks) {
		return nil
	}
	return models.RankPtr(models.Ranks[i])
}

// sample выбирает до k разных элементов; повторы отбрасываются.
func sample[T any](r *gen, items []T, k int) []T {
	if len(items) == 0 || k <= 0 {
		return nil
	}
	if k > len(items) {
		k = len(items)
	}
	idx := r.rnd.Perm(len(items))[:k]
	out := make([]T, 0, k)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

func (r *gen) users(ctx context.Context) error {
	staffRoles := []models.Role{models.Admin, models.Inspector, models.Teacher}
	for i, n := 0, r.n(r.opts.Students); i < n; i++ {
		if _, err := r.store.InsertUser(ctx, &models.User{Name: r.name(), Role: models.Student}); err != nil {
			return err
		}
		r.out.Users++
	}
	for i, n := 0, r.n(r.opts.Staff); i < n; i++ {
		if _, err := r.store.InsertUser(ctx, &models.User{Name: r.name(), Role: pick(r, staffRoles)}); err != nil {
			return err
		}
		r.out.Users++
	}
	return nil
}

func (r *gen) formations(ctx context.Context) error {
	for i, n := 0, r.n(r.opts.Formations); i < n; i++ {
		start, end := r.dates()
		title := r.title()
		f := &models.Formation{Title: title, Description: r.description(title), StartDate: start, EndDate: end}
		if _, err := r.store.InsertFormation(ctx, f); err != nil {
			return err
		}
		r.out.Formations++
	}
	return nil
}

func (r *gen) classes(ctx context.Context) error {
	formations, err := r.store.Formations(ctx, db.All())
	if err != nil {
		return err
	}
	for _, f := range formations {
		for i, n := 0, r.n(r.opts.ClassesPerFormation); i < n; i++ {
			start, end := r.dates()
			title := r.title()
			c := &models.Class{Title: title, Description: r.description(title), FormationID: f.ID, StartDate: start, EndDate: end}
			if _, err := r.store.InsertClass(ctx, c); err != nil {
				return err
			}
			r.out.Classes++
		}
	}
	return nil
}

func (r *gen) activities(ctx context.Context) error {
	classes, err := r.store.Classes(ctx, db.All())
	if err != nil {
		return err
	}
	for _, c := range classes {
		for i, n := 0, r.n(r.opts.ActivitiesPerClass); i < n; i++ {
			start, end := r.dates()
			scored := r.rnd.IntN(2) == 1
			maxScore := 0
			if scored {
				maxScore = 1 + r.rnd.IntN(100)
			}
			title := pick(r, activityKinds) + ": " + pick(r, subjects)
			a := &models.ClassActivity{
				Title: title, Description: r.description(title),
				ClassID: c.ID, FormationID: c.FormationID,
				IsScored: scored, MaxScore: maxScore,
				StartDate: start, EndDate: end,
			}
			if _, err := r.store.InsertActivity(ctx, a); err != nil {
				return err
			}
			r.out.Activities++
		}
	}
	return nil
}

// links записывает каждого студента в 1-3 формации, в 1-3 класса каждой из них
// и в 1-3 активности каждого класса, без повторов.
func (r *gen) links(ctx context.Context) error {
	students, err := r.store.Students(ctx)
	if err != nil {
		return err
	}
	formations, err := r.store.Formations(ctx, db.All(), db.RelClasses)
	if err != nil {
		return err
	}
	acts, err := r.store.Activities(ctx, db.All())
	if err != nil {
		return err
	}
	byClass := make(map[int64][]models.ClassActivity)
	for _, a := range acts {
		byClass[a.ClassID] = append(byClass[a.ClassID], a)
	}

	for _, st := range students {
		for _, f := range sample(r, formations, r.n(r.opts.LinksPerLevel)) {
			if _, err := r.store.InsertFormationLink(ctx, &models.FormationStudentLink{
				StudentID: st.ID, FormationID: f.ID, Rank: r.rank(),
			}); err != nil {
				return err
			}
			r.out.FormationLinks++

			for _, c := range sample(r, f.Classes, r.n(r.opts.LinksPerLevel)) {
				if _, err := r.store.InsertClassLink(ctx, &models.ClassStudentLink{
					StudentID: st.ID, ClassID: c.ID, Rank: r.rank(),
				}); err != nil {
					return err
				}
				r.out.ClassLinks++

				for _, a := range sample(r, byClass[c.ID], r.n(r.opts.LinksPerLevel)) {
					l := &models.ClassActivityStudentLink{StudentID: st.ID, ClassActivityID: a.ID}
					if a.IsScored {
						l.Score = models.IntPtr(r.rnd.IntN(a.MaxScore + 1))
					}
					if _, err := r.store.InsertActivityLink(ctx, l); err != nil {
						return err
					}
					r.out.ActivityLinks++
				}
			}
		}
	}
	return nil
}
