// Package app собирает хранилище, движки и консоль в один процесс.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/cascade"
	"github.com/Spok95/school-console/internal/config"
	"github.com/Spok95/school-console/internal/console"
	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/enroll"
	"github.com/Spok95/school-console/internal/jobs"
	"github.com/Spok95/school-console/internal/report"
	"github.com/Spok95/school-console/internal/seed"
)

type App struct {
	cfg     *config.Config
	log     *zap.Logger
	Store   *db.Store
	Cascade *cascade.Engine
	Reports *report.Engine
	Enroll  *enroll.Service
	Seed    *seed.Generator
}

// New открывает БД, накатывает миграции и собирает сервисы.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	database, err := db.Open(ctx, cfg.Driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if err := db.Migrate(ctx, database, cfg.Driver); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	store := db.New(database, cfg.Driver, log)
	casc := cascade.New(store, log)
	return &App{
		cfg:     cfg,
		log:     log,
		Store:   store,
		Cascade: casc,
		Reports: report.New(store, log),
		Enroll:  enroll.New(store, casc, log),
		Seed:    seed.New(store, casc, log),
	}, nil
}

func (a *App) Close() error { return a.Store.Close() }

// Run поднимает HTTP и фоновый аудит (если настроены) и крутит консоль до выхода.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.cfg.HTTPAddr != "" {
		StartHTTP(ctx, a.cfg.HTTPAddr, a.Store, a.log)
		a.log.Info("http listening", zap.String("addr", a.cfg.HTTPAddr))
	}

	runner := jobs.New(ctx, a.log)
	runner.Every(a.cfg.AuditInterval, "integrity_audit", func(ctx context.Context) error {
		orphans, err := a.Cascade.Audit(ctx)
		if err != nil {
			return err
		}
		if len(orphans) > 0 {
			a.log.Warn("orphaned rows", zap.Int("count", len(orphans)), zap.Stringer("first", orphans[0]))
		}
		return nil
	})
	defer runner.Wait()

	c := console.New(console.Deps{
		Store:       a.Store,
		Cascade:     a.Cascade,
		Reports:     a.Reports,
		Enroll:      a.Enroll,
		Seed:        a.Seed,
		SeedOptions: seed.DefaultOptions(a.cfg.Seed),
		ExportDir:   a.cfg.ExportDir,
		Log:         a.log,
		Now:         time.Now,
	}, in, out)
	return c.Run(ctx)
}
