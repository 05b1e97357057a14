// Package report folds link rows into per-student and per-formation summaries.
package report

import (
	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/db"
)

type Engine struct {
	store *db.Store
	log   *zap.Logger
}

func New(store *db.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, log: log.Named("report")}
}
