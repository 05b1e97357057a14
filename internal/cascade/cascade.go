// Package cascade deletes records together with everything that references them,
// bottom-up, so no child or link row is left pointing at a removed parent.
package cascade

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/ctxutil"
	"github.com/Spok95/school-console/internal/db"
	"github.com/Spok95/school-console/internal/logging"
	"github.com/Spok95/school-console/internal/metrics"
	"github.com/Spok95/school-console/internal/models"
	"github.com/Spok95/school-console/internal/observability"
)

// DefaultChunk ограничивает размер IN-списка в одном запросе.
const DefaultChunk = 500

// Result: сколько строк каждого вида удалено.
type Result map[models.Kind]int64

func (r Result) Total() int64 {
	var n int64
	for _, v := range r {
		n += v
	}
	return n
}

func (r Result) String() string {
	if len(r) == 0 {
		return "nothing deleted"
	}
	parts := make([]string, 0, len(r))
	for _, k := range models.Kinds {
		if n, ok := r[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
	}
	return strings.Join(parts, " ")
}

func (r Result) merge(o Result) {
	for k, v := range o {
		r[k] += v
	}
}

type options struct {
	expectOne bool
}

type Option func(*options)

// ExpectOne: ноль совпадений даёт NotFoundError, больше одного ValidationError.
func ExpectOne() Option { return func(o *options) { o.expectOne = true } }

type Engine struct {
	store *db.Store
	log   *zap.Logger
	chunk int
}

func New(store *db.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, log: log.Named("cascade"), chunk: DefaultChunk}
}

// WithChunk меняет размер пачки; нужно в основном тестам.
func (e *Engine) WithChunk(n int) *Engine {
	if n > 0 {
		e.chunk = n
	}
	return e
}

// removed: id удалённых родителей, по ним потом проверяем отсутствие ссылок.
type removed map[models.Kind][]int64

// run хранит состояние одного каскада.
type run struct {
	e       *Engine
	log     *zap.Logger
	root    models.Kind
	res     Result
	removed removed
}

// DeleteCascade удаляет строки kind, подходящие под f, вместе со всеми зависимыми.
// Шаги выполняются строго последовательно; при ошибке каскад прерывается без отката.
func (e *Engine) DeleteCascade(ctx context.Context, kind models.Kind, f db.Filter, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !kind.Valid() {
		return nil, models.Validation(kind, "DeleteCascade", fmt.Sprintf("unknown entity kind %q", kind))
	}
	if f.IsEmpty() {
		return nil, models.Validation(kind, "DeleteCascade", "refusing to cascade with an empty predicate; use db.All()")
	}
	ctx = ctxutil.WithOp(ctx, "delete_"+string(kind))

	ids, err := e.store.IDs(ctx, kind, f)
	if err != nil {
		return nil, e.fail(ctx, kind, fmt.Errorf("resolve %s where %s: %w", kind, f, err))
	}
	if o.expectOne {
		switch {
		case len(ids) == 0:
			return nil, models.NotFoundf(kind, "DeleteCascade", "no %s matches %s", kind, f)
		case len(ids) > 1:
			return nil, models.Validation(kind, "DeleteCascade", fmt.Sprintf("expected one %s, %d match %s", kind, len(ids), f))
		}
	}
	if len(ids) == 0 {
		return Result{}, nil
	}

	r := &run{
		e:       e,
		log:     logging.With(ctx, e.log).With(zap.String("root", string(kind))),
		root:    kind,
		res:     Result{},
		removed: removed{},
	}
	if err := r.plan(ctx, kind, ids); err != nil {
		return r.res, e.fail(ctx, kind, err)
	}
	if err := r.verify(ctx); err != nil {
		return r.res, e.fail(ctx, kind, err)
	}
	for k, n := range r.res {
		metrics.CascadeDeleted.WithLabelValues(string(k)).Add(float64(n))
	}
	r.log.Info("cascade done", zap.Int("roots", len(ids)), zap.Stringer("deleted", r.res))
	return r.res, nil
}

func (e *Engine) fail(ctx context.Context, kind models.Kind, err error) error {
	metrics.CascadeFailures.WithLabelValues(string(kind)).Inc()
	logging.With(ctx, e.log).Error("cascade aborted", zap.String("root", string(kind)), zap.Error(err))
	observability.CaptureErrCtx(ctx, err)
	return err
}

func (r *run) plan(ctx context.Context, kind models.Kind, ids []int64) error {
	switch kind {
	case models.KindFormation:
		return r.formations(ctx, ids)
	case models.KindClass:
		return r.classes(ctx, ids)
	case models.KindActivity:
		return r.activities(ctx, ids)
	case models.KindUser:
		return r.users(ctx, ids)
	default:
		return r.deleteIn(ctx, "links", kind, "id", ids)
	}
}

// formations: связи формации → связи активностей → активности → связи классов →
// классы → формации. Все активности формации уходят раньше любого её класса.
func (r *run) formations(ctx context.Context, ids []int64) error {
	classIDs, err := r.idsIn(ctx, models.KindClass, "formation_id", ids)
	if err != nil {
		return err
	}
	actIDs, err := r.idsIn(ctx, models.KindActivity, "formation_id", ids)
	if err != nil {
		return err
	}
	// активности, чей formation_id разошёлся с классом, тоже принадлежат удаляемым классам
	byClass, err := r.idsIn(ctx, models.KindActivity, "class_id", classIDs)
	if err != nil {
		return err
	}
	actIDs = union(actIDs, byClass)

	if err := r.deleteIn(ctx, "formation links", models.KindFormationLink, "formation_id", ids); err != nil {
		return err
	}
	if err := r.deleteIn(ctx, "activity links", models.KindActivityLink, "class_activity_id", actIDs); err != nil {
		return err
	}
	if err := r.deleteIn(ctx, "activities", models.KindActivity, "id", actIDs); err != nil {
		return err
	}
	if err := r.deleteIn(ctx, "class links", models.KindClassLink, "class_id", classIDs); err != nil {
		return err
	}
	if err := r.deleteIn(ctx, "classes", models.KindClass, "id", classIDs); err != nil {
		return err
	}
	return r.deleteIn(ctx, "formations", models.KindFormation, "id", ids)
}

// classes трогает только активности этих классов; соседние классы и формация не меняются.
func (r *run) classes(ctx context.Context, ids []int64) error {
	actIDs, err := r.idsIn(ctx, models.KindActivity, "class_id", ids)
	if err != nil {
		return err
	}
	if err := r.deleteIn(ctx, "activity links", models.KindActivityLink, "class_activity_id", actIDs); err != nil {
		return err
	}
	if err := r.deleteIn(ctx, "activities", models.KindActivity, "id", actIDs); err != nil {
		return err
	}
	if err := r.deleteIn(ctx, "class links", models.KindClassLink, "class_id", ids); err != nil {
		return err
	}
	return r.deleteIn(ctx, "classes", models.KindClass, "id", ids)
}

func (r *run) activities(ctx context.Context, ids []int64) error {
	if err := r.deleteIn(ctx, "activity links", models.KindActivityLink, "class_activity_id", ids); err != nil {
		return err
	}
	return r.deleteIn(ctx, "activities", models.KindActivity, "id", ids)
}

func (r *run) users(ctx context.Context, ids []int64) error {
	for _, k := range []models.Kind{models.KindFormationLink, models.KindClassLink, models.KindActivityLink} {
		if err := r.deleteIn(ctx, "student links", k, "student_id", ids); err != nil {
			return err
		}
	}
	return r.deleteIn(ctx, "users", models.KindUser, "id", ids)
}

// idsIn resolves ids of kind whose field is in parents, chunk by chunk.
func (r *run) idsIn(ctx context.Context, kind models.Kind, field string, parents []int64) ([]int64, error) {
	var out []int64
	for _, part := range chunks(parents, r.e.chunk) {
		ids, err := r.e.store.IDs(ctx, kind, db.Where(db.InIDs(field, part)))
		if err != nil {
			return nil, fmt.Errorf("cascade %s: resolve %s by %s: %w", r.root, kind, field, err)
		}
		out = append(out, ids...)
	}
	return out, nil
}

func (r *run) deleteIn(ctx context.Context, step string, kind models.Kind, field string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var total int64
	for _, part := range chunks(ids, r.e.chunk) {
		n, err := r.e.store.DeleteWhere(ctx, kind, db.Where(db.InIDs(field, part)))
		if err != nil {
			return fmt.Errorf("cascade %s: step %q (%s by %s): %w", r.root, step, kind, field, err)
		}
		total += n
	}
	r.res[kind] += total
	if field == "id" {
		r.removed[kind] = append(r.removed[kind], ids...)
	}
	r.log.Debug("cascade step", zap.String("step", step), zap.String("kind", string(kind)), zap.Int64("rows", total))
	return nil
}

func chunks(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = DefaultChunk
	}
	var out [][]int64
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

func union(a, b []int64) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, s := range [][]int64{a, b} {
		for _, id := range s {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
