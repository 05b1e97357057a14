package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/metrics"
	"github.com/Spok95/school-console/internal/models"
)

type table struct {
	kind    models.Kind
	name    string
	columns []string
}

func (t table) hasColumn(c string) bool {
	if c == "id" {
		return true
	}
	for _, col := range t.columns {
		if col == c {
			return true
		}
	}
	return false
}

func (t table) selectList() string { return "id, " + strings.Join(t.columns, ", ") }

var tables = map[models.Kind]table{
	models.KindFormation: {models.KindFormation, "formations",
		[]string{"title", "description", "start_date", "end_date"}},
	models.KindClass: {models.KindClass, "classes",
		[]string{"title", "description", "formation_id", "start_date", "end_date"}},
	models.KindActivity: {models.KindActivity, "class_activities",
		[]string{"title", "description", "class_id", "formation_id", "scored", "max_score", "start_date", "end_date"}},
	models.KindUser: {models.KindUser, "users",
		[]string{"name", "role"}},
	models.KindFormationLink: {models.KindFormationLink, "formation_student_links",
		[]string{"student_id", "formation_id", "rank"}},
	models.KindClassLink: {models.KindClassLink, "class_student_links",
		[]string{"student_id", "class_id", "rank"}},
	models.KindActivityLink: {models.KindActivityLink, "class_activity_student_links",
		[]string{"student_id", "class_activity_id", "score"}},
}

func tableFor(kind models.Kind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, models.Validation(kind, "Table", fmt.Sprintf("unknown entity kind %q", kind))
	}
	return t, nil
}

// Store является фасадом хранилища: CRUD по каждому виду записей и выборки по фильтру.
// Каскадов здесь нет, DeleteWhere удаляет только строки указанной таблицы.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     *zap.Logger
}

func New(database *sql.DB, dialect Dialect, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: database, dialect: dialect, log: log.Named("store")}
}

func (s *Store) DB() *sql.DB                    { return s.db }
func (s *Store) Dialect() Dialect               { return s.dialect }
func (s *Store) Close() error                   { return s.db.Close() }
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	q = s.dialect.rebind(q)
	s.log.Debug("query", zap.String("sql", q), zap.Any("args", args))
	return s.db.QueryContext(ctx, q, args...)
}

func (s *Store) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	q = s.dialect.rebind(q)
	s.log.Debug("query", zap.String("sql", q), zap.Any("args", args))
	return s.db.QueryRowContext(ctx, q, args...)
}

func (s *Store) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	q = s.dialect.rebind(q)
	s.log.Debug("exec", zap.String("sql", q), zap.Any("args", args))
	return s.db.ExecContext(ctx, q, args...)
}

// selectMany читает все строки целиком и закрывает rows до возврата:
// у SQLite одно соединение, вложенный запрос при открытых rows зависнет.
func selectMany[T any](ctx context.Context, s *Store, kind models.Kind, f Filter, scan func(rowScanner) (T, error)) (out []T, err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("select", string(kind), started, err) }()

	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	where, args, err := f.build(t)
	if err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, "SELECT "+t.selectList()+" FROM "+t.name+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return out, nil
}

func selectOne[T any](ctx context.Context, s *Store, kind models.Kind, id int64, scan func(rowScanner) (T, error)) (*T, error) {
	items, err := selectMany(ctx, s, kind, ByID(id), scan)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NotFound(kind, "Get", id)
	}
	return &items[0], nil
}

func (s *Store) insertRow(ctx context.Context, kind models.Kind, values ...any) (id int64, err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("insert", string(kind), started, err) }()

	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	ph := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	q := "INSERT INTO " + t.name + " (" + strings.Join(t.columns, ", ") + ") VALUES (" + ph + ") RETURNING id"
	if err := s.queryRow(ctx, q, values...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", kind, err)
	}
	return id, nil
}

func (s *Store) updateRow(ctx context.Context, kind models.Kind, id int64, values ...any) (err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("update", string(kind), started, err) }()

	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = ?"
	}
	res, err := s.exec(ctx, "UPDATE "+t.name+" SET "+strings.Join(sets, ", ")+" WHERE id = ?", append(values, id)...)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", kind, id, err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return models.NotFound(kind, "Update", id)
	}
	return nil
}

// IDs возвращает id строк, подходящих под фильтр, по возрастанию.
func (s *Store) IDs(ctx context.Context, kind models.Kind, f Filter) (ids []int64, err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("ids", string(kind), started, err) }()

	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	where, args, err := f.build(t)
	if err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, "SELECT id FROM "+t.name+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select %s ids: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) Count(ctx context.Context, kind models.Kind, f Filter) (n int, err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("count", string(kind), started, err) }()

	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	where, args, err := f.build(t)
	if err != nil {
		return 0, err
	}
	if err := s.queryRow(ctx, "SELECT COUNT(*) FROM "+t.name+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

// DeleteWhere удаляет строки одной таблицы без каскада. Пустой фильтр запрещён,
// удалить всё можно только явным All().
func (s *Store) DeleteWhere(ctx context.Context, kind models.Kind, f Filter) (n int64, err error) {
	started := time.Now()
	defer func() { metrics.ObserveStore("delete", string(kind), started, err) }()

	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	if f.IsEmpty() {
		return 0, models.Validation(kind, "DeleteWhere", "refusing to delete with an empty predicate")
	}
	where, args, err := f.build(t)
	if err != nil {
		return 0, err
	}
	res, err := s.exec(ctx, "DELETE FROM "+t.name+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s where %s: %w", kind, f, err)
	}
	n, _ = res.RowsAffected()
	return n, nil
}

func (s *Store) exists(ctx context.Context, kind models.Kind, id int64) (bool, error) {
	n, err := s.Count(ctx, kind, ByID(id))
	return n > 0, err
}

func nullRank(r *models.Rank) any {
	if r == nil {
		return nil
	}
	return string(*r)
}

func rankFromNull(ns sql.NullString) *models.Rank {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	r := models.Rank(ns.String)
	return &r
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func dateValue(t time.Time) time.Time { return t.UTC() }
