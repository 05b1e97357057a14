package db

import (
	"fmt"
	"strings"

	"github.com/Spok95/school-console/internal/models"
)

type Op string

const (
	OpEq      Op = "="
	OpNe      Op = "<>"
	OpLt      Op = "<"
	OpLte     Op = "<="
	OpGt      Op = ">"
	OpGte     Op = ">="
	OpIn      Op = "IN"
	OpIsNull  Op = "IS NULL"
	OpNotNull Op = "IS NOT NULL"
)

// Clause: одно условие по колонке.
type Clause struct {
	Field  string
	Op     Op
	Values []any
}

func Eq(field string, v any) Clause  { return Clause{Field: field, Op: OpEq, Values: []any{v}} }
func Ne(field string, v any) Clause  { return Clause{Field: field, Op: OpNe, Values: []any{v}} }
func Lt(field string, v any) Clause  { return Clause{Field: field, Op: OpLt, Values: []any{v}} }
func Lte(field string, v any) Clause { return Clause{Field: field, Op: OpLte, Values: []any{v}} }
func Gt(field string, v any) Clause  { return Clause{Field: field, Op: OpGt, Values: []any{v}} }
func Gte(field string, v any) Clause { return Clause{Field: field, Op: OpGte, Values: []any{v}} }
func IsNull(field string) Clause     { return Clause{Field: field, Op: OpIsNull} }
func NotNull(field string) Clause    { return Clause{Field: field, Op: OpNotNull} }

// In matches any of values. An empty list matches nothing.
func In(field string, values ...any) Clause {
	return Clause{Field: field, Op: OpIn, Values: values}
}

// InIDs is In for the usual []int64 id lists.
func InIDs(field string, ids []int64) Clause {
	vals := make([]any, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	return In(field, vals...)
}

// Filter is a conjunction of clauses. The zero Filter selects nothing-in-particular
// and is refused by deletes; use All to select every row on purpose.
type Filter struct {
	clauses []Clause
	all     bool
}

func Where(clauses ...Clause) Filter { return Filter{clauses: clauses} }

// All selects every row of a table.
func All() Filter { return Filter{all: true} }

// ByID is the common single-row filter.
func ByID(id int64) Filter { return Where(Eq("id", id)) }

// And returns a copy of f with more clauses.
func (f Filter) And(clauses ...Clause) Filter {
	out := Filter{all: f.all && len(clauses) == 0}
	out.clauses = append(append([]Clause{}, f.clauses...), clauses...)
	return out
}

func (f Filter) IsAll() bool   { return f.all && len(f.clauses) == 0 }
func (f Filter) IsEmpty() bool { return !f.all && len(f.clauses) == 0 }

func (f Filter) String() string {
	if f.IsAll() {
		return "<all>"
	}
	parts := make([]string, 0, len(f.clauses))
	for _, c := range f.clauses {
		switch c.Op {
		case OpIsNull, OpNotNull:
			parts = append(parts, fmt.Sprintf("%s %s", c.Field, c.Op))
		case OpIn:
			parts = append(parts, fmt.Sprintf("%s IN %v", c.Field, c.Values))
		default:
			parts = append(parts, fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Values[0]))
		}
	}
	return strings.Join(parts, " AND ")
}

// build renders the WHERE part with "?" placeholders. Columns are checked against t.
func (f Filter) build(t table) (string, []any, error) {
	if len(f.clauses) == 0 {
		return "", nil, nil
	}
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(" WHERE ")
	for i, c := range f.clauses {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		if !t.hasColumn(c.Field) {
			return "", nil, models.Validation(t.kind, "Filter", fmt.Sprintf("unknown column %q", c.Field))
		}
		switch c.Op {
		case OpIsNull, OpNotNull:
			sb.WriteString(c.Field + " " + string(c.Op))
		case OpIn:
			if len(c.Values) == 0 {
				sb.WriteString("1 = 0")
				continue
			}
			sb.WriteString(c.Field + " IN (")
			for j := range c.Values {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString("?")
			}
			sb.WriteString(")")
			args = append(args, c.Values...)
		case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
			if len(c.Values) != 1 {
				return "", nil, models.Validation(t.kind, "Filter", fmt.Sprintf("%s %s needs exactly one value", c.Field, c.Op))
			}
			sb.WriteString(c.Field + " " + string(c.Op) + " ?")
			args = append(args, c.Values[0])
		default:
			return "", nil, models.Validation(t.kind, "Filter", fmt.Sprintf("unsupported operator %q", c.Op))
		}
	}
	return sb.String(), args, nil
}
