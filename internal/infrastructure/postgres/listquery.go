package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

// querier is the subset of pgxpool.Pool used by repositories.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindNumber
	kindInt
	kindBool
	kindTime
	kindUUID
	kindTextArray
	kindObject // projection only
)

// field maps a JSON field name onto SQL.
type field struct {
	name   string
	column string // used in WHERE and ORDER BY
	kind   fieldKind
	// expr is the projected expression; defaults to column.
	expr string
	// populate replaces expr when the caller asks for related entities.
	populate string
	// filterOnly fields are never projected.
	filterOnly bool
	// virtual fields exist only when populating.
	virtual bool
}

func (f field) selectExpr(populate bool) string {
	if populate && f.populate != "" {
		return f.populate
	}
	if f.expr != "" {
		return f.expr
	}
	return f.column
}

// resource describes one listable table.
type resource struct {
	from   string // table with alias, e.g. "bootcamps b"
	fields []field
	index  map[string]field
}

func newResource(from string, fields ...field) *resource {
	r := &resource{from: from, fields: fields, index: make(map[string]field, len(fields))}
	for _, f := range fields {
		r.index[f.name] = f
	}
	return r
}

type listQuery struct {
	sql       string
	args      []any
	countSQL  string
	countArgs []any
}

type argList struct{ args []any }

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return "$" + strconv.Itoa(len(a.args))
}

// build renders spec into a page query and a count query sharing the same predicates.
func (r *resource) build(spec query.Spec, populate bool) (listQuery, error) {
	var args argList

	where, err := r.where(spec.Filters, &args)
	if err != nil {
		return listQuery{}, err
	}

	countSQL := "SELECT COUNT(*) FROM " + r.from + where
	countArgs := append([]any(nil), args.args...)

	limit := args.add(spec.Limit)
	offset := args.add(spec.Skip())

	sql := "SELECT " + r.projection(spec.Select, populate) +
		" FROM " + r.from + where +
		" ORDER BY " + r.orderBy(spec.Sort) +
		" LIMIT " + limit + " OFFSET " + offset

	return listQuery{sql: sql, args: args.args, countSQL: countSQL, countArgs: countArgs}, nil
}

// projection always includes id; unknown names are ignored.
func (r *resource) projection(selected []string, populate bool) string {
	var cols []string
	emit := func(f field) {
		cols = append(cols, f.selectExpr(populate)+` AS "`+f.name+`"`)
	}
	if len(selected) == 0 {
		for _, f := range r.fields {
			if f.filterOnly || (f.virtual && !populate) {
				continue
			}
			emit(f)
		}
		return strings.Join(cols, ", ")
	}

	seen := map[string]bool{"id": true}
	emit(r.index["id"])
	for _, name := range selected {
		f, ok := r.index[name]
		if !ok || seen[name] || f.filterOnly || (f.virtual && !populate) {
			continue
		}
		seen[name] = true
		emit(f)
	}
	return strings.Join(cols, ", ")
}

func (r *resource) orderBy(sorts []query.SortField) string {
	var parts []string
	for _, s := range sorts {
		f, ok := r.index[s.Field]
		if !ok || f.virtual || f.kind == kindObject {
			continue
		}
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		parts = append(parts, f.column+dir)
	}
	if len(parts) == 0 {
		parts = append(parts, r.index["createdAt"].column+" DESC")
	}
	// tie-breaker keeps pages stable
	parts = append(parts, r.index["id"].column+" ASC")
	return strings.Join(parts, ", ")
}

func (r *resource) where(filters []query.Filter, args *argList) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}
	preds := make([]string, 0, len(filters))
	for _, flt := range filters {
		f, ok := r.index[flt.Field]
		if !ok || f.virtual || f.kind == kindObject {
			// no row carries the field, so nothing matches
			preds = append(preds, "FALSE")
			continue
		}
		p, err := predicate(f, flt, args)
		if err != nil {
			return "", err
		}
		preds = append(preds, p)
	}
	return " WHERE " + strings.Join(preds, " AND "), nil
}

var comparators = map[query.Operator]string{
	query.OpEq:  "=",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

func predicate(f field, flt query.Filter, args *argList) (string, error) {
	if f.kind == kindTextArray {
		switch flt.Op {
		case query.OpEq:
			return args.add(flt.Values[0]) + " = ANY(" + f.column + ")", nil
		case query.OpIn:
			return f.column + " && " + args.add(flt.Values) + "::text[]", nil
		default:
			return "", apperror.BadRequest("Operator %s is not supported on %s", flt.Op, f.name)
		}
	}

	if flt.Op == query.OpIn {
		list, err := castList(f, flt.Values)
		if err != nil {
			return "", err
		}
		return f.column + " = ANY(" + args.add(list) + ")", nil
	}

	v, err := cast(f, flt.Values[0])
	if err != nil {
		return "", err
	}
	return f.column + " " + comparators[flt.Op] + " " + args.add(v), nil
}

func cast(f field, raw string) (any, error) {
	switch f.kind {
	case kindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperror.BadRequest("%s must be a number", f.name)
		}
		return n, nil
	case kindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperror.BadRequest("%s must be a whole number", f.name)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperror.BadRequest("%s must be true or false", f.name)
		}
		return b, nil
	case kindTime:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, apperror.BadRequest("%s must be a date", f.name)
	case kindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.BadRequest("%s must be a valid id", f.name)
		}
		return id.String(), nil
	default:
		return raw, nil
	}
}

// castList returns a typed slice so pgx can encode it as an array parameter.
func castList(f field, raws []string) (any, error) {
	switch f.kind {
	case kindNumber:
		out := make([]float64, 0, len(raws))
		for _, raw := range raws {
			v, err := cast(f, raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(float64))
		}
		return out, nil
	case kindInt:
		out := make([]int64, 0, len(raws))
		for _, raw := range raws {
			v, err := cast(f, raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(int64))
		}
		return out, nil
	case kindBool:
		out := make([]bool, 0, len(raws))
		for _, raw := range raws {
			v, err := cast(f, raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(bool))
		}
		return out, nil
	case kindTime:
		out := make([]time.Time, 0, len(raws))
		for _, raw := range raws {
			v, err := cast(f, raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(time.Time))
		}
		return out, nil
	default:
		out := make([]string, 0, len(raws))
		for _, raw := range raws {
			v, err := cast(f, raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(string))
		}
		return out, nil
	}
}

// list executes spec against r and returns one page plus the total match count.
func (r *resource) list(ctx context.Context, db querier, spec query.Spec, populate bool) (query.Result, error) {
	q, err := r.build(spec, populate)
	if err != nil {
		return query.Result{}, err
	}

	var total int64
	if err := db.QueryRow(ctx, q.countSQL, q.countArgs...).Scan(&total); err != nil {
		return query.Result{}, fmt.Errorf("count %s: %w", r.from, err)
	}

	rows, err := db.Query(ctx, q.sql, q.args...)
	if err != nil {
		return query.Result{}, fmt.Errorf("list %s: %w", r.from, err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return query.Result{}, fmt.Errorf("scan %s: %w", r.from, err)
	}
	if docs == nil {
		docs = []map[string]any{}
	}
	return query.Result{Items: docs, Total: total, Page: spec.Page, Limit: spec.Limit}, nil
}
