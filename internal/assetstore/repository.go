package assetstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository is the shared persistence contract, generic over one entity
// type. Filters, where present, are field-name/value pairs applied as an
// AND'd equality predicate.
type Repository[T any] interface {
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	GetByFields(ctx context.Context, filters map[string]any) (*T, error)
	FindMany(ctx context.Context, filters map[string]any, limit, offset int, orderBy string) ([]T, error)
	Count(ctx context.Context, filters map[string]any) (int, error)
	Create(ctx context.Context, entity map[string]any) (*T, error)
	Update(ctx context.Context, id uuid.UUID, patch map[string]any) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetOrCreate(ctx context.Context, filters map[string]any, defaults map[string]any) (*T, bool, error)
	Upsert(ctx context.Context, entity map[string]any, conflictFields []string, updateFields []string) (*T, error)
	BulkCreate(ctx context.Context, entities []map[string]any) ([]T, error)
	BulkUpsert(ctx context.Context, entities []map[string]any, conflictFields []string, updateFields []string) ([]T, error)
}

// sqlxExecer is satisfied by both *sqlx.DB and *sqlx.Tx, letting a
// baseRepository run either inside a UnitOfWork or standalone.
type sqlxExecer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// baseRepository implements Repository[T] over a single table with
// sqlx's struct-tag reflection, shared by every concrete repository in
// this package via embedding.
type baseRepository[T any] struct {
	exec  sqlxExecer
	table string
}

func newBaseRepository[T any](exec sqlxExecer, table string) baseRepository[T] {
	return baseRepository[T]{exec: exec, table: table}
}

func (r *baseRepository[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", r.table)
	if err := r.exec.GetContext(ctx, &out, query, id); err != nil {
		return nil, err
	}
	return &out, nil
}

func whereClause(filters map[string]any, startAt int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	// Stable clause order keeps generated SQL deterministic across runs.
	sort.Strings(names)
	clauses := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	i := startAt
	for _, name := range names {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", name, i))
		args = append(args, filters[name])
		i++
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *baseRepository[T]) GetByFields(ctx context.Context, filters map[string]any) (*T, error) {
	where, args := whereClause(filters, 1)
	var out T
	query := fmt.Sprintf("SELECT * FROM %s%s LIMIT 1", r.table, where)
	if err := r.exec.GetContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *baseRepository[T]) FindMany(ctx context.Context, filters map[string]any, limit, offset int, orderBy string) ([]T, error) {
	where, args := whereClause(filters, 1)
	if limit <= 0 {
		limit = 100
	}

	order := ""
	if orderBy != "" {
		direction := "ASC"
		field := orderBy
		if strings.HasPrefix(orderBy, "-") {
			direction = "DESC"
			field = orderBy[1:]
		}
		order = fmt.Sprintf(" ORDER BY %s %s", field, direction)
	}

	query := fmt.Sprintf("SELECT * FROM %s%s%s LIMIT %d OFFSET %d", r.table, where, order, limit, offset)
	var out []T
	if err := r.exec.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *baseRepository[T]) Count(ctx context.Context, filters map[string]any) (int, error) {
	where, args := whereClause(filters, 1)
	var n int
	query := fmt.Sprintf("SELECT count(*) FROM %s%s", r.table, where)
	if err := r.exec.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func columnsAndArgs(data map[string]any, startAt int) (columns []string, placeholders []string, args []any) {
	columns = make([]string, 0, len(data))
	for name := range data {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	placeholders = make([]string, 0, len(columns))
	args = make([]any, 0, len(columns))
	for i, name := range columns {
		placeholders = append(placeholders, fmt.Sprintf("$%d", startAt+i))
		args = append(args, data[name])
	}
	return columns, placeholders, args
}

func (r *baseRepository[T]) insertRow(ctx context.Context, data map[string]any, conflictFields, updateFields []string) (*T, error) {
	columns, placeholders, args := columnsAndArgs(data, 1)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", r.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if len(conflictFields) > 0 {
		update := updateFields
		if len(update) == 0 {
			update = nonConflictColumns(columns, conflictFields)
		}
		if len(update) == 0 {
			query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(conflictFields, ", "))
		} else {
			sets := make([]string, len(update))
			for i, col := range update {
				sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
			}
			query += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", strings.Join(conflictFields, ", "), strings.Join(sets, ", "))
		}
	}
	query += " RETURNING *"

	var out T
	if err := r.exec.GetContext(ctx, &out, query, args...); err != nil {
		return nil, asUniqueViolation(conflictFields, err)
	}
	return &out, nil
}

func nonConflictColumns(columns, conflictFields []string) []string {
	conflict := make(map[string]struct{}, len(conflictFields))
	for _, f := range conflictFields {
		conflict[f] = struct{}{}
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == "id" {
			continue
		}
		if _, skip := conflict[c]; skip {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *baseRepository[T]) Create(ctx context.Context, entity map[string]any) (*T, error) {
	return r.insertRow(ctx, entity, nil, nil)
}

func (r *baseRepository[T]) Update(ctx context.Context, id uuid.UUID, patch map[string]any) (*T, error) {
	columns, _, args := columnsAndArgs(patch, 1)
	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *", r.table, strings.Join(sets, ", "), len(args))

	var out T
	if err := r.exec.GetContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table)
	_, err := r.exec.ExecContext(ctx, query, id)
	return err
}

func (r *baseRepository[T]) GetOrCreate(ctx context.Context, filters map[string]any, defaults map[string]any) (*T, bool, error) {
	existing, err := r.GetByFields(ctx, filters)
	if err == nil {
		return existing, false, nil
	}

	data := make(map[string]any, len(filters)+len(defaults))
	for k, v := range filters {
		data[k] = v
	}
	for k, v := range defaults {
		data[k] = v
	}
	created, createErr := r.Create(ctx, data)
	if createErr != nil {
		return nil, false, createErr
	}
	return created, true, nil
}

func (r *baseRepository[T]) Upsert(ctx context.Context, entity map[string]any, conflictFields []string, updateFields []string) (*T, error) {
	return r.insertRow(ctx, entity, conflictFields, updateFields)
}

func (r *baseRepository[T]) BulkCreate(ctx context.Context, entities []map[string]any) ([]T, error) {
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		row, err := r.Create(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, nil
}

func (r *baseRepository[T]) BulkUpsert(ctx context.Context, entities []map[string]any, conflictFields []string, updateFields []string) ([]T, error) {
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		row, err := r.Upsert(ctx, e, conflictFields, updateFields)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, nil
}
