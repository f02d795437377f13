package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// timeFields are document fields holding RFC 3339 timestamps. They are cast
// to timestamptz for comparison and ordering.
var timeFields = map[string]bool{
	ministry.FieldDate:      true,
	ministry.FieldCreatedAt: true,
	ministry.FieldUpdatedAt: true,
}

type collection[T any] struct {
	db    DBTX
	table string
	ident string
}

func newCollection[T any](db DBTX, table string) *collection[T] {
	return &collection[T]{
		db:    db,
		table: table,
		ident: pgx.Identifier{table}.Sanitize(),
	}
}

func (c *collection[T]) Insert(ctx context.Context, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &ministry.StorageError{Collection: c.table, Op: "insert", Err: err}
	}

	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil || head.ID == "" {
		return &ministry.StorageError{Collection: c.table, Op: "insert", Err: errors.New("document id is required")}
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, c.ident)
	if _, err := c.db.Exec(ctx, query, head.ID, string(data)); err != nil {
		return handlePostgresError(c.table, "insert", err)
	}
	return nil
}

func (c *collection[T]) Find(ctx context.Context, q ministry.Query) ([]*T, error) {
	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return nil, &ministry.StorageError{Collection: c.table, Op: "find", Err: err}
	}

	query := fmt.Sprintf(`SELECT doc FROM %s%s ORDER BY %s`, c.ident, where, orderBy(q.Sort))
	if q.Limit > 0 {
		args = append(args, q.Limit, q.Skip())
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError(c.table, "find", err)
	}
	defer rows.Close()

	results := make([]*T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, handlePostgresError(c.table, "scan", err)
		}
		record := new(T)
		if err := json.Unmarshal(raw, record); err != nil {
			return nil, &ministry.StorageError{Collection: c.table, Op: "decode", Err: err}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError(c.table, "iterate rows", err)
	}
	return results, nil
}

func (c *collection[T]) Count(ctx context.Context, q ministry.Query) (int64, error) {
	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return 0, &ministry.StorageError{Collection: c.table, Op: "count", Err: err}
	}

	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, c.ident, where)
	if err := c.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, handlePostgresError(c.table, "count", err)
	}
	return count, nil
}

func (c *collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.ident)
	return c.scanOne(ctx, "find_by_id", query, id)
}

func (c *collection[T]) UpdateByID(ctx context.Context, id string, fields ministry.Fields) (*T, error) {
	patch, err := json.Marshal(fields)
	if err != nil {
		return nil, &ministry.StorageError{Collection: c.table, Op: "update", Err: err}
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1 RETURNING doc`, c.ident)
	return c.scanOne(ctx, "update", query, id, string(patch))
}

func (c *collection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.ident)
	tag, err := c.db.Exec(ctx, query, id)
	if err != nil {
		return false, handlePostgresError(c.table, "delete", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (c *collection[T]) scanOne(ctx context.Context, op, query string, args ...interface{}) (*T, error) {
	var raw []byte
	if err := c.db.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ministry.ErrNotFound
		}
		return nil, handlePostgresError(c.table, op, err)
	}

	record := new(T)
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, &ministry.StorageError{Collection: c.table, Op: "decode", Err: err}
	}
	return record, nil
}

// fieldExpr returns the SQL expression reading a document field
func fieldExpr(field string) string {
	expr := fmt.Sprintf("(doc->>'%s')", strings.ReplaceAll(field, "'", "''"))
	if timeFields[field] {
		return expr + "::timestamptz"
	}
	return expr
}

// buildWhere translates query filters into a WHERE clause and its arguments
func buildWhere(filters []ministry.Filter) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	conditions := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for _, f := range filters {
		switch f.Op {
		case ministry.OpContainsFold:
			args = append(args, likePattern(fmt.Sprint(f.Value)))
			conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", fieldExpr(f.Field), len(args)))
		case ministry.OpGreaterOrEqual:
			bound, ok := f.Value.(time.Time)
			if !ok {
				return "", nil, fmt.Errorf("filter %s on %s needs a time value", f.Op, f.Field)
			}
			args = append(args, bound)
			conditions = append(conditions, fmt.Sprintf("%s >= $%d", fieldExpr(f.Field), len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// orderBy returns the ORDER BY expression. Rows without a sort field come
// back in insertion order.
func orderBy(s ministry.Sort) string {
	if s.Field == "" {
		return "seq"
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, seq", fieldExpr(s.Field), direction)
}

// likePattern wraps term for a substring ILIKE match with wildcards escaped
func likePattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}
