package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"authkit/internal/db"
)

// operator whitelist; condition operators are interpolated into SQL
// and must never come from request input unvalidated.
var sqlOperators = map[string]string{
	"=":  "=",
	"!=": "<>",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// PostgresDB stores models as jsonb documents in a shared documents
// table, one logical collection per Collection name. Conditions are
// evaluated against top-level document fields.
type PostgresDB[M any] struct {
	db *db.DB
}

func NewPostgresDB[M any](database *db.DB) *PostgresDB[M] {
	return &PostgresDB[M]{db: database}
}

var _ DB[struct{}] = (*PostgresDB[struct{}])(nil)

func (p *PostgresDB[M]) Query(ctx context.Context, opts QueryOptions) (*Result[M], error) {
	if opts.GroupBy != "" || opts.Having != nil {
		return nil, ErrUnsupportedOption
	}

	query := `SELECT data FROM documents WHERE collection = $1`
	args := []any{opts.Collection}

	query, args, err := withCondition(query, args, opts.Where)
	if err != nil {
		return nil, err
	}
	query += ` ORDER BY created_at`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("controller: query %s: %w", opts.Collection, err)
	}
	defer rows.Close()

	var records []M
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var model M
		if err := json.Unmarshal(raw, &model); err != nil {
			return nil, fmt.Errorf("controller: decode %s document: %w", opts.Collection, err)
		}
		records = append(records, model)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewResult(records), nil
}

func (p *PostgresDB[M]) Insert(ctx context.Context, models []M, opts QueryOptions) (*Result[M], error) {
	for _, model := range models {
		raw, err := json.Marshal(model)
		if err != nil {
			return nil, fmt.Errorf("controller: encode %s document: %w", opts.Collection, err)
		}
		_, err = p.db.ExecContext(ctx, `
			INSERT INTO documents (collection, data)
			VALUES ($1, $2::jsonb)
		`, opts.Collection, raw)
		if err != nil {
			return nil, fmt.Errorf("controller: insert into %s: %w", opts.Collection, err)
		}
	}
	return NewResult(models), nil
}

func (p *PostgresDB[M]) Update(ctx context.Context, model M, opts QueryOptions) (*Result[M], error) {
	if opts.Where == nil {
		return nil, fmt.Errorf("controller: update requires a where condition")
	}

	raw, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("controller: encode %s document: %w", opts.Collection, err)
	}

	query := `UPDATE documents SET data = $2::jsonb, updated_at = NOW() WHERE collection = $1`
	args := []any{opts.Collection, raw}

	query, args, err = withCondition(query, args, opts.Where)
	if err != nil {
		return nil, err
	}

	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("controller: update %s: %w", opts.Collection, err)
	}

	affected, _ := res.RowsAffected()
	updated := make([]M, affected)
	for i := range updated {
		updated[i] = model
	}
	return NewResult(updated), nil
}

func (p *PostgresDB[M]) Delete(ctx context.Context, opts QueryOptions) (*Result[M], error) {
	if opts.Where == nil {
		return nil, fmt.Errorf("controller: delete requires a where condition")
	}

	query := `DELETE FROM documents WHERE collection = $1`
	args := []any{opts.Collection}

	query, args, err := withCondition(query, args, opts.Where)
	if err != nil {
		return nil, err
	}
	query += ` RETURNING data`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("controller: delete from %s: %w", opts.Collection, err)
	}
	defer rows.Close()

	var removed []M
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var model M
		if err := json.Unmarshal(raw, &model); err != nil {
			return nil, err
		}
		removed = append(removed, model)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewResult(removed), nil
}

func withCondition(query string, args []any, cond *Condition) (string, []any, error) {
	if cond == nil {
		return query, args, nil
	}

	op, ok := sqlOperators[cond.Operator]
	if !ok {
		return "", nil, fmt.Errorf("controller: unknown operator %q", cond.Operator)
	}

	args = append(args, cond.Field, fmt.Sprintf("%v", cond.Value))
	query += fmt.Sprintf(
		" AND data ->> $%d %s $%d",
		len(args)-1, op, len(args),
	)
	return query, args, nil
}
