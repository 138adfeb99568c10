package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pdfshare/internal/repository"
)

// listPage counts table and then reads one page of it, newest first.
// table and columns are package constants, never caller input.
func listPage[T any](ctx context.Context, db *sql.DB, table, columns string, pq repository.PageQuery, scan func(scanner) (*T, error)) (*repository.PageResult[T], error) {
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}

	q := "SELECT " + columns + " FROM " + table + " ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2"
	rows, err := db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return &repository.PageResult[T]{Items: items, Total: total}, nil
}
