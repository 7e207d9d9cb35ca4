// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
	"github.com/taibuivan/poetpiece/internal/platform/postgres"
)

const constraintName = "category_name_key"

var (
	categoryT = schema.PoetryCategory
	poemT     = schema.PoetryPoem
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// categorySelect counts referencing poems alongside each category.
var categorySelect = fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s,
			(SELECT count(*) FROM %s p WHERE p.%s = c.%s)
		FROM %s c`,
	categoryT.ID, categoryT.Name, categoryT.Description, categoryT.CreatedAt,
	poemT.Table, poemT.CategoryID, categoryT.ID,
	categoryT.Table,
)

func scanCategory(row pgx.Row) (*Category, error) {
	c := &Category{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.PoemCount)
	return c, err
}

func (repository *PostgresRepository) ListCategories(context context.Context) ([]*Category, error) {
	query := categorySelect + fmt.Sprintf(` ORDER BY c.%s ASC`, categoryT.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, dberr.Wrap(rows.Err(), "list_categories")
}

func (repository *PostgresRepository) GetCategory(context context.Context, id string) (*Category, error) {
	query := categorySelect + fmt.Sprintf(` WHERE c.%s = $1`, categoryT.ID)

	c, err := scanCategory(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapAs(err, "get_category", ErrNotFound)
	}
	return c, nil
}

func (repository *PostgresRepository) CreateCategory(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		RETURNING %s
	`,
		categoryT.Table, categoryT.ID, categoryT.Name, categoryT.Description, categoryT.CreatedAt,
		categoryT.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, c.ID, c.Name, c.Description).Scan(&c.CreatedAt)
	if dberr.IsUniqueViolation(err, constraintName) {
		return apperr.Conflict(fmt.Sprintf("Category '%s' already exists", c.Name))
	}
	return dberr.Wrap(err, "create_category")
}

/*
DeleteCategory checks references and deletes in one transaction.

The category row is locked first so that a poem cannot be filed under it
between the count and the delete.
*/
func (repository *PostgresRepository) DeleteCategory(context context.Context, id string) (int, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_category")
	}
	defer func() { _ = tx.Rollback(context) }()

	lock := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 FOR UPDATE`, categoryT.Table, categoryT.ID)
	var found int
	if err := tx.QueryRow(context, lock, id).Scan(&found); err != nil {
		return 0, dberr.WrapAs(err, "lock_category", ErrNotFound)
	}

	count := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, poemT.Table, poemT.CategoryID)
	var references int
	if err := tx.QueryRow(context, count, id).Scan(&references); err != nil {
		return 0, dberr.Wrap(err, "count_category_poems")
	}
	if references > 0 {
		return references, nil
	}

	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, categoryT.Table, categoryT.ID)
	if _, err := tx.Exec(context, remove, id); err != nil {
		return 0, dberr.Wrap(err, "delete_category")
	}

	return 0, dberr.Wrap(tx.Commit(context), "delete_category")
}
