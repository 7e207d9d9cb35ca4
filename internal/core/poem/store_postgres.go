// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
	"github.com/taibuivan/poetpiece/internal/platform/postgres"
)

const (
	constraintTitle = "poem_title_key"
	constraintSlug  = "poem_slug_key"
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPoem(row pgx.Row) (*Poem, error) {
	p := &Poem{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.CategoryID, &p.CategoryName,
		&p.AuthorID, &p.AuthorUsername, &p.AuthorUserID,
		&p.Rating, &p.Premium, &p.Completed, &p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (repository *PostgresRepository) ListPoems(context context.Context, filter Filter, limit, offset int) ([]*Poem, int, error) {
	query := BuildListQuery(filter, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, query.CountSQL, query.CountArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_poems")
	}

	rows, err := repository.db.Query(context, query.SQL, query.Args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_poems")
	}
	defer rows.Close()

	poems := []*Poem{}
	for rows.Next() {
		p, err := scanPoem(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_poem")
		}
		poems = append(poems, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_poems")
	}

	return poems, total, nil
}

func (repository *PostgresRepository) getPoemBy(context context.Context, column, value, action string) (*Poem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, poemSelect, poemFrom, col(aliasPoem, column))

	p, err := scanPoem(repository.db.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.WrapAs(err, action, ErrPoemNotFound)
	}
	return p, nil
}

func (repository *PostgresRepository) GetPoem(context context.Context, id string) (*Poem, error) {
	return repository.getPoemBy(context, poemT.ID, id, "get_poem")
}

func (repository *PostgresRepository) GetPoemBySlug(context context.Context, slug string) (*Poem, error) {
	return repository.getPoemBy(context, poemT.Slug, slug, "get_poem_by_slug")
}

func (repository *PostgresRepository) CreatePoem(context context.Context, p *Poem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		poemT.Table, poemT.ID, poemT.AuthorID, poemT.CategoryID, poemT.Title, poemT.Slug, poemT.Description,
		poemT.Rating, poemT.IsPremium, poemT.IsCompleted, poemT.IsPublished, poemT.CreatedAt, poemT.UpdatedAt,
		poemT.Rating, poemT.CreatedAt, poemT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		p.ID, p.AuthorID, p.CategoryID, p.Title, p.Slug, p.Description, p.Premium, p.Completed, p.Published,
	).Scan(&p.Rating, &p.CreatedAt, &p.UpdatedAt)

	return poemWriteError(err, p, "create_poem")
}

func (repository *PostgresRepository) UpdatePoem(context context.Context, p *Poem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		poemT.Table, poemT.CategoryID, poemT.Title, poemT.Slug, poemT.Description,
		poemT.IsPremium, poemT.IsCompleted, poemT.IsPublished, poemT.UpdatedAt,
		poemT.ID, poemT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		p.ID, p.CategoryID, p.Title, p.Slug, p.Description, p.Premium, p.Completed, p.Published,
	).Scan(&p.UpdatedAt)

	return poemWriteError(err, p, "update_poem")
}

// poemWriteError names the violated unique key in the message.
func poemWriteError(err error, p *Poem, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, constraintTitle):
		return apperr.Conflict(fmt.Sprintf("A poem titled '%s' already exists", p.Title))
	case dberr.IsUniqueViolation(err, constraintSlug):
		return apperr.Conflict(fmt.Sprintf("A poem with a title similar to '%s' already exists", p.Title))
	}

	return dberr.WrapAs(err, action, ErrPoemNotFound)
}

func (repository *PostgresRepository) DeletePoem(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, poemT.Table, poemT.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_poem")
	}

	if cmd.RowsAffected() == 0 {
		return ErrPoemNotFound
	}
	return nil
}

/*
RatePoem stores the score and recomputes the poem average in one statement.

The upsert runs in a data-modifying CTE whose effect is not visible to the
outer UPDATE, so the average is taken over the other users' scores plus the
new one.
*/
func (repository *PostgresRepository) RatePoem(context context.Context, poemID, userID string, score float64) (float64, error) {
	rating := schema.PoetryRating

	query := fmt.Sprintf(`
		WITH upsert AS (
			INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, NOW())
			ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
		)
		UPDATE %s
		SET %s = (
			SELECT COALESCE(AVG(s), 0) FROM (
				SELECT %s AS s FROM %s WHERE %s = $1 AND %s <> $2
				UNION ALL SELECT $3::float8
			) scores
		)
		WHERE %s = $1
		RETURNING %s
	`,
		rating.Table, rating.PoemID, rating.UserID, rating.Score, rating.RatedAt,
		rating.PoemID, rating.UserID, rating.Score, rating.Score, rating.RatedAt,
		poemT.Table, poemT.Rating,
		rating.Score, rating.Table, rating.PoemID, rating.UserID,
		poemT.ID, poemT.Rating,
	)

	var average float64
	if err := repository.db.QueryRow(context, query, poemID, userID, score).Scan(&average); err != nil {
		return 0, dberr.WrapAs(err, "rate_poem", ErrPoemNotFound)
	}
	return average, nil
}
