// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
	"github.com/taibuivan/poetpiece/internal/platform/postgres"
)

const constraintEmail = "poet_email_key"

var (
	poetT    = schema.UserPoet
	accountT = schema.UserAccount
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var poetSelect = fmt.Sprintf(`
		SELECT w.%s, w.%s, a.%s, w.%s, w.%s, w.%s, w.%s, w.%s
		FROM %s w
		JOIN %s a ON a.%s = w.%s`,
	poetT.ID, poetT.UserID, accountT.Username, poetT.Email, poetT.Gender, poetT.Bio, poetT.IsVerified, poetT.CreatedAt,
	poetT.Table, accountT.Table, accountT.ID, poetT.UserID,
)

func scanPoet(row pgx.Row) (*Poet, error) {
	p := &Poet{}
	err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.Email, &p.Gender, &p.Bio, &p.Verified, &p.CreatedAt)
	return p, err
}

func (repository *PostgresRepository) getBy(context context.Context, where, value, action string) (*Poet, error) {
	p, err := scanPoet(repository.db.QueryRow(context, poetSelect+" WHERE "+where+" = $1", value))
	if err != nil {
		return nil, dberr.WrapAs(err, action, ErrNotFound)
	}
	return p, nil
}

func (repository *PostgresRepository) CountPoets(context context.Context) (int, error) {
	var count int
	err := repository.db.QueryRow(context, fmt.Sprintf(`SELECT count(*) FROM %s`, poetT.Table)).Scan(&count)
	return count, dberr.Wrap(err, "count_poets")
}

func (repository *PostgresRepository) CreatePoet(context context.Context, p *Poet) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
		RETURNING %s
	`,
		poetT.Table, poetT.ID, poetT.UserID, poetT.Email, poetT.Gender, poetT.Bio, poetT.IsVerified, poetT.CreatedAt,
		poetT.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, p.ID, p.UserID, p.Email, p.Gender, p.Bio).Scan(&p.CreatedAt)
	switch {
	case dberr.IsUniqueViolation(err, constraintEmail):
		return apperr.Conflict("This email is already used by another poet")
	case dberr.IsUniqueViolation(err, ""):
		return ErrAlreadyPoet
	}
	return dberr.Wrap(err, "create_poet")
}

func (repository *PostgresRepository) GetPoet(context context.Context, id string) (*Poet, error) {
	return repository.getBy(context, "w."+poetT.ID, id, "get_poet")
}

func (repository *PostgresRepository) GetPoetByUserID(context context.Context, userID string) (*Poet, error) {
	return repository.getBy(context, "w."+poetT.UserID, userID, "get_poet_by_user")
}

func (repository *PostgresRepository) GetPoetByUsername(context context.Context, username string) (*Poet, error) {
	return repository.getBy(context, "a."+accountT.Username, username, "get_poet_by_username")
}

func (repository *PostgresRepository) SetVerified(context context.Context, id string, verified bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, poetT.Table, poetT.IsVerified, poetT.ID)

	cmd, err := repository.db.Exec(context, query, id, verified)
	if err != nil {
		return dberr.Wrap(err, "verify_poet")
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
