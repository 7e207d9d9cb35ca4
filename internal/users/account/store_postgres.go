// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
	"github.com/taibuivan/poetpiece/internal/platform/postgres"
	"github.com/taibuivan/poetpiece/internal/users/auth"
)

var (
	accountT = schema.UserAccount
	poetT    = schema.UserPoet
	poemT    = schema.PoetryPoem
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(accountT.Columns(), ", "), accountT.Table, accountT.ID,
	)

	user, err := auth.ScanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapAs(err, "find_account", auth.ErrUserNotFound)
	}
	return user, nil
}

func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		accountT.Table, accountT.Username, accountT.BirthDate, accountT.UpdatedAt,
		accountT.ID, accountT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, user.ID, user.Username, user.BirthDate).Scan(&user.UpdatedAt)
	if dberr.IsUniqueViolation(err, "account_username_key") {
		return auth.ErrUsernameTaken
	}
	return dberr.WrapAs(err, "update_account", auth.ErrUserNotFound)
}

/*
Delete removes an account in one transaction.

The poet row is locked first so that no poem can be attributed to it
between the count and the delete.
*/
func (repository *PostgresRepository) Delete(context context.Context, userID string) (int, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_account")
	}
	defer func() { _ = tx.Rollback(context) }()

	lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, poetT.ID, poetT.Table, poetT.UserID)
	var poetIDs []string
	rows, err := tx.Query(context, lock, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "lock_poet")
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, dberr.Wrap(err, "lock_poet")
		}
		poetIDs = append(poetIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, dberr.Wrap(err, "lock_poet")
	}

	if len(poetIDs) > 0 {
		count := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, poemT.Table, poemT.AuthorID)
		var poems int
		if err := tx.QueryRow(context, count, poetIDs[0]).Scan(&poems); err != nil {
			return 0, dberr.Wrap(err, "count_poet_poems")
		}
		if poems > 0 {
			return poems, nil
		}

		removePoet := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, poetT.Table, poetT.ID)
		if _, err := tx.Exec(context, removePoet, poetIDs[0]); err != nil {
			return 0, dberr.Wrap(err, "delete_poet")
		}
	}

	removeAccount := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, accountT.Table, accountT.ID)
	cmd, err := tx.Exec(context, removeAccount, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_account")
	}
	if cmd.RowsAffected() == 0 {
		return 0, auth.ErrUserNotFound
	}

	return 0, dberr.Wrap(tx.Commit(context), "delete_account")
}
