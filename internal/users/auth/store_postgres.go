// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
	"github.com/taibuivan/poetpiece/internal/platform/postgres"
)

var accountT = schema.UserAccount

// PostgresUserRepository implements [UserRepository] over users.account.
type PostgresUserRepository struct {
	db postgres.DB
}

func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var userSelect = fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(accountT.Columns(), ", "), accountT.Table)

// ScanUser reads a row selected with [schema.UserAccountTable.Columns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.BirthDate,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, userSelect, column)

	user, err := ScanUser(repository.db.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.WrapAs(err, action, ErrUserNotFound)
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, accountT.ID, id, "find_user_by_id")
}

func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, accountT.Username, username, "find_user_by_username")
}

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s, %s
	`,
		accountT.Table, accountT.ID, accountT.Username, accountT.Password, accountT.BirthDate, accountT.Role,
		accountT.CreatedAt, accountT.UpdatedAt,
		accountT.CreatedAt, accountT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.ID, user.Username, user.PasswordHash, user.BirthDate, string(user.Role),
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if dberr.IsUniqueViolation(err, "account_username_key") {
		return ErrUsernameTaken
	}
	return dberr.Wrap(err, "create_user")
}

func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		accountT.Table, accountT.Password, accountT.UpdatedAt, accountT.ID,
	)

	cmd, err := repository.db.Exec(context, query, userID, passwordHash)
	if err != nil {
		return dberr.Wrap(err, "update_password")
	}

	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
