// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"fmt"
	"strconv"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
	"github.com/taibuivan/poetpiece/internal/platform/postgres"
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var table = schema.SocialNotification

// ownerClause scopes rows to the owner. The first two placeholders are the
// owner's user id and admin flag.
var ownerClause = fmt.Sprintf(`(%s = $1 OR ($2 AND %s IS NULL)) AND NOT %s`, table.UserID, table.UserID, table.IsTrashed)

func (repository *PostgresRepository) CreateNotification(context context.Context, n *Notification) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, FALSE, FALSE, NOW())
		RETURNING %s
	`,
		table.Table, table.ID, table.UserID, table.Content, table.Tag, table.IsRead, table.IsTrashed, table.CreatedAt,
		table.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, n.ID, n.UserID, n.Content, string(n.Tag)).Scan(&n.CreatedAt)
	return dberr.Wrap(err, "create_notification")
}

func (repository *PostgresRepository) ListNotifications(context context.Context, owner access.Actor, filter Filter, limit, offset int) ([]*Notification, int, error) {
	where := ownerClause
	args := []any{owner.UserID, owner.Admin}

	if filter.UnreadOnly {
		where += fmt.Sprintf(` AND NOT %s`, table.IsRead)
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(` AND %s ILIKE $%d`, table.Content, len(args))
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, table.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_notifications")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s
		ORDER BY %s ASC, %s DESC
		LIMIT $%s OFFSET $%s
	`,
		table.ID, table.UserID, table.Content, table.Tag, table.IsRead, table.CreatedAt,
		table.Table, where,
		table.IsRead, table.CreatedAt,
		itos(len(args)+1), itos(len(args)+2),
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_notifications")
	}
	defer rows.Close()

	notifications := []*Notification{}
	for rows.Next() {
		n := &Notification{}
		var tag string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &tag, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_notification")
		}
		n.Tag = Tag(tag)
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_notifications")
	}

	return notifications, total, nil
}

func (repository *PostgresRepository) CountUnread(context context.Context, owner access.Actor) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s AND NOT %s`, table.Table, ownerClause, table.IsRead)

	var count int
	err := repository.db.QueryRow(context, query, owner.UserID, owner.Admin).Scan(&count)
	return count, dberr.Wrap(err, "count_unread_notifications")
}

func (repository *PostgresRepository) MarkRead(context context.Context, owner access.Actor, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s AND %s = $3`, table.Table, table.IsRead, ownerClause, table.ID)
	return repository.execOne(context, "mark_notification_read", query, owner.UserID, owner.Admin, id)
}

func (repository *PostgresRepository) MarkAllRead(context context.Context, owner access.Actor) (int, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s AND NOT %s`, table.Table, table.IsRead, ownerClause, table.IsRead)

	cmd, err := repository.db.Exec(context, query, owner.UserID, owner.Admin)
	if err != nil {
		return 0, dberr.Wrap(err, "mark_all_notifications_read")
	}
	return int(cmd.RowsAffected()), nil
}

func (repository *PostgresRepository) Trash(context context.Context, owner access.Actor, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s AND %s = $3`, table.Table, table.IsTrashed, ownerClause, table.ID)
	return repository.execOne(context, "trash_notification", query, owner.UserID, owner.Admin, id)
}

func (repository *PostgresRepository) execOne(context context.Context, action, query string, args ...any) error {
	cmd, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func itos(i int) string {
	return strconv.Itoa(i)
}
