// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import (
	"context"
	"fmt"

	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
)

var commentT = schema.PoetryComment

// commentSelect joins the commenter's username.
var commentSelect = fmt.Sprintf(`
		SELECT m.%s, m.%s, m.%s, a.%s, m.%s, m.%s, m.%s, m.%s
		FROM %s m
		JOIN %s a ON a.%s = m.%s`,
	commentT.ID, commentT.PoemID, commentT.UserID, accountT.Username,
	commentT.Body, commentT.IsApproved, commentT.CreatedAt, commentT.UpdatedAt,
	commentT.Table, accountT.Table, accountT.ID, commentT.UserID,
)

func (repository *PostgresRepository) ListComments(context context.Context, poemID, viewerUserID string, includeAll bool) ([]*Comment, error) {
	var viewer *string
	if viewerUserID != "" {
		viewer = &viewerUserID
	}

	query := commentSelect + fmt.Sprintf(`
		WHERE m.%s = $1 AND (m.%s OR $2::boolean OR m.%s = $3)
		ORDER BY m.%s ASC
	`, commentT.PoemID, commentT.IsApproved, commentT.UserID, commentT.CreatedAt)

	rows, err := repository.db.Query(context, query, poemID, includeAll, viewer)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.PoemID, &c.UserID, &c.Username, &c.Body, &c.Approved, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, c)
	}

	return comments, dberr.Wrap(rows.Err(), "list_comments")
}

func (repository *PostgresRepository) GetComment(context context.Context, id string) (*Comment, error) {
	query := commentSelect + fmt.Sprintf(` WHERE m.%s = $1`, commentT.ID)

	c := &Comment{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&c.ID, &c.PoemID, &c.UserID, &c.Username, &c.Body, &c.Approved, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.WrapAs(err, "get_comment", ErrCommentNotFound)
	}
	return c, nil
}

func (repository *PostgresRepository) CreateComment(context context.Context, c *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		RETURNING %s, %s
	`,
		commentT.Table, commentT.ID, commentT.PoemID, commentT.UserID, commentT.Body, commentT.IsApproved,
		commentT.CreatedAt, commentT.UpdatedAt,
		commentT.CreatedAt, commentT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, c.ID, c.PoemID, c.UserID, c.Body).Scan(&c.CreatedAt, &c.UpdatedAt)
	return dberr.Wrap(err, "create_comment")
}

func (repository *PostgresRepository) ApproveComment(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		commentT.Table, commentT.IsApproved, commentT.UpdatedAt, commentT.ID,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "approve_comment")
	}

	if cmd.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteComment(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, commentT.Table, commentT.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}

	if cmd.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}
