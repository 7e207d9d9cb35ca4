// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import (
	"context"
	"fmt"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
)

var stanzaT = schema.PoetryStanza

// DuplicateStanza is the conflict raised when an index is already taken.
func DuplicateStanza(index int) *apperr.AppError {
	return apperr.Conflict(fmt.Sprintf("Stanza %d already exists in poem", index))
}

func (repository *PostgresRepository) ListStanzas(context context.Context, poemID string) ([]*Stanza, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		stanzaT.ID, stanzaT.PoemID, stanzaT.Index, stanzaT.Content, stanzaT.CreatedAt, stanzaT.UpdatedAt,
		stanzaT.Table, stanzaT.PoemID, stanzaT.Index,
	)

	rows, err := repository.db.Query(context, query, poemID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_stanzas")
	}
	defer rows.Close()

	stanzas := []*Stanza{}
	for rows.Next() {
		s := &Stanza{}
		if err := rows.Scan(&s.ID, &s.PoemID, &s.Index, &s.Content, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_stanza")
		}
		stanzas = append(stanzas, s)
	}

	return stanzas, dberr.Wrap(rows.Err(), "list_stanzas")
}

func (repository *PostgresRepository) GetStanza(context context.Context, poemID string, index int) (*Stanza, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		stanzaT.ID, stanzaT.PoemID, stanzaT.Index, stanzaT.Content, stanzaT.CreatedAt, stanzaT.UpdatedAt,
		stanzaT.Table, stanzaT.PoemID, stanzaT.Index,
	)

	s := &Stanza{}
	err := repository.db.QueryRow(context, query, poemID, index).Scan(
		&s.ID, &s.PoemID, &s.Index, &s.Content, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.WrapAs(err, "get_stanza", ErrStanzaNotFound)
	}
	return s, nil
}

func (repository *PostgresRepository) CreateStanza(context context.Context, s *Stanza) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s, %s
	`,
		stanzaT.Table, stanzaT.ID, stanzaT.PoemID, stanzaT.Index, stanzaT.Content, stanzaT.CreatedAt, stanzaT.UpdatedAt,
		stanzaT.CreatedAt, stanzaT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, s.ID, s.PoemID, s.Index, s.Content).Scan(&s.CreatedAt, &s.UpdatedAt)
	if dberr.IsUniqueViolation(err, stanzaT.IndexKey) {
		return DuplicateStanza(s.Index)
	}
	return dberr.Wrap(err, "create_stanza")
}

func (repository *PostgresRepository) UpdateStanza(context context.Context, s *Stanza, oldIndex int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s, %s, %s
	`,
		stanzaT.Table, stanzaT.Index, stanzaT.Content, stanzaT.UpdatedAt,
		stanzaT.PoemID, stanzaT.Index,
		stanzaT.ID, stanzaT.CreatedAt, stanzaT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, s.PoemID, oldIndex, s.Index, s.Content).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if dberr.IsUniqueViolation(err, stanzaT.IndexKey) {
		return DuplicateStanza(s.Index)
	}
	return dberr.WrapAs(err, "update_stanza", ErrStanzaNotFound)
}

func (repository *PostgresRepository) DeleteStanza(context context.Context, poemID string, index int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, stanzaT.Table, stanzaT.PoemID, stanzaT.Index)

	cmd, err := repository.db.Exec(context, query, poemID, index)
	if err != nil {
		return dberr.Wrap(err, "delete_stanza")
	}

	if cmd.RowsAffected() == 0 {
		return ErrStanzaNotFound
	}
	return nil
}
