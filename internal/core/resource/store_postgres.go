// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
	"github.com/taibuivan/poetpiece/internal/platform/postgres"
)

var (
	resourceT = schema.SocialResource
	voteT     = schema.SocialResourceVote
	poetT     = schema.UserPoet
	accountT  = schema.UserAccount
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// resourceSelect takes the viewer's user id as $1 for the my_vote column.
var resourceSelect = fmt.Sprintf(`
		SELECT r.%[1]s, r.%[2]s, a.%[3]s, r.%[4]s, r.%[5]s, r.%[6]s, r.%[7]s, r.%[8]s, r.%[9]s,
			(SELECT count(*) FROM %[10]s v WHERE v.%[11]s = r.%[1]s AND v.%[12]s = 'UPVOTE'),
			(SELECT count(*) FROM %[10]s v WHERE v.%[11]s = r.%[1]s AND v.%[12]s = 'DOWNVOTE'),
			(SELECT v.%[12]s FROM %[10]s v WHERE v.%[11]s = r.%[1]s AND v.%[13]s = $1)
		FROM %[14]s r
		JOIN %[15]s w ON w.%[16]s = r.%[2]s
		JOIN %[17]s a ON a.%[18]s = w.%[19]s`,
	resourceT.ID, resourceT.AuthorID, accountT.Username, resourceT.Type, resourceT.Title, resourceT.Body,
	resourceT.IsPublished, resourceT.CreatedAt, resourceT.UpdatedAt,
	voteT.Table, voteT.ResourceID, voteT.Reaction, voteT.UserID,
	resourceT.Table,
	poetT.Table, poetT.ID,
	accountT.Table, accountT.ID, poetT.UserID,
)

func scanResource(row pgx.Row) (*Resource, error) {
	r := &Resource{}
	var (
		kind   string
		myVote *string
	)

	err := row.Scan(
		&r.ID, &r.AuthorID, &r.AuthorUsername, &kind, &r.Title, &r.Body, &r.Published, &r.CreatedAt, &r.UpdatedAt,
		&r.Upvotes, &r.Downvotes, &myVote,
	)
	if err != nil {
		return nil, err
	}

	r.Type = Type(kind)
	if myVote != nil {
		reaction := Reaction(*myVote)
		r.MyVote = &reaction
	}
	return r, nil
}

// viewer turns an empty user id into SQL NULL.
func viewer(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}

// listWhere appends the visibility and type predicates to args.
func listWhere(filter Filter, args []any) (string, []any) {
	where := fmt.Sprintf("r.%s", resourceT.IsPublished)

	if filter.Viewer.IsPoet() {
		args = append(args, filter.Viewer.PoetID)
		where = fmt.Sprintf("(r.%s OR r.%s = $%d)", resourceT.IsPublished, resourceT.AuthorID, len(args))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where += fmt.Sprintf(" AND r.%s = $%d", resourceT.Type, len(args))
	}
	return where, args
}

func (repository *PostgresRepository) ListResources(context context.Context, filter Filter, limit, offset int) ([]*Resource, int, error) {
	countWhere, countArgs := listWhere(filter, nil)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s r WHERE %s`, resourceT.Table, countWhere)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_resources")
	}

	where, args := listWhere(filter, []any{viewer(filter.Viewer.UserID)})

	order := fmt.Sprintf("r.%s DESC, r.%s ASC", resourceT.CreatedAt, resourceT.ID)
	if filter.Sort == SortTitle {
		order = fmt.Sprintf("r.%s ASC, r.%s ASC", resourceT.Title, resourceT.ID)
	}

	query := resourceSelect + fmt.Sprintf(`
		WHERE %s
		ORDER BY %s
		LIMIT $%s OFFSET $%s`,
		where, order, strconv.Itoa(len(args)+1), strconv.Itoa(len(args)+2),
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_resources")
	}
	defer rows.Close()

	resources := []*Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_resource")
		}
		resources = append(resources, r)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_resources")
	}
	return resources, total, nil
}

func (repository *PostgresRepository) GetResource(context context.Context, id, viewerUserID string) (*Resource, error) {
	query := resourceSelect + fmt.Sprintf(` WHERE r.%s = $2`, resourceT.ID)

	r, err := scanResource(repository.db.QueryRow(context, query, viewer(viewerUserID), id))
	if err != nil {
		return nil, dberr.WrapAs(err, "get_resource", ErrNotFound)
	}
	return r, nil
}

func (repository *PostgresRepository) CreateResource(context context.Context, r *Resource) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
		RETURNING %s, %s
	`,
		resourceT.Table, resourceT.ID, resourceT.AuthorID, resourceT.Type, resourceT.Title, resourceT.Body,
		resourceT.IsPublished, resourceT.CreatedAt, resourceT.UpdatedAt,
		resourceT.CreatedAt, resourceT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, r.ID, r.AuthorID, string(r.Type), r.Title, r.Body).Scan(&r.CreatedAt, &r.UpdatedAt)
	return dberr.Wrap(err, "create_resource")
}

func (repository *PostgresRepository) UpdateResource(context context.Context, r *Resource) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		resourceT.Table, resourceT.Title, resourceT.Body, resourceT.IsPublished, resourceT.UpdatedAt,
		resourceT.ID, resourceT.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, r.ID, r.Title, r.Body, r.Published).Scan(&r.UpdatedAt)
	return dberr.WrapAs(err, "update_resource", ErrNotFound)
}

func (repository *PostgresRepository) DeleteResource(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, resourceT.Table, resourceT.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_resource")
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) GetVote(context context.Context, resourceID, userID string) (Reaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		voteT.Reaction, voteT.Table, voteT.ResourceID, voteT.UserID,
	)

	var reaction string
	err := repository.db.QueryRow(context, query, resourceID, userID).Scan(&reaction)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", dberr.Wrap(err, "get_vote")
	}
	return Reaction(reaction), nil
}

func (repository *PostgresRepository) SetVote(context context.Context, resourceID, userID string, reaction Reaction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
	`,
		voteT.Table, voteT.ResourceID, voteT.UserID, voteT.Reaction, voteT.CreatedAt,
		voteT.ResourceID, voteT.UserID, voteT.Reaction, voteT.Reaction, voteT.CreatedAt,
	)

	_, err := repository.db.Exec(context, query, resourceID, userID, string(reaction))
	return dberr.Wrap(err, "set_vote")
}

func (repository *PostgresRepository) DeleteVote(context context.Context, resourceID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, voteT.Table, voteT.ResourceID, voteT.UserID)

	_, err := repository.db.Exec(context, query, resourceID, userID)
	return dberr.Wrap(err, "delete_vote")
}
