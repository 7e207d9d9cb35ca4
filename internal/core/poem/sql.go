// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/poetpiece/internal/platform/database/schema"
)

var (
	poemT     = schema.PoetryPoem
	categoryT = schema.PoetryCategory
	poetT     = schema.UserPoet
	accountT  = schema.UserAccount
)

// Table aliases used by every poem read.
const (
	aliasPoem     = "p"
	aliasCategory = "c"
	aliasPoet     = "w"
	aliasAccount  = "a"
)

// likeEscaper makes ILIKE match the search text literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func col(alias, column string) string {
	return alias + "." + column
}

// sortColumns maps [SortKey] fields to SQL expressions.
var sortColumns = map[string]string{
	SortCreatedAt:    col(aliasPoem, poemT.CreatedAt),
	SortUpdatedAt:    col(aliasPoem, poemT.UpdatedAt),
	SortRating:       col(aliasPoem, poemT.Rating),
	SortCategoryName: col(aliasCategory, categoryT.Name),
	SortTitle:        col(aliasPoem, poemT.Title),
	SortAuthorID:     col(aliasPoem, poemT.AuthorID),
	SortPremium:      col(aliasPoem, poemT.IsPremium),
}

// poemSelect lists the columns scanned by scanPoem, in order.
var poemSelect = strings.Join([]string{
	col(aliasPoem, poemT.ID), col(aliasPoem, poemT.Title), col(aliasPoem, poemT.Slug),
	col(aliasPoem, poemT.Description), col(aliasPoem, poemT.CategoryID), col(aliasCategory, categoryT.Name),
	col(aliasPoem, poemT.AuthorID), col(aliasAccount, accountT.Username), col(aliasPoet, poetT.UserID),
	col(aliasPoem, poemT.Rating), col(aliasPoem, poemT.IsPremium), col(aliasPoem, poemT.IsCompleted),
	col(aliasPoem, poemT.IsPublished), col(aliasPoem, poemT.CreatedAt), col(aliasPoem, poemT.UpdatedAt),
}, ", ")

// poemFrom joins the category name and the author's username.
var poemFrom = fmt.Sprintf(`%s %s
		LEFT JOIN %s %s ON %s = %s
		LEFT JOIN %s %s ON %s = %s
		LEFT JOIN %s %s ON %s = %s`,
	poemT.Table, aliasPoem,
	categoryT.Table, aliasCategory, col(aliasCategory, categoryT.ID), col(aliasPoem, poemT.CategoryID),
	poetT.Table, aliasPoet, col(aliasPoet, poetT.ID), col(aliasPoem, poemT.AuthorID),
	accountT.Table, aliasAccount, col(aliasAccount, accountT.ID), col(aliasPoet, poetT.UserID),
)

// ListQuery is a generated list statement with its count companion.
type ListQuery struct {
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
}

type whereBuilder struct {
	clauses []string
	args    []any
}

// arg appends a bind value and returns its placeholder.
func (w *whereBuilder) arg(value any) string {
	w.args = append(w.args, value)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) add(clause string) {
	w.clauses = append(w.clauses, clause)
}

// visibilityClause restricts rows to what the viewer may read.
func visibilityClause(w *whereBuilder, filter Filter) string {
	published := col(aliasPoem, poemT.IsPublished)
	premium := col(aliasPoem, poemT.IsPremium)

	visible := fmt.Sprintf("(%s AND NOT %s)", published, premium)
	if filter.Viewer.Authenticated() {
		visible = published
	}

	if !filter.Viewer.IsPoet() {
		return "(" + visible + ")"
	}
	return fmt.Sprintf("(%s OR %s = %s)", visible, col(aliasPoem, poemT.AuthorID), w.arg(filter.Viewer.PoetID))
}

/*
BuildListQuery composes the paginated search statement for filter.

Every user-supplied value is bound as a parameter. The visibility clause is
always present and ANDed with the other filters. Sorting ends with the poem
id so that pages never overlap.
*/
func BuildListQuery(filter Filter, limit, offset int) ListQuery {
	w := &whereBuilder{}
	w.add(visibilityClause(w, filter))

	if filter.Query != "" {
		pattern := w.arg("%" + likeEscaper.Replace(filter.Query) + "%")
		w.add(fmt.Sprintf(`(%s ILIKE %s ESCAPE '\' OR %s ILIKE %s ESCAPE '\')`,
			col(aliasPoem, poemT.Title), pattern, col(aliasPoem, poemT.Description), pattern))
	}
	if filter.Rating != nil {
		w.add(fmt.Sprintf("%s BETWEEN %s AND %s",
			col(aliasPoem, poemT.Rating), w.arg(filter.Rating.Min), w.arg(filter.Rating.Max)))
	}
	if filter.AuthorID != nil {
		w.add(fmt.Sprintf("%s = %s", col(aliasPoem, poemT.AuthorID), w.arg(*filter.AuthorID)))
	}
	if filter.CategoryID != nil {
		w.add(fmt.Sprintf("%s = %s", col(aliasPoem, poemT.CategoryID), w.arg(*filter.CategoryID)))
	}
	if filter.Completed != nil {
		w.add(fmt.Sprintf("%s = %s", col(aliasPoem, poemT.IsCompleted), w.arg(*filter.Completed)))
	}
	if filter.Premium != nil {
		w.add(fmt.Sprintf("%s = %s", col(aliasPoem, poemT.IsPremium), w.arg(*filter.Premium)))
	}

	where := strings.Join(w.clauses, " AND ")

	countArgs := make([]any, len(w.args))
	copy(countArgs, w.args)

	limitPlaceholder := w.arg(limit)
	offsetPlaceholder := w.arg(offset)

	return ListQuery{
		SQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT %s OFFSET %s",
			poemSelect, poemFrom, where, orderBy(filter.Order), limitPlaceholder, offsetPlaceholder),
		Args:      w.args,
		CountSQL:  fmt.Sprintf("SELECT count(*) FROM %s WHERE %s", poemFrom, where),
		CountArgs: countArgs,
	}
}

func orderBy(keys []SortKey) string {
	terms := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		column, ok := sortColumns[key.Field]
		if !ok {
			continue
		}
		direction := "ASC"
		if key.Desc {
			direction = "DESC"
		}
		terms = append(terms, column+" "+direction)
	}
	terms = append(terms, col(aliasPoem, poemT.ID)+" ASC")
	return strings.Join(terms, ", ")
}
