// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

type Repository interface {
	ListCategories(context context.Context) ([]*Category, error)
	GetCategory(context context.Context, id string) (*Category, error)
	CreateCategory(context context.Context, category *Category) error

	// DeleteCategory removes the category unless a poem still references it.
	// It returns the number of referencing poems; the row is kept when it is
	// not zero.
	DeleteCategory(context context.Context, id string) (int, error)
}
