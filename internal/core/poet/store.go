// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poet

import "context"

type Repository interface {
	CountPoets(context context.Context) (int, error)
	CreatePoet(context context.Context, poet *Poet) error
	GetPoet(context context.Context, id string) (*Poet, error)
	GetPoetByUserID(context context.Context, userID string) (*Poet, error)
	GetPoetByUsername(context context.Context, username string) (*Poet, error)
	SetVerified(context context.Context, id string, verified bool) error
}
