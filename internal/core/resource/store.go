// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import "context"

type Repository interface {
	ListResources(context context.Context, filter Filter, limit, offset int) ([]*Resource, int, error)

	// GetResource loads a resource with its vote counts and the vote of
	// viewerUserID, which may be empty.
	GetResource(context context.Context, id, viewerUserID string) (*Resource, error)
	CreateResource(context context.Context, resource *Resource) error
	UpdateResource(context context.Context, resource *Resource) error
	DeleteResource(context context.Context, id string) error

	GetVote(context context.Context, resourceID, userID string) (Reaction, error)
	SetVote(context context.Context, resourceID, userID string, reaction Reaction) error
	DeleteVote(context context.Context, resourceID, userID string) error
}
