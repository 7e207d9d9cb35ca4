// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poet

import "context"

// Directory answers username lookups for poem search. It needs only the
// repository, so the poem service can be built before the poet service.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// PoetIDByUsername resolves a username to a poet id.
func (directory *Directory) PoetIDByUsername(context context.Context, username string) (string, error) {
	poet, err := directory.repo.GetPoetByUsername(context, username)
	if err != nil {
		return "", err
	}
	return poet.ID, nil
}
