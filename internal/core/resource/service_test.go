// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/core/resource"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
)

type voteKey struct{ resourceID, userID string }

type memoryRepository struct {
	resources map[string]*resource.Resource
	votes     map[voteKey]resource.Reaction
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{resources: map[string]*resource.Resource{}, votes: map[voteKey]resource.Reaction{}}
}

func (m *memoryRepository) ListResources(_ context.Context, filter resource.Filter, limit, offset int) ([]*resource.Resource, int, error) {
	out := []*resource.Resource{}
	for _, r := range m.resources {
		if !access.CanViewResource(r.Subject(), filter.Viewer) {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		out = append(out, m.withVotes(r, filter.Viewer.UserID))
	}
	return out, len(out), nil
}

func (m *memoryRepository) withVotes(r *resource.Resource, viewerUserID string) *resource.Resource {
	copied := *r
	copied.Upvotes, copied.Downvotes, copied.MyVote = 0, 0, nil
	for key, reaction := range m.votes {
		if key.resourceID != r.ID {
			continue
		}
		if reaction == resource.Upvote {
			copied.Upvotes++
		} else {
			copied.Downvotes++
		}
		if key.userID == viewerUserID {
			mine := reaction
			copied.MyVote = &mine
		}
	}
	return &copied
}

func (m *memoryRepository) GetResource(_ context.Context, id, viewerUserID string) (*resource.Resource, error) {
	r, ok := m.resources[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return m.withVotes(r, viewerUserID), nil
}

func (m *memoryRepository) CreateResource(_ context.Context, r *resource.Resource) error {
	copied := *r
	m.resources[r.ID] = &copied
	return nil
}

func (m *memoryRepository) UpdateResource(_ context.Context, r *resource.Resource) error {
	if _, ok := m.resources[r.ID]; !ok {
		return resource.ErrNotFound
	}
	copied := *r
	m.resources[r.ID] = &copied
	return nil
}

func (m *memoryRepository) DeleteResource(_ context.Context, id string) error {
	if _, ok := m.resources[id]; !ok {
		return resource.ErrNotFound
	}
	delete(m.resources, id)
	return nil
}

func (m *memoryRepository) GetVote(_ context.Context, resourceID, userID string) (resource.Reaction, error) {
	return m.votes[voteKey{resourceID, userID}], nil
}

func (m *memoryRepository) SetVote(_ context.Context, resourceID, userID string, reaction resource.Reaction) error {
	m.votes[voteKey{resourceID, userID}] = reaction
	return nil
}

func (m *memoryRepository) DeleteVote(_ context.Context, resourceID, userID string) error {
	delete(m.votes, voteKey{resourceID, userID})
	return nil
}

type recordingNotifier struct {
	contents []string
}

func (n *recordingNotifier) Notify(_ context.Context, content string, tag notification.Tag, _ *string) {
	if tag == notification.TagResource {
		n.contents = append(n.contents, content)
	}
}

var (
	owner    = access.Actor{UserID: "u-1", Username: "basho", PoetID: "p-1"}
	stranger = access.Actor{UserID: "u-2", Username: "issa", PoetID: "p-2"}
	reader   = access.Actor{UserID: "u-3", Username: "reader"}
)

func newService() (*resource.Service, *memoryRepository, *recordingNotifier) {
	repo := newMemoryRepository()
	notifier := &recordingNotifier{}
	return resource.NewService(repo, notifier, slog.New(slog.NewTextHandler(io.Discard, nil))), repo, notifier
}

/*
TestCreateResource verifies the body rules per type and the poet gate.
*/
func TestCreateResource(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	tests := []struct {
		name  string
		actor access.Actor
		input resource.CreateRequest
		code  string
	}{
		{"reader", reader, resource.CreateRequest{Type: "LINK", Title: "Haiku", Body: "https://haiku.example"}, apperr.CodeForbidden},
		{"unknown_type", owner, resource.CreateRequest{Type: "VIDEO", Title: "Haiku", Body: "https://haiku.example"}, apperr.CodeValidation},
		{"link_needs_url", owner, resource.CreateRequest{Type: "LINK", Title: "Haiku", Body: "not a url"}, apperr.CodeValidation},
		{"image_needs_url", owner, resource.CreateRequest{Type: "image", Title: "Pond", Body: "frog.png"}, apperr.CodeValidation},
		{"brief_too_long", owner, resource.CreateRequest{Type: "BRIEF", Title: "Notes", Body: string(make([]rune, resource.MaxBriefLength+1))}, apperr.CodeValidation},
		{"title_required", owner, resource.CreateRequest{Type: "BRIEF", Title: " ", Body: "Short."}, apperr.CodeValidation},
		{"link", owner, resource.CreateRequest{Type: "link", Title: "Haiku", Body: "https://haiku.example"}, ""},
		{"brief", owner, resource.CreateRequest{Type: "BRIEF", Title: "Notes", Body: "Five, seven, five."}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := service.CreateResource(ctx, tt.actor, tt.input)
			if tt.code != "" {
				assert.True(t, apperr.IsCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, owner.PoetID, created.AuthorID)
			assert.False(t, created.Published)
		})
	}
}

/*
TestResourceVisibility verifies drafts stay with their owner until published.
*/
func TestResourceVisibility(t *testing.T) {
	service, _, notifier := newService()
	ctx := context.Background()

	// 1. Draft
	created, err := service.CreateResource(ctx, owner, resource.CreateRequest{Type: "COURSE", Title: "Renga", Body: "https://renga.example/course"})
	require.NoError(t, err)

	_, err = service.GetResource(ctx, stranger, created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	_, total, err := service.ListResources(ctx, access.Anonymous, "", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	// 2. Only the owner may publish
	_, err = service.SetPublished(ctx, stranger, created.ID, true)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	published, err := service.SetPublished(ctx, owner, created.ID, true)
	require.NoError(t, err)
	assert.True(t, published.Published)
	assert.Len(t, notifier.contents, 1)

	// 3. Published again is a no-op
	_, err = service.SetPublished(ctx, owner, created.ID, true)
	require.NoError(t, err)
	assert.Len(t, notifier.contents, 1)

	// 4. Public now, but still owned
	_, total, err = service.ListResources(ctx, access.Anonymous, "course", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = service.UpdateResource(ctx, stranger, created.ID, resource.UpdateRequest{})
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	err = service.DeleteResource(ctx, owner, created.ID)
	require.NoError(t, err)

	// 5. Unknown type filter
	_, _, err = service.ListResources(ctx, access.Anonymous, "video", "", 10, 0)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

/*
TestVote verifies that a repeated reaction withdraws the vote and the other
reaction replaces it.
*/
func TestVote(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	created, err := service.CreateResource(ctx, owner, resource.CreateRequest{Type: "BRIEF", Title: "Kigo", Body: "Season words."})
	require.NoError(t, err)
	_, err = service.SetPublished(ctx, owner, created.ID, true)
	require.NoError(t, err)

	steps := []struct {
		name     string
		actor    access.Actor
		reaction string
		up, down int
		mine     *resource.Reaction
	}{
		{"upvote", reader, "UPVOTE", 1, 0, reactionPtr(resource.Upvote)},
		{"switch_to_downvote", reader, "downvote", 0, 1, reactionPtr(resource.Downvote)},
		{"second_voter", stranger, "UPVOTE", 1, 1, reactionPtr(resource.Upvote)},
		{"withdraw", reader, "DOWNVOTE", 1, 0, nil},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			voted, err := service.Vote(ctx, step.actor, created.ID, resource.VoteRequest{Reaction: step.reaction})
			require.NoError(t, err)
			assert.Equal(t, step.up, voted.Upvotes)
			assert.Equal(t, step.down, voted.Downvotes)
			assert.Equal(t, step.mine, voted.MyVote)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		_, err := service.Vote(ctx, access.Anonymous, created.ID, resource.VoteRequest{Reaction: "UPVOTE"})
		assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
	})

	t.Run("bad_reaction", func(t *testing.T) {
		_, err := service.Vote(ctx, reader, created.ID, resource.VoteRequest{Reaction: "MEH"})
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	})
}

func reactionPtr(r resource.Reaction) *resource.Reaction {
	return &r
}
