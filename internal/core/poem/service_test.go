// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/core/poem"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/pkg/pointer"
)

// # Fakes

// memoryRepository applies the same visibility rule as the SQL builder.
type memoryRepository struct {
	mu       sync.Mutex
	clock    time.Time
	poems    map[string]*poem.Poem
	stanzas  map[string]map[int]*poem.Stanza
	comments map[string]*poem.Comment
	ratings  map[string]map[string]float64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		clock:    time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
		poems:    map[string]*poem.Poem{},
		stanzas:  map[string]map[int]*poem.Stanza{},
		comments: map[string]*poem.Comment{},
		ratings:  map[string]map[string]float64{},
	}
}

func (m *memoryRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func matches(p *poem.Poem, f poem.Filter) bool {
	if !access.CanViewPoem(p.Subject(), f.Viewer) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.Rating != nil && !f.Rating.Contains(p.Rating) {
		return false
	}
	if f.AuthorID != nil && !pointer.Equal(p.AuthorID, f.AuthorID) {
		return false
	}
	if f.CategoryID != nil && !pointer.Equal(p.CategoryID, f.CategoryID) {
		return false
	}
	if f.Completed != nil && p.Completed != *f.Completed {
		return false
	}
	if f.Premium != nil && p.Premium != *f.Premium {
		return false
	}
	return true
}

func less(a, b *poem.Poem, keys []poem.SortKey) bool {
	for _, key := range keys {
		var cmp int
		switch key.Field {
		case poem.SortTitle:
			cmp = strings.Compare(a.Title, b.Title)
		case poem.SortUpdatedAt:
			cmp = a.UpdatedAt.Compare(b.UpdatedAt)
		case poem.SortCreatedAt:
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		case poem.SortRating:
			switch {
			case a.Rating < b.Rating:
				cmp = -1
			case a.Rating > b.Rating:
				cmp = 1
			}
		}
		if cmp == 0 {
			continue
		}
		if key.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return a.ID < b.ID
}

func (m *memoryRepository) ListPoems(_ context.Context, f poem.Filter, limit, offset int) ([]*poem.Poem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*poem.Poem
	for _, p := range m.poems {
		if matches(p, f) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j], f.Order) })

	total := len(out)
	if offset >= total {
		return []*poem.Poem{}, total, nil
	}
	return out[offset:min(offset+limit, total)], total, nil
}

func (m *memoryRepository) GetPoem(_ context.Context, id string) (*poem.Poem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.poems[id]
	if !ok {
		return nil, poem.ErrPoemNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memoryRepository) GetPoemBySlug(ctx context.Context, slug string) (*poem.Poem, error) {
	m.mu.Lock()
	var id string
	for _, p := range m.poems {
		if p.Slug == slug {
			id = p.ID
		}
	}
	m.mu.Unlock()
	return m.GetPoem(ctx, id)
}

func (m *memoryRepository) CreatePoem(_ context.Context, p *poem.Poem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.poems {
		if existing.Title == p.Title {
			return apperr.Conflict("A poem titled '" + p.Title + "' already exists")
		}
	}
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	p.AuthorUserID = pointer.To("user-of-" + pointer.Val(p.AuthorID))
	copied := *p
	m.poems[p.ID] = &copied
	return nil
}

func (m *memoryRepository) UpdatePoem(_ context.Context, p *poem.Poem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.poems[p.ID]; !ok {
		return poem.ErrPoemNotFound
	}
	p.UpdatedAt = m.tick()
	copied := *p
	m.poems[p.ID] = &copied
	return nil
}

func (m *memoryRepository) DeletePoem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.poems[id]; !ok {
		return poem.ErrPoemNotFound
	}
	delete(m.poems, id)
	delete(m.stanzas, id)
	return nil
}

func (m *memoryRepository) RatePoem(_ context.Context, poemID, userID string, score float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ratings[poemID] == nil {
		m.ratings[poemID] = map[string]float64{}
	}
	m.ratings[poemID][userID] = score

	sum := 0.0
	for _, s := range m.ratings[poemID] {
		sum += s
	}
	average := sum / float64(len(m.ratings[poemID]))
	m.poems[poemID].Rating = average
	return average, nil
}

func (m *memoryRepository) ListStanzas(_ context.Context, poemID string) ([]*poem.Stanza, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*poem.Stanza{}
	for _, s := range m.stanzas[poemID] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (m *memoryRepository) GetStanza(_ context.Context, poemID string, index int) (*poem.Stanza, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stanzas[poemID][index]
	if !ok {
		return nil, poem.ErrStanzaNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memoryRepository) CreateStanza(_ context.Context, s *poem.Stanza) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stanzas[s.PoemID] == nil {
		m.stanzas[s.PoemID] = map[int]*poem.Stanza{}
	}
	if _, taken := m.stanzas[s.PoemID][s.Index]; taken {
		return poem.DuplicateStanza(s.Index)
	}
	m.stanzas[s.PoemID][s.Index] = s
	return nil
}

func (m *memoryRepository) UpdateStanza(_ context.Context, s *poem.Stanza, oldIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.stanzas[s.PoemID][s.Index]; taken && s.Index != oldIndex {
		return poem.DuplicateStanza(s.Index)
	}
	delete(m.stanzas[s.PoemID], oldIndex)
	m.stanzas[s.PoemID][s.Index] = s
	return nil
}

func (m *memoryRepository) DeleteStanza(_ context.Context, poemID string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stanzas[poemID][index]; !ok {
		return poem.ErrStanzaNotFound
	}
	delete(m.stanzas[poemID], index)
	return nil
}

func (m *memoryRepository) ListComments(_ context.Context, poemID, viewer string, includeAll bool) ([]*poem.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*poem.Comment{}
	for _, c := range m.comments {
		if c.PoemID == poemID && (c.Approved || includeAll || c.UserID == viewer) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepository) GetComment(_ context.Context, id string) (*poem.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, poem.ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memoryRepository) CreateComment(_ context.Context, c *poem.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.comments[c.ID] = c
	return nil
}

func (m *memoryRepository) ApproveComment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.comments[id].Approved = true
	return nil
}

func (m *memoryRepository) DeleteComment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.comments, id)
	return nil
}

type poetDirectory map[string]string

func (d poetDirectory) PoetIDByUsername(_ context.Context, username string) (string, error) {
	id, ok := d[username]
	if !ok {
		return "", apperr.NotFound("Poet")
	}
	return id, nil
}

type sentNotification struct {
	content string
	tag     notification.Tag
	userID  *string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(_ context.Context, content string, tag notification.Tag, userID *string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{content, tag, userID})
}

// # Fixtures

var (
	emily  = access.Actor{UserID: "u-emily", Username: "emily", PoetID: "p-emily"}
	walt   = access.Actor{UserID: "u-walt", Username: "walt", PoetID: "p-walt"}
	reader = access.Actor{UserID: "u-reader", Username: "reader"}
)

type fixture struct {
	service  *poem.Service
	repo     *memoryRepository
	notifier *recordingNotifier
}

func newFixture() *fixture {
	repo := newMemoryRepository()
	notifier := &recordingNotifier{}
	directory := poetDirectory{"emily": emily.PoetID, "walt": walt.PoetID}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:  poem.NewService(repo, directory, notifier, logger),
		repo:     repo,
		notifier: notifier,
	}
}

func (f *fixture) create(t *testing.T, actor access.Actor, title string, published, premium bool) *poem.Poem {
	t.Helper()

	p, err := f.service.CreatePoem(context.Background(), actor, poem.CreatePoemRequest{
		Title:       title,
		Description: "About " + title,
		Premium:     premium,
	})
	require.NoError(t, err)

	if published {
		p, err = f.service.SetPublished(context.Background(), actor, p.ID, true)
		require.NoError(t, err)
	}
	return p
}

func titles(poems []*poem.Poem) []string {
	out := make([]string, 0, len(poems))
	for _, p := range poems {
		out = append(out, p.Title)
	}
	return out
}

// # Tests

/*
TestFindPoems_Visibility verifies drafts never reach non-owners whatever the
filters, and published non-premium poems match whenever the filters do.
*/
func TestFindPoems_Visibility(t *testing.T) {
	f := newFixture()
	f.create(t, emily, "Because I could not stop", true, false)
	f.create(t, emily, "Draft of a Rose", false, false)
	f.create(t, walt, "Song of Myself", true, true)

	tests := []struct {
		name     string
		actor    access.Actor
		criteria poem.Criteria
		want     []string
	}{
		{"anonymous_all", access.Anonymous, poem.Criteria{}, []string{"Because I could not stop"}},
		{"anonymous_draft_text", access.Anonymous, poem.Criteria{Query: "rose"}, []string{}},
		{"anonymous_draft_poet", access.Anonymous, poem.Criteria{Poet: "emily"}, []string{"Because I could not stop"}},
		{"reader_sees_premium", reader, poem.Criteria{}, []string{"Because I could not stop", "Song of Myself"}},
		{"other_poet_no_draft", walt, poem.Criteria{Query: "draft"}, []string{}},
		{"owner_sees_draft", emily, poem.Criteria{Query: "draft"}, []string{"Draft of a Rose"}},
		{"unknown_poet_ignored", reader, poem.Criteria{Poet: "nobody"}, []string{"Because I could not stop", "Song of Myself"}},
		{"poet_replaces_author_id", reader, poem.Criteria{Poet: "walt", AuthorID: emily.PoetID}, []string{"Song of Myself"}},
		{"unknown_poet_keeps_author_id", reader, poem.Criteria{Poet: "nobody", AuthorID: emily.PoetID}, []string{"Because I could not stop"}},
		{"underscore_is_literal", reader, poem.Criteria{Query: "_"}, []string{}},
		{"rating_bucket", reader, poem.Criteria{Rating: pointer.To(1)}, []string{"Because I could not stop", "Song of Myself"}},
		{"rating_above_all_dropped", reader, poem.Criteria{Rating: pointer.To(9)}, []string{"Because I could not stop", "Song of Myself"}},
		{"premium_false", reader, poem.Criteria{Premium: pointer.To(false)}, []string{"Because I could not stop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.criteria.Order = poem.OrderAZ

			poems, total, err := f.service.FindPoems(context.Background(), tt.actor, tt.criteria, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(poems))
			assert.Equal(t, len(tt.want), total)
		})
	}
}

/*
TestFindPoems_AlphabeticalTies verifies A-Z breaks title ties by most recent update.
*/
func TestFindPoems_AlphabeticalTies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := f.create(t, emily, "Hope", true, false)
	second := f.create(t, walt, "Grass", true, false)

	// 1. Force equal titles directly in storage
	f.repo.poems[second.ID].Title = "Hope"
	_, err := f.service.SetCompleted(ctx, walt, second.ID, true)
	require.NoError(t, err)

	poems, _, err := f.service.FindPoems(ctx, access.Anonymous, poem.Criteria{Order: poem.OrderAZ}, 10, 0)
	require.NoError(t, err)

	// 2. The most recently updated comes first
	require.Len(t, poems, 2)
	assert.Equal(t, second.ID, poems[0].ID)
	assert.Equal(t, first.ID, poems[1].ID)
}

/*
TestPoemLifecycle covers the draft, owner listing and publish flow.
*/
func TestPoemLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft := f.create(t, emily, "Ode to Autumn", false, false)
	assert.Equal(t, "ode-to-autumn", draft.Slug)

	// 1. Hidden from anonymous search and direct lookup
	poems, _, err := f.service.FindPoems(ctx, access.Anonymous, poem.Criteria{Query: "autumn"}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, poems)

	_, err = f.service.GetPoem(ctx, access.Anonymous, draft.Slug)
	assert.ErrorIs(t, err, poem.ErrPoemNotFound)

	// 2. Visible in the owner's listing
	mine, total, err := f.service.ListMine(ctx, emily, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, draft.ID, mine[0].ID)

	// 3. Publishing announces and reveals it
	_, err = f.service.SetPublished(ctx, emily, draft.ID, true)
	require.NoError(t, err)

	poems, _, err = f.service.FindPoems(ctx, access.Anonymous, poem.Criteria{Query: "autumn"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ode to Autumn"}, titles(poems))

	got, err := f.service.GetPoem(ctx, access.Anonymous, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "A new poem 'Ode to Autumn' was just published", f.notifier.sent[0].content)
	assert.Equal(t, notification.TagPoem, f.notifier.sent[0].tag)

	// 4. Publishing again is a no-op
	_, err = f.service.SetPublished(ctx, emily, draft.ID, true)
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent, 1)
}

/*
TestPoemOwnership verifies create, update and delete rules.
*/
func TestPoemOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, emily, "Hope", true, false)

	tests := []struct {
		name string
		run  func() error
		code string
	}{
		{"reader_cannot_create", func() error {
			_, err := f.service.CreatePoem(ctx, reader, poem.CreatePoemRequest{Title: "Mine", Description: "x"})
			return err
		}, apperr.CodeForbidden},
		{"title_required", func() error {
			_, err := f.service.CreatePoem(ctx, emily, poem.CreatePoemRequest{Description: "x"})
			return err
		}, apperr.CodeValidation},
		{"duplicate_title", func() error {
			_, err := f.service.CreatePoem(ctx, walt, poem.CreatePoemRequest{Title: "Hope", Description: "x"})
			return err
		}, apperr.CodeConflict},
		{"other_poet_cannot_update", func() error {
			_, err := f.service.UpdatePoem(ctx, walt, p.ID, poem.UpdatePoemRequest{Title: pointer.To("Stolen")})
			return err
		}, apperr.CodeForbidden},
		{"other_poet_cannot_delete", func() error {
			return f.service.DeletePoem(ctx, walt, p.ID)
		}, apperr.CodeForbidden},
		{"unknown_id", func() error {
			return f.service.DeletePoem(ctx, emily, "not-a-uuid")
		}, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.IsCode(tt.run(), tt.code))
		})
	}

	// 1. The owner renames, which moves the slug
	updated, err := f.service.UpdatePoem(ctx, emily, p.ID, poem.UpdatePoemRequest{Title: pointer.To("Hope Is the Thing")})
	require.NoError(t, err)
	assert.Equal(t, "hope-is-the-thing", updated.Slug)

	// 2. The owner deletes
	require.NoError(t, f.service.DeletePoem(ctx, emily, p.ID))
	_, err = f.service.GetPoem(ctx, emily, p.ID)
	assert.ErrorIs(t, err, poem.ErrPoemNotFound)
}

/*
TestStanzas verifies index bounds, duplicate detection and ordering.
*/
func TestStanzas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, emily, "Hope", false, false)

	// 1. Out-of-range index
	_, err := f.service.AddStanza(ctx, emily, p.ID, poem.StanzaRequest{Index: 21, Content: "x"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	// 2. Add out of order, list sorted
	for _, index := range []int{2, 1} {
		_, err := f.service.AddStanza(ctx, emily, p.ID, poem.StanzaRequest{Index: index, Content: "verse"})
		require.NoError(t, err)
	}

	stanzas, err := f.service.ListStanzas(ctx, emily, p.ID)
	require.NoError(t, err)
	require.Len(t, stanzas, 2)
	assert.Equal(t, 1, stanzas[0].Index)

	// 3. Duplicate index is a conflict with a readable message
	_, err = f.service.AddStanza(ctx, emily, p.ID, poem.StanzaRequest{Index: 2, Content: "again"})
	require.True(t, apperr.IsCode(err, apperr.CodeConflict))
	assert.Equal(t, "Stanza 2 already exists in poem", err.Error())

	// 4. Readers cannot list stanzas of a draft
	_, err = f.service.ListStanzas(ctx, reader, p.ID)
	assert.ErrorIs(t, err, poem.ErrPoemNotFound)

	// 5. Renumber and delete
	moved, err := f.service.UpdateStanza(ctx, emily, p.ID, 2, poem.UpdateStanzaRequest{Index: pointer.To(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, moved.Index)
	require.NoError(t, f.service.DeleteStanza(ctx, emily, p.ID, 3))
	assert.ErrorIs(t, f.service.DeleteStanza(ctx, emily, p.ID, 3), poem.ErrStanzaNotFound)
}

/*
TestComments verifies moderation visibility and notifications.
*/
func TestComments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, emily, "Hope", true, false)
	f.notifier.sent = nil

	// 1. Too long and anonymous comments are rejected
	_, err := f.service.AddComment(ctx, reader, p.ID, poem.CommentRequest{Body: strings.Repeat("a", 1001)})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	_, err = f.service.AddComment(ctx, access.Anonymous, p.ID, poem.CommentRequest{Body: "hi"})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	// 2. A pending comment is visible to its author and the owner only
	comment, err := f.service.AddComment(ctx, reader, p.ID, poem.CommentRequest{Body: "Lovely"})
	require.NoError(t, err)

	visible := func(actor access.Actor) int {
		comments, err := f.service.ListComments(ctx, actor, p.ID)
		require.NoError(t, err)
		return len(comments)
	}
	assert.Equal(t, 1, visible(reader))
	assert.Equal(t, 1, visible(emily))
	assert.Equal(t, 0, visible(walt))

	// 3. The poem's author is notified
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.TagComment, f.notifier.sent[0].tag)
	assert.Equal(t, "user-of-p-emily", pointer.Val(f.notifier.sent[0].userID))

	// 4. Only the owner approves
	assert.True(t, apperr.IsCode(f.service.ApproveComment(ctx, walt, comment.ID), apperr.CodeForbidden))
	require.NoError(t, f.service.ApproveComment(ctx, emily, comment.ID))
	assert.Equal(t, 1, visible(walt))

	// 5. Strangers cannot delete, the author can
	assert.True(t, apperr.IsCode(f.service.DeleteComment(ctx, walt, comment.ID), apperr.CodeForbidden))
	require.NoError(t, f.service.DeleteComment(ctx, reader, comment.ID))
	assert.Equal(t, 0, visible(emily))
}

/*
TestRatePoem verifies bounds, the upsert and the recomputed average.
*/
func TestRatePoem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, emily, "Hope", true, false)

	tests := []struct {
		name    string
		actor   access.Actor
		score   float64
		average float64
		code    string
	}{
		{"anonymous", access.Anonymous, 4, 0, apperr.CodeUnauthorized},
		{"too_high", reader, 5.5, 0, apperr.CodeValidation},
		{"first", reader, 4, 4, ""},
		{"second_user", walt, 2, 3, ""},
		{"upsert", reader, 5, 3.5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, err := f.service.RatePoem(ctx, tt.actor, p.ID, poem.RatingRequest{Score: tt.score})
			if tt.code != "" {
				assert.True(t, apperr.IsCode(err, tt.code))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.average, rating.Average, 1e-9)
		})
	}
}
