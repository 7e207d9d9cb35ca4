// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/validate"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

// PoetDirectory resolves poet usernames for the "poet" search filter.
type PoetDirectory interface {
	PoetIDByUsername(context context.Context, username string) (string, error)
}

// Notifier is the side channel mutations report to.
type Notifier interface {
	Notify(ctx context.Context, content string, tag notification.Tag, userID *string)
}

type Service struct {
	repo     Repository
	poets    PoetDirectory
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo Repository, poets PoetDirectory, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		poets:    poets,
		notifier: notifier,
		logger:   logger,
	}
}

// # Search

/*
FindPoems lists the poems matching criteria that the actor may see.

An unknown poet username is ignored rather than reported. The visibility
clause is applied by the repository from filter.Viewer.
*/
func (service *Service) FindPoems(context context.Context, actor access.Actor, criteria Criteria, limit, offset int) ([]*Poem, int, error) {
	filter := Filter{
		Query:     criteria.Query,
		Completed: criteria.Completed,
		Premium:   criteria.Premium,
		Viewer:    actor,
		Order:     ResolveOrder(criteria.Order),
	}

	if criteria.Rating != nil {
		if bucket, ok := BucketFor(*criteria.Rating); ok {
			filter.Rating = &bucket
		}
	}
	if criteria.AuthorID != "" {
		filter.AuthorID = &criteria.AuthorID
	}
	if criteria.CategoryID != "" {
		filter.CategoryID = &criteria.CategoryID
	}

	// A known poet username replaces author_id.
	if criteria.Poet != "" {
		poetID, err := service.poets.PoetIDByUsername(context, criteria.Poet)
		switch {
		case err == nil:
			filter.AuthorID = &poetID
		case !apperr.IsCode(err, apperr.CodeNotFound):
			return nil, 0, err
		}
	}

	return service.repo.ListPoems(context, filter, limit, offset)
}

// ListByAuthor lists one poet's poems, best rated first.
func (service *Service) ListByAuthor(context context.Context, actor access.Actor, authorID string, limit, offset int) ([]*Poem, int, error) {
	filter := Filter{AuthorID: &authorID, Viewer: actor, Order: byPoet}
	return service.repo.ListPoems(context, filter, limit, offset)
}

// ListMine lists the actor's own poems in every state, newest first.
func (service *Service) ListMine(context context.Context, actor access.Actor, limit, offset int) ([]*Poem, int, error) {
	if !actor.IsPoet() {
		return nil, 0, ErrNotPoet
	}

	filter := Filter{AuthorID: &actor.PoetID, Viewer: actor, Order: ResolveOrder(OrderRecent)}
	return service.repo.ListPoems(context, filter, limit, offset)
}

// # Single Poem

// GetPoem looks a poem up by id or slug. Poems the actor may not see are
// reported as missing.
func (service *Service) GetPoem(context context.Context, actor access.Actor, ref string) (*Poem, error) {
	var (
		p   *Poem
		err error
	)

	if uuid.IsValid(ref) {
		p, err = service.repo.GetPoem(context, ref)
	} else {
		p, err = service.repo.GetPoemBySlug(context, ref)
	}
	if err != nil {
		return nil, err
	}

	if !access.CanViewPoem(p.Subject(), actor) {
		return nil, ErrPoemNotFound
	}
	return p, nil
}

// viewablePoem loads a poem by id and hides it from actors who may not see it.
func (service *Service) viewablePoem(context context.Context, actor access.Actor, id string) (*Poem, error) {
	if !uuid.IsValid(id) {
		return nil, ErrPoemNotFound
	}

	p, err := service.repo.GetPoem(context, id)
	if err != nil {
		return nil, err
	}

	if !access.CanViewPoem(p.Subject(), actor) {
		return nil, ErrPoemNotFound
	}
	return p, nil
}

// managedPoem loads a poem the actor owns.
func (service *Service) managedPoem(context context.Context, actor access.Actor, id string) (*Poem, error) {
	p, err := service.viewablePoem(context, actor, id)
	if err != nil {
		return nil, err
	}

	if !access.CanManagePoem(p.Subject(), actor) {
		return nil, ErrNotOwner
	}
	return p, nil
}

func validatePoem(p *Poem) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, p.Title).MaxLen(FieldTitle, p.Title, MaxTitleLength)
	validator.Required(FieldDescription, p.Description)
	if p.CategoryID != nil {
		validator.UUID(FieldCategoryID, *p.CategoryID)
	}

	return validator.Err()
}

// ensureSlug falls back to the id for titles without any letter or digit.
func ensureSlug(p *Poem) {
	if p.Slug == "" {
		p.Slug = p.ID
	}
}

func (service *Service) CreatePoem(context context.Context, actor access.Actor, input CreatePoemRequest) (*Poem, error) {
	if !actor.IsPoet() {
		return nil, ErrNotPoet
	}

	p := input.ToPoem(actor.PoetID)
	if err := validatePoem(p); err != nil {
		return nil, err
	}
	ensureSlug(p)

	if err := service.repo.CreatePoem(context, p); err != nil {
		return nil, err
	}

	service.logger.Info("poem_created",
		slog.String("poem_id", p.ID),
		slog.String("author_id", actor.PoetID),
	)
	return p, nil
}

func (service *Service) UpdatePoem(context context.Context, actor access.Actor, id string, input UpdatePoemRequest) (*Poem, error) {
	p, err := service.managedPoem(context, actor, id)
	if err != nil {
		return nil, err
	}

	input.ApplyTo(p)
	if err := validatePoem(p); err != nil {
		return nil, err
	}
	ensureSlug(p)

	if err := service.repo.UpdatePoem(context, p); err != nil {
		return nil, err
	}

	service.logger.Info("poem_updated", slog.String("poem_id", p.ID))
	return p, nil
}

// DeletePoem removes a poem with its stanzas, comments and ratings.
func (service *Service) DeletePoem(context context.Context, actor access.Actor, id string) error {
	p, err := service.managedPoem(context, actor, id)
	if err != nil {
		return err
	}

	if err := service.repo.DeletePoem(context, p.ID); err != nil {
		return err
	}

	service.logger.Warn("poem_deleted", slog.String("poem_id", p.ID))
	return nil
}

// SetPublished toggles visibility. The first transition to published
// announces the poem.
func (service *Service) SetPublished(context context.Context, actor access.Actor, id string, published bool) (*Poem, error) {
	p, err := service.managedPoem(context, actor, id)
	if err != nil {
		return nil, err
	}

	if p.Published == published {
		return p, nil
	}

	p.Published = published
	if err := service.repo.UpdatePoem(context, p); err != nil {
		return nil, err
	}

	service.logger.Info("poem_visibility_changed",
		slog.String("poem_id", p.ID),
		slog.Bool("published", published),
	)

	if published {
		service.notifier.Notify(context, fmt.Sprintf("A new poem '%s' was just published", p.Title), notification.TagPoem, nil)
	}
	return p, nil
}

// SetCompleted marks a poem finished or back in progress.
func (service *Service) SetCompleted(context context.Context, actor access.Actor, id string, completed bool) (*Poem, error) {
	p, err := service.managedPoem(context, actor, id)
	if err != nil {
		return nil, err
	}

	if p.Completed == completed {
		return p, nil
	}

	p.Completed = completed
	if err := service.repo.UpdatePoem(context, p); err != nil {
		return nil, err
	}

	service.logger.Info("poem_status_changed",
		slog.String("poem_id", p.ID),
		slog.Bool("completed", completed),
	)
	return p, nil
}

// # Ratings

// RatePoem records the actor's score (0 to 5) and returns the new average.
func (service *Service) RatePoem(context context.Context, actor access.Actor, id string, input RatingRequest) (*Rating, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthorized("Sign in to rate poems")
	}

	validator := &validate.Validator{}
	if err := validator.FloatRange(FieldScore, input.Score, MinScore, MaxScore).Err(); err != nil {
		return nil, err
	}

	p, err := service.viewablePoem(context, actor, id)
	if err != nil {
		return nil, err
	}

	average, err := service.repo.RatePoem(context, p.ID, actor.UserID, input.Score)
	if err != nil {
		return nil, err
	}

	service.logger.Info("poem_rated",
		slog.String("poem_id", p.ID),
		slog.Float64("score", input.Score),
	)
	return &Rating{PoemID: p.ID, Score: input.Score, Average: average}, nil
}
