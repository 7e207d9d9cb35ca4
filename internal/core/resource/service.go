// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/validate"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

// Notifier is the side channel resource changes report to.
type Notifier interface {
	Notify(ctx context.Context, content string, tag notification.Tag, userID *string)
}

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// ListResources returns the resources the actor may see. Unknown types are
// rejected; an empty type lists all of them.
func (service *Service) ListResources(context context.Context, actor access.Actor, kind, sort string, limit, offset int) ([]*Resource, int, error) {
	filter := Filter{Sort: sort, Viewer: actor}

	if kind = strings.ToUpper(strings.TrimSpace(kind)); kind != "" {
		validator := &validate.Validator{}
		if err := validator.OneOf(FieldType, kind, Types...).Err(); err != nil {
			return nil, 0, err
		}
		filter.Type = Type(kind)
	}

	return service.repo.ListResources(context, filter, limit, offset)
}

// GetResource returns a resource if the actor may see it. Hidden resources
// are reported as missing.
func (service *Service) GetResource(context context.Context, actor access.Actor, id string) (*Resource, error) {
	if !uuid.IsValid(id) {
		return nil, ErrNotFound
	}

	r, err := service.repo.GetResource(context, id, actor.UserID)
	if err != nil {
		return nil, err
	}

	if !access.CanViewResource(r.Subject(), actor) {
		return nil, ErrNotFound
	}
	return r, nil
}

func (service *Service) managedResource(context context.Context, actor access.Actor, id string) (*Resource, error) {
	if !actor.IsPoet() {
		return nil, ErrNotPoet
	}

	r, err := service.GetResource(context, actor, id)
	if err != nil {
		return nil, err
	}

	if !access.CanManageResource(r.Subject(), actor) {
		return nil, ErrNotOwner
	}
	return r, nil
}

func validateResource(r *Resource) error {
	validator := &validate.Validator{}
	validator.OneOf(FieldType, string(r.Type), Types...)
	validator.Required(FieldTitle, r.Title).MaxLen(FieldTitle, r.Title, MaxTitleLength)
	validator.Required(FieldBody, r.Body)

	if r.Body != "" {
		if r.Type.HasURLBody() {
			validator.URL(FieldBody, r.Body)
		} else {
			validator.MaxLen(FieldBody, r.Body, MaxBriefLength)
		}
	}
	return validator.Err()
}

// CreateResource stores a new unpublished resource owned by the actor.
func (service *Service) CreateResource(context context.Context, actor access.Actor, input CreateRequest) (*Resource, error) {
	if !actor.IsPoet() {
		return nil, ErrNotPoet
	}

	r := input.ToResource(actor.PoetID)
	if err := validateResource(r); err != nil {
		return nil, err
	}

	if err := service.repo.CreateResource(context, r); err != nil {
		return nil, err
	}

	r.AuthorUsername = actor.Username
	service.logger.Info("resource_created",
		slog.String("resource_id", r.ID),
		slog.String("type", string(r.Type)),
	)
	return r, nil
}

func (service *Service) UpdateResource(context context.Context, actor access.Actor, id string, input UpdateRequest) (*Resource, error) {
	r, err := service.managedResource(context, actor, id)
	if err != nil {
		return nil, err
	}

	input.ApplyTo(r)
	if err := validateResource(r); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateResource(context, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (service *Service) DeleteResource(context context.Context, actor access.Actor, id string) error {
	r, err := service.managedResource(context, actor, id)
	if err != nil {
		return err
	}

	if err := service.repo.DeleteResource(context, r.ID); err != nil {
		return err
	}

	service.logger.Warn("resource_deleted", slog.String("resource_id", r.ID))
	return nil
}

// SetPublished toggles visibility and announces a newly published resource.
func (service *Service) SetPublished(context context.Context, actor access.Actor, id string, published bool) (*Resource, error) {
	r, err := service.managedResource(context, actor, id)
	if err != nil {
		return nil, err
	}

	if r.Published == published {
		return r, nil
	}

	r.Published = published
	if err := service.repo.UpdateResource(context, r); err != nil {
		return nil, err
	}

	if published {
		service.notifier.Notify(context, fmt.Sprintf("%s shared a new resource '%s'", r.AuthorUsername, r.Title), notification.TagResource, nil)
	}
	return r, nil
}

/*
Vote records the actor's reaction to a resource.

Repeating the current reaction withdraws it; the other reaction replaces
it. The resource is returned with fresh counts.
*/
func (service *Service) Vote(context context.Context, actor access.Actor, id string, input VoteRequest) (*Resource, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthorized("Sign in to vote")
	}

	reaction := Reaction(strings.ToUpper(strings.TrimSpace(input.Reaction)))
	validator := &validate.Validator{}
	if err := validator.OneOf(FieldReaction, string(reaction), string(Upvote), string(Downvote)).Err(); err != nil {
		return nil, err
	}

	r, err := service.GetResource(context, actor, id)
	if err != nil {
		return nil, err
	}

	current, err := service.repo.GetVote(context, r.ID, actor.UserID)
	if err != nil {
		return nil, err
	}

	if current == reaction {
		err = service.repo.DeleteVote(context, r.ID, actor.UserID)
	} else {
		err = service.repo.SetVote(context, r.ID, actor.UserID, reaction)
	}
	if err != nil {
		return nil, err
	}

	return service.repo.GetResource(context, r.ID, actor.UserID)
}
