// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/core/poem"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
	"github.com/taibuivan/poetpiece/internal/platform/validate"
	"github.com/taibuivan/poetpiece/pkg/pagination"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

// PoemLister lists a poet's poems for their profile.
type PoemLister interface {
	ListByAuthor(context context.Context, actor access.Actor, authorID string, limit, offset int) ([]*poem.Poem, int, error)
}

// Notifier is the side channel poet changes report to.
type Notifier interface {
	Notify(ctx context.Context, content string, tag notification.Tag, userID *string)
}

type Service struct {
	repo     Repository
	poems    PoemLister
	notifier Notifier
	logger   *slog.Logger

	// maxPoets caps the number of poets; zero means no cap.
	maxPoets int
}

func NewService(repo Repository, poems PoemLister, notifier Notifier, logger *slog.Logger, maxPoets int) *Service {
	return &Service{
		repo:     repo,
		poems:    poems,
		notifier: notifier,
		logger:   logger,
		maxPoets: maxPoets,
	}
}

/*
BecomePoet grants the poet capability to the signed-in user.

Errors:
  - Unauthorized when anonymous
  - Conflict when the user already is a poet, the email is taken, or the
    configured number of poets has been reached
*/
func (service *Service) BecomePoet(context context.Context, actor access.Actor, input BecomePoetRequest) (*Poet, error) {
	if !actor.Authenticated() {
		return nil, ErrSignInRequired
	}
	if actor.IsPoet() {
		return nil, ErrAlreadyPoet
	}

	poet := &Poet{
		ID:       uuid.New(),
		UserID:   actor.UserID,
		Username: actor.Username,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Gender:   strings.ToUpper(strings.TrimSpace(input.Gender)),
		Bio:      strings.TrimSpace(input.Bio),
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, poet.Email).Email(FieldEmail, poet.Email)
	validator.Required(FieldGender, poet.Gender).OneOf(FieldGender, poet.Gender, GenderFemale, GenderMale, GenderOther)
	validator.MaxLen(FieldBio, poet.Bio, MaxBioLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if service.maxPoets > 0 {
		count, err := service.repo.CountPoets(context)
		if err != nil {
			return nil, err
		}
		if count >= service.maxPoets {
			return nil, ErrLimitReached
		}
	}

	if err := service.repo.CreatePoet(context, poet); err != nil {
		return nil, err
	}

	service.logger.Info("poet_created",
		slog.String("poet_id", poet.ID),
		slog.String("user_id", poet.UserID),
	)
	service.notifier.Notify(context, fmt.Sprintf("%s just became a poet!", actor.Username), notification.TagPoet, nil)

	return poet, nil
}

// GetProfile returns a poet with one page of their poems, best rated first.
// Drafts appear only when the viewer is that poet.
func (service *Service) GetProfile(context context.Context, actor access.Actor, id string, page pagination.Params) (*Profile, error) {
	if !uuid.IsValid(id) {
		return nil, ErrNotFound
	}

	poet, err := service.repo.GetPoet(context, id)
	if err != nil {
		return nil, err
	}

	poems, total, err := service.poems.ListByAuthor(context, actor, poet.ID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}

	if actor.UserID != poet.UserID {
		poet.Email = ""
	}

	return &Profile{Poet: poet, Poems: poems, Meta: pagination.NewMeta(page.Page, page.Limit, total)}, nil
}

// Verify marks a poet as verified. Admins only.
func (service *Service) Verify(context context.Context, actor access.Actor, id string) (*Poet, error) {
	if !actor.Admin {
		return nil, ErrAdminOnly
	}
	if !uuid.IsValid(id) {
		return nil, ErrNotFound
	}

	poet, err := service.repo.GetPoet(context, id)
	if err != nil {
		return nil, err
	}
	if poet.Verified {
		return poet, nil
	}

	if err := service.repo.SetVerified(context, poet.ID, true); err != nil {
		return nil, err
	}
	poet.Verified = true

	service.logger.Info("poet_verified", slog.String("poet_id", poet.ID))
	service.notifier.Notify(context, "Your poet profile has been verified", notification.TagPoet, &poet.UserID)

	return poet, nil
}

// Resolve builds the actor for verified token claims. Nil claims resolve to
// the anonymous actor.
func (service *Service) Resolve(context context.Context, claims *sec.AuthClaims) (access.Actor, error) {
	if claims == nil {
		return access.Anonymous, nil
	}

	actor := access.Actor{
		UserID:   claims.UserID,
		Username: claims.Username,
		Admin:    sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin),
	}

	poet, err := service.repo.GetPoetByUserID(context, claims.UserID)
	switch {
	case err == nil:
		actor.PoetID = poet.ID
		actor.Verified = poet.Verified
	case !apperr.IsCode(err, apperr.CodeNotFound):
		return access.Anonymous, err
	}

	return actor, nil
}
