// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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

// Notifier is the side channel category changes report to.
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

func requireVerified(actor access.Actor) error {
	if !actor.IsPoet() || !actor.Verified {
		return ErrNotVerified
	}
	return nil
}

// ListCategories returns every category by name with its poem count.
func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.ListCategories(context)
}

func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	if !uuid.IsValid(id) {
		return nil, ErrNotFound
	}
	return service.repo.GetCategory(context, id)
}

func (service *Service) CreateCategory(context context.Context, actor access.Actor, input CreateRequest) (*Category, error) {
	if err := requireVerified(actor); err != nil {
		return nil, err
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).MaxLen(FieldName, category.Name, MaxNameLength)
	validator.MaxLen(FieldDescription, category.Description, MaxDescriptionLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.CreateCategory(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
	)
	service.notifier.Notify(context, fmt.Sprintf("A new category '%s' was added", category.Name), notification.TagCategory, nil)

	return category, nil
}

// DeleteCategory removes an unused category. While poems still reference it
// the call fails with a conflict naming the count and nothing changes.
func (service *Service) DeleteCategory(context context.Context, actor access.Actor, id string) error {
	if err := requireVerified(actor); err != nil {
		return err
	}

	category, err := service.GetCategory(context, id)
	if err != nil {
		return err
	}

	references, err := service.repo.DeleteCategory(context, category.ID)
	if err != nil {
		return err
	}
	if references > 0 {
		return apperr.Conflict(fmt.Sprintf("Category '%s' still has %d poem(s)", category.Name, references))
	}

	service.logger.Warn("category_deleted",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
	)
	return nil
}
