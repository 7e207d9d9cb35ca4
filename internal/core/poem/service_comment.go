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

/*
ListComments returns the comments of a viewable poem.

Readers see approved comments and their own pending ones. The poem's owner
sees everything, which is how pending comments get approved.
*/
func (service *Service) ListComments(context context.Context, actor access.Actor, poemID string) ([]*Comment, error) {
	p, err := service.viewablePoem(context, actor, poemID)
	if err != nil {
		return nil, err
	}

	return service.repo.ListComments(context, p.ID, actor.UserID, access.CanManagePoem(p.Subject(), actor))
}

func (service *Service) AddComment(context context.Context, actor access.Actor, poemID string, input CommentRequest) (*Comment, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthorized("Sign in to comment")
	}

	p, err := service.viewablePoem(context, actor, poemID)
	if err != nil {
		return nil, err
	}

	comment := input.ToComment(p.ID, actor.UserID)
	comment.Username = actor.Username

	validator := &validate.Validator{}
	validator.Required(FieldBody, comment.Body).MaxLen(FieldBody, comment.Body, MaxCommentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.CreateComment(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("poem_id", p.ID),
	)

	if p.AuthorUserID != nil && *p.AuthorUserID != actor.UserID {
		service.notifier.Notify(context,
			fmt.Sprintf("%s commented on your poem '%s'", actor.Username, p.Title),
			notification.TagComment, p.AuthorUserID,
		)
	}
	return comment, nil
}

// commentWithPoem loads a comment and its parent poem.
func (service *Service) commentWithPoem(context context.Context, commentID string) (*Comment, *Poem, error) {
	if !uuid.IsValid(commentID) {
		return nil, nil, ErrCommentNotFound
	}

	comment, err := service.repo.GetComment(context, commentID)
	if err != nil {
		return nil, nil, err
	}

	p, err := service.repo.GetPoem(context, comment.PoemID)
	if err != nil {
		return nil, nil, err
	}
	return comment, p, nil
}

// ApproveComment publishes a pending comment. Only the poem's owner may.
func (service *Service) ApproveComment(context context.Context, actor access.Actor, commentID string) error {
	comment, p, err := service.commentWithPoem(context, commentID)
	if err != nil {
		return err
	}

	if !access.CanManagePoem(p.Subject(), actor) {
		return ErrNotOwner
	}

	if comment.Approved {
		return nil
	}

	if err := service.repo.ApproveComment(context, comment.ID); err != nil {
		return err
	}

	service.logger.Info("comment_approved", slog.String("comment_id", comment.ID))
	return nil
}

// DeleteComment removes a comment. Its author and the poem's owner may.
func (service *Service) DeleteComment(context context.Context, actor access.Actor, commentID string) error {
	comment, p, err := service.commentWithPoem(context, commentID)
	if err != nil {
		return err
	}

	isAuthor := actor.Authenticated() && comment.UserID == actor.UserID
	if !isAuthor && !access.CanManagePoem(p.Subject(), actor) {
		return apperr.Forbidden("You cannot delete this comment")
	}

	if err := service.repo.DeleteComment(context, comment.ID); err != nil {
		return err
	}

	service.logger.Warn("comment_deleted", slog.String("comment_id", comment.ID))
	return nil
}
