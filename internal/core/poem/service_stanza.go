// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import (
	"context"
	"log/slog"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/validate"
)

func validateStanza(s *Stanza) error {
	validator := &validate.Validator{}

	validator.Range(FieldIndex, s.Index, MinStanzaIndex, MaxStanzaIndex)
	validator.Required(FieldContent, s.Content)

	return validator.Err()
}

// ListStanzas returns the stanzas of a viewable poem ordered by index.
func (service *Service) ListStanzas(context context.Context, actor access.Actor, poemID string) ([]*Stanza, error) {
	p, err := service.viewablePoem(context, actor, poemID)
	if err != nil {
		return nil, err
	}
	return service.repo.ListStanzas(context, p.ID)
}

func (service *Service) AddStanza(context context.Context, actor access.Actor, poemID string, input StanzaRequest) (*Stanza, error) {
	p, err := service.managedPoem(context, actor, poemID)
	if err != nil {
		return nil, err
	}

	stanza := input.ToStanza(p.ID)
	if err := validateStanza(stanza); err != nil {
		return nil, err
	}

	if err := service.repo.CreateStanza(context, stanza); err != nil {
		return nil, err
	}

	service.logger.Info("stanza_created",
		slog.String("poem_id", p.ID),
		slog.Int("index", stanza.Index),
	)
	return stanza, nil
}

func (service *Service) UpdateStanza(context context.Context, actor access.Actor, poemID string, index int, input UpdateStanzaRequest) (*Stanza, error) {
	p, err := service.managedPoem(context, actor, poemID)
	if err != nil {
		return nil, err
	}

	stanza, err := service.repo.GetStanza(context, p.ID, index)
	if err != nil {
		return nil, err
	}

	input.ApplyTo(stanza)
	if err := validateStanza(stanza); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateStanza(context, stanza, index); err != nil {
		return nil, err
	}

	service.logger.Info("stanza_updated",
		slog.String("poem_id", p.ID),
		slog.Int("index", stanza.Index),
	)
	return stanza, nil
}

func (service *Service) DeleteStanza(context context.Context, actor access.Actor, poemID string, index int) error {
	p, err := service.managedPoem(context, actor, poemID)
	if err != nil {
		return err
	}

	if err := service.repo.DeleteStanza(context, p.ID, index); err != nil {
		return err
	}

	service.logger.Info("stanza_deleted",
		slog.String("poem_id", p.ID),
		slog.Int("index", index),
	)
	return nil
}
