package tagops

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/pictag/internal/application/service"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type CreateTagUseCase struct {
	tagRepo tag.Repository
	cache   tag.Cache
	events  service.EventPublisher
	logger  logger.Logger
}

func NewCreateTagUseCase(r tag.Repository, c tag.Cache, ev service.EventPublisher, log logger.Logger) *CreateTagUseCase {
	return &CreateTagUseCase{tagRepo: r, cache: c, events: ev, logger: log}
}

type CreateTagInput struct {
	Name string
}

type CreateTagOutput struct {
	Tag *tag.Tag
}

func (uc *CreateTagUseCase) Execute(ctx context.Context, in CreateTagInput) (*CreateTagOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.NewInvalidInput("tag name must not be empty", nil)
	}

	created, err := uc.tagRepo.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("failed to invalidate tag cache", zap.Error(err))
	}
	if err := uc.events.PublishTagEvent(ctx, "tag.created", created); err != nil {
		uc.logger.Warn("failed to publish tag.created event", zap.Error(err), zap.Int64("tag_id", created.ID))
	}
	return &CreateTagOutput{Tag: created}, nil
}
