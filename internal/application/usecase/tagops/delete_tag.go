package tagops

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/pictag/internal/application/service"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type DeleteTagUseCase struct {
	tagRepo tag.Repository
	cache   tag.Cache
	events  service.EventPublisher
	logger  logger.Logger
}

func NewDeleteTagUseCase(r tag.Repository, c tag.Cache, ev service.EventPublisher, log logger.Logger) *DeleteTagUseCase {
	return &DeleteTagUseCase{tagRepo: r, cache: c, events: ev, logger: log}
}

type DeleteTagInput struct {
	TagID int64
}

func (uc *DeleteTagUseCase) Execute(ctx context.Context, in DeleteTagInput) error {
	if in.TagID <= 0 {
		return apperror.NewInvalidInput(fmt.Sprintf("tag id must be positive, got %d", in.TagID), nil)
	}

	if err := uc.tagRepo.Delete(ctx, in.TagID); err != nil {
		return err
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("failed to invalidate tag cache", zap.Error(err))
	}
	if err := uc.events.PublishTagEvent(ctx, "tag.deleted", map[string]int64{"id": in.TagID}); err != nil {
		uc.logger.Warn("failed to publish tag.deleted event", zap.Error(err), zap.Int64("tag_id", in.TagID))
	}
	return nil
}
