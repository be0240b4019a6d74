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

type MergeTagsUseCase struct {
	tagRepo tag.Repository
	cache   tag.Cache
	events  service.EventPublisher
	logger  logger.Logger
}

func NewMergeTagsUseCase(r tag.Repository, c tag.Cache, ev service.EventPublisher, log logger.Logger) *MergeTagsUseCase {
	return &MergeTagsUseCase{tagRepo: r, cache: c, events: ev, logger: log}
}

type MergeTagsInput struct {
	SourceID int64
	TargetID int64
}

// Execute folds the source tag into the target: every image tagged with the
// source ends up tagged with the target (once), and the source tag is gone.
// The target keeps its id and name.
func (uc *MergeTagsUseCase) Execute(ctx context.Context, in MergeTagsInput) error {
	if in.SourceID <= 0 {
		return apperror.NewInvalidInput(fmt.Sprintf("source tag id must be positive, got %d", in.SourceID), nil)
	}
	if in.TargetID <= 0 {
		return apperror.NewInvalidInput(fmt.Sprintf("target tag id must be positive, got %d", in.TargetID), nil)
	}
	if in.SourceID == in.TargetID {
		return apperror.NewInvalidInput("cannot merge a tag into itself", nil)
	}

	if err := uc.tagRepo.Merge(ctx, in.SourceID, in.TargetID); err != nil {
		return err
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("failed to invalidate tag cache", zap.Error(err))
	}
	payload := map[string]int64{"source_id": in.SourceID, "target_id": in.TargetID}
	if err := uc.events.PublishTagEvent(ctx, "tag.merged", payload); err != nil {
		uc.logger.Warn("failed to publish tag.merged event", zap.Error(err),
			zap.Int64("source_id", in.SourceID), zap.Int64("target_id", in.TargetID))
	}
	return nil
}
