package tagops

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/pictag/internal/application/service"
	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type AssignImageTagsUseCase struct {
	tagRepo   tag.Repository
	imageRepo image.Repository
	events    service.EventPublisher
	logger    logger.Logger
}

func NewAssignImageTagsUseCase(tr tag.Repository, ir image.Repository, ev service.EventPublisher, log logger.Logger) *AssignImageTagsUseCase {
	return &AssignImageTagsUseCase{tagRepo: tr, imageRepo: ir, events: ev, logger: log}
}

type AssignImageTagsInput struct {
	ImageID int64
	TagIDs  []int64
}

// Execute replaces the image's tag set. Repeated ids in the request are
// collapsed; an empty list clears every tag off the image.
func (uc *AssignImageTagsUseCase) Execute(ctx context.Context, in AssignImageTagsInput) error {
	if in.ImageID <= 0 {
		return apperror.NewInvalidInput(fmt.Sprintf("image id must be positive, got %d", in.ImageID), nil)
	}
	seen := make(map[int64]struct{}, len(in.TagIDs))
	tagIDs := make([]int64, 0, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if id <= 0 {
			return apperror.NewInvalidInput(fmt.Sprintf("tag id must be positive, got %d", id), nil)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		tagIDs = append(tagIDs, id)
	}

	if _, err := uc.imageRepo.FindByID(ctx, in.ImageID); err != nil {
		return err
	}

	if err := uc.tagRepo.SetTagsForImage(ctx, in.ImageID, tagIDs); err != nil {
		return err
	}

	payload := map[string]any{"image_id": in.ImageID, "tag_ids": tagIDs}
	if err := uc.events.PublishImageEvent(ctx, "image.tags_assigned", payload); err != nil {
		uc.logger.Warn("failed to publish image.tags_assigned event", zap.Error(err), zap.Int64("image_id", in.ImageID))
	}
	return nil
}
