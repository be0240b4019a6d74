package tagops

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/pictag/internal/application/service"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type RenameTagUseCase struct {
	tagRepo tag.Repository
	cache   tag.Cache
	events  service.EventPublisher
	logger  logger.Logger
}

func NewRenameTagUseCase(r tag.Repository, c tag.Cache, ev service.EventPublisher, log logger.Logger) *RenameTagUseCase {
	return &RenameTagUseCase{tagRepo: r, cache: c, events: ev, logger: log}
}

type RenameTagInput struct {
	TagID int64
	Name  string
}

type RenameTagOutput struct {
	Tag *tag.Tag
}

// Execute changes the tag's display name. Identity and associations are
// untouched: every image tagged before the rename is still tagged after.
func (uc *RenameTagUseCase) Execute(ctx context.Context, in RenameTagInput) (*RenameTagOutput, error) {
	if in.TagID <= 0 {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("tag id must be positive, got %d", in.TagID), nil)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.NewInvalidInput("tag name must not be empty", nil)
	}

	renamed, err := uc.tagRepo.Rename(ctx, in.TagID, name)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("failed to invalidate tag cache", zap.Error(err))
	}
	if err := uc.events.PublishTagEvent(ctx, "tag.renamed", renamed); err != nil {
		uc.logger.Warn("failed to publish tag.renamed event", zap.Error(err), zap.Int64("tag_id", renamed.ID))
	}
	return &RenameTagOutput{Tag: renamed}, nil
}
