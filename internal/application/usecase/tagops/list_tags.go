package tagops

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/logger"
)

type ListTagsUseCase struct {
	tagRepo tag.Repository
	cache   tag.Cache
	logger  logger.Logger
}

func NewListTagsUseCase(r tag.Repository, c tag.Cache, log logger.Logger) *ListTagsUseCase {
	return &ListTagsUseCase{tagRepo: r, cache: c, logger: log}
}

type ListTagsOutput struct {
	Tags []tag.Tag
}

// Execute reads through the cache: a hit skips the store entirely, a miss
// fetches from the store and repopulates. Cache errors degrade to a store
// read rather than failing the listing.
func (uc *ListTagsUseCase) Execute(ctx context.Context) (*ListTagsOutput, error) {
	cached, err := uc.cache.GetList(ctx)
	if err != nil {
		uc.logger.Warn("tag cache read failed, falling back to store", zap.Error(err))
	} else if cached != nil {
		return &ListTagsOutput{Tags: cached}, nil
	}

	tags, err := uc.tagRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.SetList(ctx, tags); err != nil {
		uc.logger.Warn("failed to repopulate tag cache", zap.Error(err))
	}
	return &ListTagsOutput{Tags: tags}, nil
}
