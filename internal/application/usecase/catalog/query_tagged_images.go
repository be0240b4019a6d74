package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/pictag/internal/domain/catalog"
	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

// QueryTaggedImagesUseCase answers "one page of images carrying all of these
// tags, each with its full tag list". The read is deliberately two-phase:
// first the full ordered candidate id set, then image records and the tag
// enrichment join for the windowed page only, so enrichment cost is bounded
// by page size no matter how many images match.
type QueryTaggedImagesUseCase struct {
	store  catalog.Store
	logger logger.Logger
}

func NewQueryTaggedImagesUseCase(store catalog.Store, log logger.Logger) *QueryTaggedImagesUseCase {
	return &QueryTaggedImagesUseCase{store: store, logger: log}
}

type QueryTaggedImagesInput struct {
	TagIDs   []int64
	Page     int
	PageSize int
}

func (uc *QueryTaggedImagesUseCase) Execute(ctx context.Context, in QueryTaggedImagesInput) (*catalog.Paginated[catalog.TaggedImage], error) {
	if in.Page <= 0 {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("page must be positive, got %d", in.Page), nil)
	}
	if in.PageSize <= 0 {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("page_size must be positive, got %d", in.PageSize), nil)
	}
	seen := make(map[int64]struct{}, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if id <= 0 {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("tag id must be positive, got %d", id), nil)
		}
		if _, dup := seen[id]; dup {
			// The intersection counts matched rows per image, which is only
			// correct over a duplicate-free tag set.
			return nil, apperror.NewInvalidInput(fmt.Sprintf("duplicate tag id %d", id), nil)
		}
		seen[id] = struct{}{}
	}

	if len(in.TagIDs) == 0 {
		return uc.queryUntagged(ctx, in)
	}
	return uc.queryTagged(ctx, in)
}

func (uc *QueryTaggedImagesUseCase) queryTagged(ctx context.Context, in QueryTaggedImagesInput) (*catalog.Paginated[catalog.TaggedImage], error) {
	candidateIDs, err := uc.store.FindImageIDsWithAllTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	total := len(candidateIDs)

	pageIDs := catalog.SlicePage(candidateIDs, in.Page, in.PageSize)
	if len(pageIDs) == 0 {
		return &catalog.Paginated[catalog.TaggedImage]{
			Data:     []catalog.TaggedImage{},
			Total:    total,
			Page:     in.Page,
			PageSize: in.PageSize,
		}, nil
	}

	images, err := uc.store.FindImagesByIDs(ctx, pageIDs)
	if err != nil {
		return nil, err
	}
	tagsByImage, err := uc.store.FindTagsForImages(ctx, pageIDs)
	if err != nil {
		return nil, err
	}

	data, err := uc.assemblePage(pageIDs, images, tagsByImage)
	if err != nil {
		return nil, err
	}
	return &catalog.Paginated[catalog.TaggedImage]{
		Data:     data,
		Total:    total,
		Page:     in.Page,
		PageSize: in.PageSize,
	}, nil
}

func (uc *QueryTaggedImagesUseCase) queryUntagged(ctx context.Context, in QueryTaggedImagesInput) (*catalog.Paginated[catalog.TaggedImage], error) {
	candidates, err := uc.store.FindUntaggedImages(ctx)
	if err != nil {
		return nil, err
	}
	total := len(candidates)

	pageImages := catalog.SlicePage(candidates, in.Page, in.PageSize)
	data := make([]catalog.TaggedImage, 0, len(pageImages))
	for _, img := range pageImages {
		data = append(data, catalog.TaggedImage{Image: img, Tags: []tag.Tag{}})
	}
	return &catalog.Paginated[catalog.TaggedImage]{
		Data:     data,
		Total:    total,
		Page:     in.Page,
		PageSize: in.PageSize,
	}, nil
}

// assemblePage stitches the page's image records and the enrichment map back
// together in page-id order, and cross-checks the two store results against
// the page. A mismatch means the store lied somewhere between the two calls
// in a way snapshot reads should prevent, so the whole query fails.
func (uc *QueryTaggedImagesUseCase) assemblePage(pageIDs []int64, images []image.Image, tagsByImage map[int64][]tag.Tag) ([]catalog.TaggedImage, error) {
	inPage := make(map[int64]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		inPage[id] = struct{}{}
	}
	for id := range tagsByImage {
		if _, ok := inPage[id]; !ok {
			uc.logger.Error("enrichment returned an image outside the page", nil, zap.Int64("image_id", id))
			return nil, apperror.NewInconsistent(fmt.Sprintf("enrichment join returned tags for image %d, which is not in the page", id))
		}
	}

	byID := make(map[int64]image.Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}

	data := make([]catalog.TaggedImage, 0, len(pageIDs))
	for _, id := range pageIDs {
		img, ok := byID[id]
		if !ok {
			return nil, apperror.NewInconsistent(fmt.Sprintf("image %d matched the filter but was missing from the page fetch", id))
		}
		tags, ok := tagsByImage[id]
		if !ok {
			// Every image on this path matched at least one required tag one
			// query earlier, so an empty enrichment is a join bug, not a
			// legitimately untagged image.
			return nil, apperror.NewInconsistent(fmt.Sprintf("enrichment join omitted image %d from the page", id))
		}
		data = append(data, catalog.TaggedImage{Image: img, Tags: tags})
	}
	return data, nil
}
