package imageops

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/pictag/internal/application/service"
	"github.com/khoahotran/pictag/internal/domain/catalog"
	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

// Register

type RegisterImageUseCase struct {
	imageRepo image.Repository
	events    service.EventPublisher
	logger    logger.Logger
}

func NewRegisterImageUseCase(r image.Repository, ev service.EventPublisher, log logger.Logger) *RegisterImageUseCase {
	return &RegisterImageUseCase{imageRepo: r, events: ev, logger: log}
}

type RegisterImageInput struct {
	Src    string
	Width  int
	Height int
}

type RegisterImageOutput struct {
	Image *image.Image
}

func (uc *RegisterImageUseCase) Execute(ctx context.Context, in RegisterImageInput) (*RegisterImageOutput, error) {
	src := strings.TrimSpace(in.Src)
	if src == "" {
		return nil, apperror.NewInvalidInput("image src must not be empty", nil)
	}
	if in.Width <= 0 || in.Height <= 0 {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("image dimensions must be positive, got %dx%d", in.Width, in.Height), nil)
	}

	img := &image.Image{Src: src, Width: in.Width, Height: in.Height}
	if err := uc.imageRepo.Save(ctx, img); err != nil {
		return nil, err
	}

	if err := uc.events.PublishImageEvent(ctx, "image.registered", img); err != nil {
		uc.logger.Warn("failed to publish image.registered event", zap.Error(err), zap.Int64("image_id", img.ID))
	}
	return &RegisterImageOutput{Image: img}, nil
}

// Get (with tags)

type GetImageUseCase struct {
	imageRepo image.Repository
	tagRepo   tag.Repository
}

func NewGetImageUseCase(ir image.Repository, tr tag.Repository) *GetImageUseCase {
	return &GetImageUseCase{imageRepo: ir, tagRepo: tr}
}

type GetImageInput struct {
	ImageID int64
}

type GetImageOutput struct {
	Image *catalog.TaggedImage
}

func (uc *GetImageUseCase) Execute(ctx context.Context, in GetImageInput) (*GetImageOutput, error) {
	if in.ImageID <= 0 {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("image id must be positive, got %d", in.ImageID), nil)
	}

	img, err := uc.imageRepo.FindByID(ctx, in.ImageID)
	if err != nil {
		return nil, err
	}
	tags, err := uc.tagRepo.GetTagsForImage(ctx, in.ImageID)
	if err != nil {
		return nil, err
	}
	return &GetImageOutput{Image: &catalog.TaggedImage{Image: *img, Tags: tags}}, nil
}

// Delete

type DeleteImageUseCase struct {
	imageRepo image.Repository
	events    service.EventPublisher
	logger    logger.Logger
}

func NewDeleteImageUseCase(r image.Repository, ev service.EventPublisher, log logger.Logger) *DeleteImageUseCase {
	return &DeleteImageUseCase{imageRepo: r, events: ev, logger: log}
}

type DeleteImageInput struct {
	ImageID int64
}

// Execute removes the image; the store cascades its associations so no link
// row can outlive the image.
func (uc *DeleteImageUseCase) Execute(ctx context.Context, in DeleteImageInput) error {
	if in.ImageID <= 0 {
		return apperror.NewInvalidInput(fmt.Sprintf("image id must be positive, got %d", in.ImageID), nil)
	}

	if err := uc.imageRepo.Delete(ctx, in.ImageID); err != nil {
		return err
	}

	if err := uc.events.PublishImageEvent(ctx, "image.deleted", map[string]int64{"id": in.ImageID}); err != nil {
		uc.logger.Warn("failed to publish image.deleted event", zap.Error(err), zap.Int64("image_id", in.ImageID))
	}
	return nil
}
