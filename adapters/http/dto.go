package http

import (
	"github.com/khoahotran/pictag/internal/domain/catalog"
	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/internal/domain/tag"
)

// Tag DTOs

type TagDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func ToTagDTO(t tag.Tag) TagDTO {
	return TagDTO{ID: t.ID, Name: t.Name}
}

func ToTagDTOs(tags []tag.Tag) []TagDTO {
	dtos := make([]TagDTO, len(tags))
	for i, t := range tags {
		dtos[i] = ToTagDTO(t)
	}
	return dtos
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameTagRequest struct {
	Name string `json:"name" binding:"required"`
}

type MergeTagsRequest struct {
	SourceID int64 `json:"source_id" binding:"required"`
	TargetID int64 `json:"target_id" binding:"required"`
}

// Image DTOs

type ImageDTO struct {
	ID     int64  `json:"id"`
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func ToImageDTO(img image.Image) ImageDTO {
	return ImageDTO{ID: img.ID, Src: img.Src, Width: img.Width, Height: img.Height}
}

type TaggedImageDTO struct {
	ImageDTO
	Tags []TagDTO `json:"tags"`
}

func ToTaggedImageDTO(ti catalog.TaggedImage) TaggedImageDTO {
	return TaggedImageDTO{
		ImageDTO: ToImageDTO(ti.Image),
		Tags:     ToTagDTOs(ti.Tags),
	}
}

type PaginatedTaggedImagesDTO struct {
	Data     []TaggedImageDTO `json:"data"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func ToPaginatedTaggedImagesDTO(p *catalog.Paginated[catalog.TaggedImage]) PaginatedTaggedImagesDTO {
	data := make([]TaggedImageDTO, len(p.Data))
	for i, ti := range p.Data {
		data[i] = ToTaggedImageDTO(ti)
	}
	return PaginatedTaggedImagesDTO{
		Data:     data,
		Total:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

type RegisterImageRequest struct {
	Src    string `json:"src" binding:"required"`
	Width  int    `json:"width" binding:"required"`
	Height int    `json:"height" binding:"required"`
}

type AssignTagsRequest struct {
	TagIDs []int64 `json:"tag_ids"`
}
