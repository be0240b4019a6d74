package tag

import (
	"context"
)

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Repository interface {
	// Create inserts a tag and returns it with the store-assigned id.
	Create(ctx context.Context, name string) (*Tag, error)
	// Rename changes the display name only; the id and all associations stay.
	Rename(ctx context.Context, id int64, name string) (*Tag, error)
	// Delete removes the tag and cascades its associations.
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Tag, error)
	// List returns every tag ordered by name ascending.
	List(ctx context.Context) ([]Tag, error)

	// Merge re-points every association of sourceID onto targetID, skipping
	// pairs targetID already has, then deletes sourceID.
	Merge(ctx context.Context, sourceID, targetID int64) error

	// SetTagsForImage replaces the image's tag set with tagIDs.
	SetTagsForImage(ctx context.Context, imageID int64, tagIDs []int64) error
	// GetTagsForImage returns the image's tags ordered by name ascending.
	GetTagsForImage(ctx context.Context, imageID int64) ([]Tag, error)
}

// Cache holds the full tag listing. A miss is (nil, nil), not an error.
type Cache interface {
	GetList(ctx context.Context) ([]Tag, error)
	SetList(ctx context.Context, tags []Tag) error
	Invalidate(ctx context.Context) error
}
