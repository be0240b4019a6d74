package catalog

import (
	"context"

	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/internal/domain/tag"
)

// TaggedImage is an image together with its complete current tag list,
// ordered by tag name ascending. It is built per query and never persisted.
type TaggedImage struct {
	image.Image
	Tags []tag.Tag `json:"tags"`
}

// Store is the read side of the catalog. Implementations must keep id
// ordering as documented; the query engine relies on it for pagination.
type Store interface {
	// FindImageIDsWithAllTags returns the ids of every image associated with
	// ALL of tagIDs (set intersection, not union), ordered by image id
	// ascending. tagIDs must be non-empty and duplicate-free.
	FindImageIDsWithAllTags(ctx context.Context, tagIDs []int64) ([]int64, error)

	// FindUntaggedImages returns every image with zero associations, ordered
	// by id ascending. This is an anti-join against the association table,
	// which is not the same thing as "no association matched some filter".
	FindUntaggedImages(ctx context.Context) ([]image.Image, error)

	// FindImagesByIDs bulk-fetches images in no particular order; callers
	// re-order as needed.
	FindImagesByIDs(ctx context.Context, ids []int64) ([]image.Image, error)

	// FindTagsForImages returns, in one bulk join, the tags of every image in
	// ids keyed by image id, each list ordered by tag name ascending. Ids
	// with no associations are absent from the map.
	FindTagsForImages(ctx context.Context, ids []int64) (map[int64][]tag.Tag, error)
}
