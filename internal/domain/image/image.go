package image

import (
	"context"
)

// Image is a catalog entry for an asset hosted elsewhere. The id is assigned
// by the store on insert and never changes afterwards.
type Image struct {
	ID     int64  `json:"id"`
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Repository interface {
	// Save inserts the image and fills in the store-assigned id.
	Save(ctx context.Context, img *Image) error
	// Delete removes the image; its tag associations go with it.
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Image, error)
}
