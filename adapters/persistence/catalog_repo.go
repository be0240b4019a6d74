package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/pictag/internal/domain/catalog"
	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type postgresCatalogStore struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresCatalogStore(db *pgxpool.Pool, log logger.Logger) catalog.Store {
	return &postgresCatalogStore{db: db, logger: log}
}

var psqlCatalog = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// FindImageIDsWithAllTags implements the intersection as grouped counting:
// restrict association rows to the wanted tags, group per image, and keep
// groups that matched every wanted tag. The pair uniqueness constraint on
// image_tags makes COUNT(*) equal COUNT(DISTINCT tag_id) here. Id lists are
// bound as parameters, never spliced into the SQL text.
func (s *postgresCatalogStore) FindImageIDsWithAllTags(ctx context.Context, tagIDs []int64) ([]int64, error) {
	builder := psqlCatalog.Select("image_id").
		From("image_tags").
		Where(sq.Eq{"tag_id": tagIDs}).
		GroupBy("image_id").
		Having("COUNT(*) = ?", len(tagIDs)).
		OrderBy("image_id ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build tag intersection query", err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewUnavailable("tag intersection query failed", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewUnavailable("failed to scan image id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewUnavailable("error iterating image ids", err)
	}
	return ids, nil
}

// FindUntaggedImages anti-joins against the association table: images with no
// link row at all, which is not the same set as "no link row survived some
// tag filter".
func (s *postgresCatalogStore) FindUntaggedImages(ctx context.Context) ([]image.Image, error) {
	builder := psqlCatalog.Select("i.id", "i.src", "i.width", "i.height").
		From("images i").
		LeftJoin("image_tags it ON it.image_id = i.id").
		Where("it.image_id IS NULL").
		OrderBy("i.id ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build untagged images query", err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewUnavailable("untagged images query failed", err)
	}
	return scanImages(rows)
}

func (s *postgresCatalogStore) FindImagesByIDs(ctx context.Context, ids []int64) ([]image.Image, error) {
	if len(ids) == 0 {
		return []image.Image{}, nil
	}

	builder := psqlCatalog.Select("id", "src", "width", "height").
		From("images").
		Where(sq.Eq{"id": ids})

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build bulk image fetch query", err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewUnavailable("bulk image fetch failed", err)
	}
	return scanImages(rows)
}

// FindTagsForImages is the enrichment join: one query covering the whole id
// list, so the call count stays flat no matter how many images are on the
// page. Ordering by image id then tag name means each per-image list arrives
// already name-sorted.
func (s *postgresCatalogStore) FindTagsForImages(ctx context.Context, ids []int64) (map[int64][]tag.Tag, error) {
	if len(ids) == 0 {
		return map[int64][]tag.Tag{}, nil
	}

	builder := psqlCatalog.Select("it.image_id", "t.id", "t.name").
		From("image_tags it").
		Join("tags t ON t.id = it.tag_id").
		Where(sq.Eq{"it.image_id": ids}).
		OrderBy("it.image_id ASC", "t.name ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build tag enrichment query", err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewUnavailable("tag enrichment query failed", err)
	}
	defer rows.Close()

	tagsByImage := make(map[int64][]tag.Tag)
	for rows.Next() {
		var imageID int64
		var t tag.Tag
		if err := rows.Scan(&imageID, &t.ID, &t.Name); err != nil {
			return nil, apperror.NewUnavailable("failed to scan enrichment row", err)
		}
		tagsByImage[imageID] = append(tagsByImage[imageID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewUnavailable("error iterating enrichment rows", err)
	}
	return tagsByImage, nil
}
