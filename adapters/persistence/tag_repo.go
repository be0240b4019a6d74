package persistence

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/pictag/internal/domain/tag"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type postgresTagRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresTagRepo(db *pgxpool.Pool, log logger.Logger) tag.Repository {
	return &postgresTagRepo{db: db, logger: log}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *postgresTagRepo) Create(ctx context.Context, name string) (*tag.Tag, error) {
	query := `INSERT INTO tags (name) VALUES ($1) RETURNING id`
	t := &tag.Tag{Name: name}
	if err := r.db.QueryRow(ctx, query, name).Scan(&t.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.NewConflict("tag", "name", name)
		}
		return nil, apperror.NewUnavailable("failed to create tag", err)
	}
	return t, nil
}

func (r *postgresTagRepo) Rename(ctx context.Context, id int64, name string) (*tag.Tag, error) {
	query := `UPDATE tags SET name = $2 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.NewConflict("tag", "name", name)
		}
		return nil, apperror.NewUnavailable("failed to rename tag", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperror.NewNotFound("tag", strconv.FormatInt(id, 10))
	}
	return &tag.Tag{ID: id, Name: name}, nil
}

func (r *postgresTagRepo) Delete(ctx context.Context, id int64) error {
	// image_tags rows cascade.
	query := `DELETE FROM tags WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperror.NewUnavailable("failed to delete tag", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("tag", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *postgresTagRepo) FindByID(ctx context.Context, id int64) (*tag.Tag, error) {
	query := `SELECT id, name FROM tags WHERE id = $1`
	var t tag.Tag
	if err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("tag", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewUnavailable("failed to fetch tag", err)
	}
	return &t, nil
}

func (r *postgresTagRepo) List(ctx context.Context) ([]tag.Tag, error) {
	query := `SELECT id, name FROM tags ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperror.NewUnavailable("failed to list tags", err)
	}
	defer rows.Close()

	tags := make([]tag.Tag, 0)
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, apperror.NewUnavailable("failed to scan tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewUnavailable("error iterating tags", err)
	}
	return tags, nil
}

// Merge runs in one transaction: re-point the source's associations to the
// target where the target doesn't already have the pair, drop the leftovers,
// then drop the source tag itself.
func (r *postgresTagRepo) Merge(ctx context.Context, sourceID, targetID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewUnavailable("failed to begin merge transaction", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tags WHERE id = $1)`, targetID).Scan(&exists)
	if err != nil {
		return apperror.NewUnavailable("failed to check merge target", err)
	}
	if !exists {
		return apperror.NewNotFound("tag", strconv.FormatInt(targetID, 10))
	}

	_, err = tx.Exec(ctx, `
		UPDATE image_tags SET tag_id = $2
		WHERE tag_id = $1
		  AND image_id NOT IN (SELECT image_id FROM image_tags WHERE tag_id = $2)
	`, sourceID, targetID)
	if err != nil {
		return apperror.NewUnavailable("failed to re-point associations", err)
	}

	// Whatever is left under the source would have duplicated a target pair.
	if _, err := tx.Exec(ctx, `DELETE FROM image_tags WHERE tag_id = $1`, sourceID); err != nil {
		return apperror.NewUnavailable("failed to drop duplicate associations", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM tags WHERE id = $1`, sourceID)
	if err != nil {
		return apperror.NewUnavailable("failed to delete merged tag", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("tag", strconv.FormatInt(sourceID, 10))
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewUnavailable("failed to commit merge", err)
	}
	return nil
}

// SetTagsForImage replaces the image's tag set atomically: delete the old
// rows, bulk-load the new ones with COPY.
func (r *postgresTagRepo) SetTagsForImage(ctx context.Context, imageID int64, tagIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewUnavailable("failed to begin assignment transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM image_tags WHERE image_id = $1`, imageID); err != nil {
		return apperror.NewUnavailable("failed to clear old tags", err)
	}

	if len(tagIDs) > 0 {
		rowsToInsert := make([][]interface{}, len(tagIDs))
		for i, tagID := range tagIDs {
			rowsToInsert[i] = []interface{}{imageID, tagID}
		}
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"image_tags"},
			[]string{"image_id", "tag_id"},
			pgx.CopyFromRows(rowsToInsert),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return apperror.NewNotFound("tag", "one of the assigned tag ids")
			}
			return apperror.NewUnavailable("failed to set new tags", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewUnavailable("failed to commit assignment", err)
	}
	return nil
}

func (r *postgresTagRepo) GetTagsForImage(ctx context.Context, imageID int64) ([]tag.Tag, error) {
	query := `
		SELECT t.id, t.name
		FROM tags t
		JOIN image_tags it ON t.id = it.tag_id
		WHERE it.image_id = $1
		ORDER BY t.name ASC
	`
	rows, err := r.db.Query(ctx, query, imageID)
	if err != nil {
		return nil, apperror.NewUnavailable("failed to fetch image tags", err)
	}
	defer rows.Close()

	tags := make([]tag.Tag, 0)
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, apperror.NewUnavailable("failed to scan tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewUnavailable("error iterating tags", err)
	}
	return tags, nil
}
