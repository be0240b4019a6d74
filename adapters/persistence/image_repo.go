package persistence

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/pictag/internal/domain/image"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type postgresImageRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresImageRepo(db *pgxpool.Pool, log logger.Logger) image.Repository {
	return &postgresImageRepo{db: db, logger: log}
}

func scanImages(rows pgx.Rows) ([]image.Image, error) {
	defer rows.Close()
	images := make([]image.Image, 0)
	for rows.Next() {
		var img image.Image
		if err := rows.Scan(&img.ID, &img.Src, &img.Width, &img.Height); err != nil {
			return nil, apperror.NewUnavailable("failed to scan image row", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewUnavailable("error iterating image rows", err)
	}
	return images, nil
}

func (r *postgresImageRepo) Save(ctx context.Context, img *image.Image) error {
	query := `INSERT INTO images (src, width, height) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, img.Src, img.Width, img.Height).Scan(&img.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("image", "src", img.Src)
		}
		return apperror.NewUnavailable("failed to save image", err)
	}
	return nil
}

func (r *postgresImageRepo) Delete(ctx context.Context, id int64) error {
	// Associations go with it via ON DELETE CASCADE on image_tags.
	query := `DELETE FROM images WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperror.NewUnavailable("failed to delete image", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("image", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *postgresImageRepo) FindByID(ctx context.Context, id int64) (*image.Image, error) {
	query := `SELECT id, src, width, height FROM images WHERE id = $1`
	var img image.Image
	err := r.db.QueryRow(ctx, query, id).Scan(&img.ID, &img.Src, &img.Width, &img.Height)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("image", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewUnavailable("failed to fetch image", err)
	}
	return &img, nil
}
