package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	catalogUC "github.com/khoahotran/pictag/internal/application/usecase/catalog"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type CatalogHandler struct {
	queryUC         *catalogUC.QueryTaggedImagesUseCase
	defaultPageSize int
	maxPageSize     int
	logger          logger.Logger
}

func NewCatalogHandler(queryUC *catalogUC.QueryTaggedImagesUseCase, defaultPageSize, maxPageSize int, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		queryUC:         queryUC,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          log,
	}
}

// ListTaggedImages serves GET /api/images?tags=1,2&page=1&page_size=25.
// No tags filter means "images with no tags at all", not "all images".
func (h *CatalogHandler) ListTaggedImages(c *gin.Context) {
	tagIDs, err := parseTagIDs(c.Query("tags"))
	if err != nil {
		c.Error(err)
		return
	}

	page, err := parsePositiveIntQuery(c, "page", 1)
	if err != nil {
		c.Error(err)
		return
	}
	pageSize, err := parsePositiveIntQuery(c, "page_size", h.defaultPageSize)
	if err != nil {
		c.Error(err)
		return
	}
	if pageSize > h.maxPageSize {
		c.Error(apperror.NewInvalidInput(fmt.Sprintf("page_size must not exceed %d", h.maxPageSize), nil))
		return
	}

	out, err := h.queryUC.Execute(c.Request.Context(), catalogUC.QueryTaggedImagesInput{
		TagIDs:   tagIDs,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPaginatedTaggedImagesDTO(out))
}

func parseTagIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("'%s' is not a valid tag id", part), err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parsePositiveIntQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewInvalidInput(fmt.Sprintf("'%s' is not a valid %s", raw, name), err)
	}
	return value, nil
}
