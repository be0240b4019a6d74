package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	tagopsUC "github.com/khoahotran/pictag/internal/application/usecase/tagops"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type TagHandler struct {
	createTagUC *tagopsUC.CreateTagUseCase
	renameTagUC *tagopsUC.RenameTagUseCase
	deleteTagUC *tagopsUC.DeleteTagUseCase
	mergeTagsUC *tagopsUC.MergeTagsUseCase
	listTagsUC  *tagopsUC.ListTagsUseCase
	logger      logger.Logger
}

func NewTagHandler(
	createUC *tagopsUC.CreateTagUseCase,
	renameUC *tagopsUC.RenameTagUseCase,
	deleteUC *tagopsUC.DeleteTagUseCase,
	mergeUC *tagopsUC.MergeTagsUseCase,
	listUC *tagopsUC.ListTagsUseCase,
	log logger.Logger,
) *TagHandler {
	return &TagHandler{
		createTagUC: createUC,
		renameTagUC: renameUC,
		deleteTagUC: deleteUC,
		mergeTagsUC: mergeUC,
		listTagsUC:  listUC,
		logger:      log,
	}
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.createTagUC.Execute(c.Request.Context(), tagopsUC.CreateTagInput{Name: req.Name})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToTagDTO(*out.Tag))
}

func (h *TagHandler) ListTags(c *gin.Context) {
	out, err := h.listTagsUC.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ToTagDTOs(out.Tags)})
}

func (h *TagHandler) RenameTag(c *gin.Context) {
	tagID, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req RenameTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.renameTagUC.Execute(c.Request.Context(), tagopsUC.RenameTagInput{TagID: tagID, Name: req.Name})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToTagDTO(*out.Tag))
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	tagID, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.deleteTagUC.Execute(c.Request.Context(), tagopsUC.DeleteTagInput{TagID: tagID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}

func (h *TagHandler) MergeTags(c *gin.Context) {
	var req MergeTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	in := tagopsUC.MergeTagsInput{SourceID: req.SourceID, TargetID: req.TargetID}
	if err := h.mergeTagsUC.Execute(c.Request.Context(), in); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tags merged"})
}

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.NewInvalidInput("invalid id", err)
	}
	return id, nil
}
