package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	imageopsUC "github.com/khoahotran/pictag/internal/application/usecase/imageops"
	tagopsUC "github.com/khoahotran/pictag/internal/application/usecase/tagops"
	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

type ImageHandler struct {
	registerImageUC *imageopsUC.RegisterImageUseCase
	getImageUC      *imageopsUC.GetImageUseCase
	deleteImageUC   *imageopsUC.DeleteImageUseCase
	assignTagsUC    *tagopsUC.AssignImageTagsUseCase
	logger          logger.Logger
}

func NewImageHandler(
	registerUC *imageopsUC.RegisterImageUseCase,
	getUC *imageopsUC.GetImageUseCase,
	deleteUC *imageopsUC.DeleteImageUseCase,
	assignUC *tagopsUC.AssignImageTagsUseCase,
	log logger.Logger,
) *ImageHandler {
	return &ImageHandler{
		registerImageUC: registerUC,
		getImageUC:      getUC,
		deleteImageUC:   deleteUC,
		assignTagsUC:    assignUC,
		logger:          log,
	}
}

func (h *ImageHandler) RegisterImage(c *gin.Context) {
	var req RegisterImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.registerImageUC.Execute(c.Request.Context(), imageopsUC.RegisterImageInput{
		Src:    req.Src,
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToImageDTO(*out.Image))
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	imageID, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	out, err := h.getImageUC.Execute(c.Request.Context(), imageopsUC.GetImageInput{ImageID: imageID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToTaggedImageDTO(*out.Image))
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	imageID, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.deleteImageUC.Execute(c.Request.Context(), imageopsUC.DeleteImageInput{ImageID: imageID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}

func (h *ImageHandler) AssignTags(c *gin.Context) {
	imageID, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req AssignTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	in := tagopsUC.AssignImageTagsInput{ImageID: imageID, TagIDs: req.TagIDs}
	if err := h.assignTagsUC.Execute(c.Request.Context(), in); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tags assigned"})
}
