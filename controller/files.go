package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/model"
	"github.com/CUknot/rag-model/service/files"
)

type FilesController struct {
	filesService *files.Service
}

func NewFilesController(filesService *files.Service) *FilesController {
	return &FilesController{filesService: filesService}
}

// List returns every document record.
func (fc *FilesController) List(ctx *gin.Context) {
	documents, svcErr := fc.filesService.List(ctx.Request.Context())
	if svcErr != nil {
		log.Errorf("List files error: %v", svcErr)
		ctx.JSON(svcErr.HTTPStatus(), gin.H{"error": svcErr.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"files": documents})
}

// UploadText ingests a new document.
func (fc *FilesController) UploadText(ctx *gin.Context) {
	var req model.UploadTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, svcErr := fc.filesService.Upload(ctx.Request.Context(), &req)
	if svcErr != nil {
		log.Errorf("Upload text error: %v", svcErr)
		ctx.JSON(svcErr.HTTPStatus(), gin.H{"error": svcErr.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Update replaces the document addressed by the path title.
func (fc *FilesController) Update(ctx *gin.Context) {
	originalTitle := ctx.Param("title")

	var req model.UpdateFileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, svcErr := fc.filesService.Update(ctx.Request.Context(), originalTitle, &req)
	if svcErr != nil {
		log.Errorf("Update file error: %v", svcErr)
		ctx.JSON(svcErr.HTTPStatus(), gin.H{"error": svcErr.Error()})
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// Delete removes the document named by the title query parameter.
func (fc *FilesController) Delete(ctx *gin.Context) {
	title := ctx.Query("title")
	if title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}

	resp, svcErr := fc.filesService.Delete(ctx.Request.Context(), title)
	if svcErr != nil {
		log.Errorf("Delete file error: %v", svcErr)
		ctx.JSON(svcErr.HTTPStatus(), gin.H{"error": svcErr.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
