package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/model"
	"github.com/CUknot/rag-model/service/indexer"
	"github.com/CUknot/rag-model/service/retrieval"
)

type IndexController struct {
	indexerService *indexer.Service
	selector       *retrieval.Selector
}

func NewIndexController(indexerService *indexer.Service, selector *retrieval.Selector) *IndexController {
	return &IndexController{indexerService: indexerService, selector: selector}
}

// GetContext is the retrieval diagnostic: it runs context selection for a
// query without calling the chat model.
func (ic *IndexController) GetContext(ctx *gin.Context) {
	query := ctx.Query("query")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	contextText, triggered := ic.selector.Select(ctx.Request.Context(), query)
	ctx.JSON(http.StatusOK, model.ContextResponse{
		Query:     query,
		Context:   contextText,
		Triggered: triggered,
	})
}

// PineconeInfo returns the index description and statistics.
func (ic *IndexController) PineconeInfo(ctx *gin.Context) {
	info, err := ic.indexerService.IndexInfo(ctx.Request.Context())
	if err != nil {
		log.Errorf("Pinecone info error: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, info)
}

// DeletePineconeIndex destroys the whole index. Requires confirm=true.
func (ic *IndexController) DeletePineconeIndex(ctx *gin.Context) {
	if ctx.Query("confirm") != "true" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "pass confirm=true to delete the index"})
		return
	}

	if err := ic.indexerService.DropIndex(ctx.Request.Context()); err != nil {
		log.Errorf("Delete pinecone index error: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "index deleted"})
}
