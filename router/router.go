package router

import (
	"github.com/gin-gonic/gin"

	"github.com/CUknot/rag-model/controller"
	"github.com/CUknot/rag-model/middleware"
)

// Controllers groups everything the route table needs.
type Controllers struct {
	Chat  *controller.ChatController
	Files *controller.FilesController
	Index *controller.IndexController
}

// New builds the engine with recovery and request-ID middleware; the request
// body logger is attached only when enabled in config.
func New(c *Controllers, requestLog bool) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestID)
	if requestLog {
		engine.Use(middleware.Logger)
	}

	addBasicRouter(engine)
	addApiRouter(engine, c)

	return engine
}
