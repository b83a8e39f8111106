package router

import (
	"github.com/gin-gonic/gin"
)

func addApiRouter(engine *gin.Engine, c *Controllers) {

	// chat
	engine.POST("/chat", c.Chat.Chat)

	// document lifecycle
	engine.GET("/files/", c.Files.List)
	engine.POST("/upload-text/", c.Files.UploadText)
	engine.PUT("/files/:title", c.Files.Update)
	engine.DELETE("/files/", c.Files.Delete)

	// retrieval and index diagnostics
	engine.GET("/get_context/", c.Index.GetContext)
	engine.GET("/pinecone-info/", c.Index.PineconeInfo)
	engine.DELETE("/pinecone-index/", c.Index.DeletePineconeIndex)
}
