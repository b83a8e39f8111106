package model

// UploadTextRequest creates a document record and indexes its content.
type UploadTextRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// UploadTextResponse reports both halves of the two-phase write.
type UploadTextResponse struct {
	Title        string `json:"title"`
	ChunkCount   int    `json:"chunk_count"`
	VectorStatus string `json:"vector_status"`
	StoreStatus  string `json:"store_status"`
}

// UpdateFileRequest replaces a document's title, content and category.
type UpdateFileRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// DeleteFileResponse reports the outcome against each store separately.
type DeleteFileResponse struct {
	Title            string   `json:"title"`
	DeletedFromStore bool     `json:"deleted_from_store"`
	DeletedFromIndex bool     `json:"deleted_from_index"`
	Messages         []string `json:"messages"`
}

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)
