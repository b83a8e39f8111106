package pinecone

// FieldChunkText is the record field the index's server-side embedder reads.
const FieldChunkText = "chunk_text"

// Record is one retrievable chunk. The index embeds ChunkText server-side, so
// no vector values travel with the record.
type Record struct {
	ID         string `json:"_id"`
	ChunkText  string `json:"chunk_text"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	ChunkIndex int    `json:"chunk_index"`
	StartIndex int    `json:"start_index"`
}

// Hit is one search result, most relevant first.
type Hit struct {
	ID     string                 `json:"_id"`
	Score  float64                `json:"_score"`
	Fields map[string]interface{} `json:"fields"`
}

// ChunkText extracts the stored chunk text from the hit's fields.
func (h Hit) ChunkText() string {
	if v, ok := h.Fields[FieldChunkText].(string); ok {
		return v
	}
	return ""
}

type searchRequest struct {
	Query searchQuery `json:"query"`
}

type searchQuery struct {
	TopK   int          `json:"top_k"`
	Inputs searchInputs `json:"inputs"`
}

type searchInputs struct {
	Text string `json:"text"`
}

type searchResponse struct {
	Result struct {
		Hits []Hit `json:"hits"`
	} `json:"result"`
}

type deleteRequest struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace"`
}
