package entity

const (
	TableNameDocuments = "documents"

	DocumentFieldTitle      = "title"
	DocumentFieldContent    = "content"
	DocumentFieldCategory   = "category"
	DocumentFieldDate       = "date"
	DocumentFieldChunkCount = "chunk_count"
)

// Document is one user-authored note. Title is the unique key; ChunkCount must
// equal the number of vector records stored under "{title}_*" in Category's
// namespace — it is the only record of how many chunks exist.
type Document struct {
	Title      string `xorm:"pk varchar(255) 'title'" json:"title"`
	Content    string `xorm:"text 'content'" json:"content"`
	Category   string `xorm:"varchar(64) index 'category'" json:"category"`
	Date       string `xorm:"varchar(10) 'date'" json:"date"`
	ChunkCount int    `xorm:"int 'chunk_count'" json:"chunk_count"`
}

func (e *Document) TableName() string {
	return TableNameDocuments
}
