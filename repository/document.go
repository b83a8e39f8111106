package repository

import (
	"github.com/CUknot/rag-model/entity"
)

type DocumentRepository interface {
	Insert(doc *entity.Document) error
	// GetByTitle returns (nil, nil) when the title does not exist.
	GetByTitle(title string) (*entity.Document, error)
	List() ([]*entity.Document, error)
	// Update replaces the record keyed by its original title; the new values may
	// carry a different title.
	Update(originalTitle string, doc *entity.Document) error
	// DeleteByTitle reports whether a record was actually removed.
	DeleteByTitle(title string) (bool, error)
}
