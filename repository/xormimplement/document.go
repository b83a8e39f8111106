package xormimplement

import (
	"fmt"

	"xorm.io/builder"

	"github.com/CUknot/rag-model/entity"
	"github.com/CUknot/rag-model/repository"
)

type DocumentRepository struct {
	session *Session
}

func NewDocumentRepository(session *Session) repository.DocumentRepository {
	return &DocumentRepository{session: session}
}

func (r *DocumentRepository) Insert(doc *entity.Document) error {
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}
	if doc.Title == "" {
		return fmt.Errorf("document title cannot be empty")
	}

	_, err := r.session.Table(entity.TableNameDocuments).Insert(doc)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByTitle(title string) (*entity.Document, error) {
	if title == "" {
		return nil, fmt.Errorf("document title cannot be empty")
	}

	result := &entity.Document{}
	ok, err := r.session.Table(entity.TableNameDocuments).
		Where(builder.Eq{entity.DocumentFieldTitle: title}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return result, nil
}

func (r *DocumentRepository) List() ([]*entity.Document, error) {
	var results []*entity.Document
	if err := r.session.Table(entity.TableNameDocuments).
		OrderBy(entity.DocumentFieldDate + " desc").
		Find(&results); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return results, nil
}

func (r *DocumentRepository) Update(originalTitle string, doc *entity.Document) error {
	if originalTitle == "" {
		return fmt.Errorf("document title cannot be empty")
	}
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}

	updateData := map[string]interface{}{
		entity.DocumentFieldTitle:      doc.Title,
		entity.DocumentFieldContent:    doc.Content,
		entity.DocumentFieldCategory:   doc.Category,
		entity.DocumentFieldDate:       doc.Date,
		entity.DocumentFieldChunkCount: doc.ChunkCount,
	}

	n, err := r.session.Table(entity.TableNameDocuments).
		Where(builder.Eq{entity.DocumentFieldTitle: originalTitle}).
		Update(updateData)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %q not found", originalTitle)
	}
	return nil
}

func (r *DocumentRepository) DeleteByTitle(title string) (bool, error) {
	if title == "" {
		return false, fmt.Errorf("document title cannot be empty")
	}

	n, err := r.session.Table(entity.TableNameDocuments).
		Where(builder.Eq{entity.DocumentFieldTitle: title}).
		Delete(&entity.Document{})
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return n > 0, nil
}
