package files

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/constant"
	"github.com/CUknot/rag-model/entity"
	"github.com/CUknot/rag-model/model"
	"github.com/CUknot/rag-model/pkg/tools"
	"github.com/CUknot/rag-model/repository"
	"github.com/CUknot/rag-model/repository/factory"
)

// Indexer is the slice of the indexing service the files service needs.
type Indexer interface {
	Upload(ctx context.Context, title, text, category string) (int, error)
	Delete(ctx context.Context, title string, chunkCount int, category string) error
}

// Service owns the document lifecycle across the two stores: chunk vectors in
// the index, the full record in the document store. Writes to the same title
// are serialized with a per-title lock; the vector index is always written
// before the document record so a stored ChunkCount never overstates what the
// index holds.
type Service struct {
	repositoryFactory factory.Factory
	indexer           Indexer
	titleLocks        *tools.KeyedMutex
}

func NewService(repositoryFactory factory.Factory, indexer Indexer) *Service {
	return &Service{
		repositoryFactory: repositoryFactory,
		indexer:           indexer,
		titleLocks:        tools.NewKeyedMutex(),
	}
}

// List returns every document record, newest date first.
func (s *Service) List(ctx context.Context) ([]*entity.Document, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "files: close list session")

	documentRepository, err := s.repositoryFactory.NewDocumentRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, err)
	}

	documents, err := documentRepository.List()
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, errors.Wrap(err, "list documents"))
	}
	return documents, nil
}

// Upload ingests a new document: index the chunks first, then persist the
// record with the resulting chunk count. A duplicate title is a conflict. If
// the record write fails after the chunks are indexed the caller gets a
// partial-failure error naming both outcomes.
func (s *Service) Upload(ctx context.Context, req *model.UploadTextRequest) (*model.UploadTextResponse, *model.Error) {
	if svcErr := validateFields(req.Title, req.Content, req.Category); svcErr != nil {
		return nil, svcErr
	}

	s.titleLocks.Lock(req.Title)
	defer s.titleLocks.Unlock(req.Title)

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "files: close upload session")

	documentRepository, err := s.repositoryFactory.NewDocumentRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, err)
	}

	existing, err := documentRepository.GetByTitle(req.Title)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, errors.Wrap(err, "check existing title"))
	}
	if existing != nil {
		return nil, model.NewErrorWithMessage(model.ErrorConflict, fmt.Sprintf("title %q already exists", req.Title))
	}

	chunkCount, err := s.indexer.Upload(ctx, req.Title, req.Content, req.Category)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, errors.Wrap(err, "index chunks"))
	}

	document := &entity.Document{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Date:       time.Now().Format(constant.DateFormat),
		ChunkCount: chunkCount,
	}
	if err := documentRepository.Insert(document); err != nil {
		return nil, model.NewError(model.ErrorPartial,
			errors.Wrapf(err, "indexed %d chunks for %q but document store write failed", chunkCount, req.Title))
	}

	return &model.UploadTextResponse{
		Title:        req.Title,
		ChunkCount:   chunkCount,
		VectorStatus: model.StatusOK,
		StoreStatus:  model.StatusOK,
	}, nil
}

// Update replaces a document, possibly under a new title: old chunks are
// removed, the new content is re-indexed and the record is rewritten. Chunk
// removal and re-indexing failures are reported in the log but do not block
// the record update; the stored chunk count always reflects what re-indexing
// actually achieved.
func (s *Service) Update(ctx context.Context, originalTitle string, req *model.UpdateFileRequest) (*entity.Document, *model.Error) {
	if strings.TrimSpace(originalTitle) == constant.EmptyString {
		return nil, model.NewErrorWithMessage(model.ErrorParams, "title cannot be empty")
	}
	if svcErr := validateFields(req.Title, req.Content, req.Category); svcErr != nil {
		return nil, svcErr
	}

	unlock := s.lockTitles(originalTitle, req.Title)
	defer unlock()

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "files: close update session")

	documentRepository, err := s.repositoryFactory.NewDocumentRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, err)
	}

	original, err := documentRepository.GetByTitle(originalTitle)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, errors.Wrap(err, "load original document"))
	}
	if original == nil {
		return nil, model.NewErrorWithMessage(model.ErrorNotFound, fmt.Sprintf("title %q not found", originalTitle))
	}

	if req.Title != originalTitle {
		if svcErr := s.checkRenameTarget(documentRepository, req.Title); svcErr != nil {
			return nil, svcErr
		}
	}

	if err := s.indexer.Delete(ctx, originalTitle, original.ChunkCount, original.Category); err != nil {
		log.Warnf("files: removing old chunks of %q failed, stale vectors may remain: %v", originalTitle, err)
	}

	chunkCount, err := s.indexer.Upload(ctx, req.Title, req.Content, req.Category)
	if err != nil {
		log.Errorf("files: re-indexing %q failed, record updated with zero chunks: %v", req.Title, err)
		chunkCount = 0
	}

	updated := &entity.Document{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Date:       time.Now().Format(constant.DateFormat),
		ChunkCount: chunkCount,
	}
	if err := documentRepository.Update(originalTitle, updated); err != nil {
		return nil, model.NewError(model.ErrorCollaborator, errors.Wrapf(err, "update document %q", originalTitle))
	}

	return updated, nil
}

// Delete removes a document from both stores. A vector-index failure is
// reported in the response but does not block removing the record; a
// document-store failure fails the call.
func (s *Service) Delete(ctx context.Context, title string) (*model.DeleteFileResponse, *model.Error) {
	if strings.TrimSpace(title) == constant.EmptyString {
		return nil, model.NewErrorWithMessage(model.ErrorParams, "title cannot be empty")
	}

	s.titleLocks.Lock(title)
	defer s.titleLocks.Unlock(title)

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "files: close delete session")

	documentRepository, err := s.repositoryFactory.NewDocumentRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, err)
	}

	document, err := documentRepository.GetByTitle(title)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, errors.Wrap(err, "load document"))
	}
	if document == nil {
		return nil, model.NewErrorWithMessage(model.ErrorNotFound, fmt.Sprintf("title %q not found", title))
	}

	response := &model.DeleteFileResponse{Title: title}
	if err := s.indexer.Delete(ctx, title, document.ChunkCount, document.Category); err != nil {
		log.Warnf("files: deleting chunks of %q failed, stale vectors may remain: %v", title, err)
		response.Messages = append(response.Messages, fmt.Sprintf("vector deletion failed: %v", err))
	} else {
		response.DeletedFromIndex = true
		response.Messages = append(response.Messages, fmt.Sprintf("deleted %d chunks from the index", document.ChunkCount))
	}

	removed, err := documentRepository.DeleteByTitle(title)
	if err != nil {
		return nil, model.NewError(model.ErrorCollaborator, errors.Wrapf(err, "delete document %q", title))
	}
	response.DeletedFromStore = removed
	response.Messages = append(response.Messages, fmt.Sprintf("file %q deleted", title))

	return response, nil
}

func (s *Service) checkRenameTarget(documentRepository repository.DocumentRepository, title string) *model.Error {
	existing, err := documentRepository.GetByTitle(title)
	if err != nil {
		return model.NewError(model.ErrorCollaborator, errors.Wrap(err, "check rename target"))
	}
	if existing != nil {
		return model.NewErrorWithMessage(model.ErrorConflict, fmt.Sprintf("title %q already exists", title))
	}
	return nil
}

// lockTitles acquires both titles in a fixed order so concurrent renames
// cannot deadlock.
func (s *Service) lockTitles(a, b string) func() {
	if a == b {
		s.titleLocks.Lock(a)
		return func() { s.titleLocks.Unlock(a) }
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	s.titleLocks.Lock(first)
	s.titleLocks.Lock(second)
	return func() {
		s.titleLocks.Unlock(second)
		s.titleLocks.Unlock(first)
	}
}

func validateFields(title, content, category string) *model.Error {
	if strings.TrimSpace(title) == constant.EmptyString {
		return model.NewErrorWithMessage(model.ErrorParams, "title cannot be empty")
	}
	if strings.TrimSpace(content) == constant.EmptyString {
		return model.NewErrorWithMessage(model.ErrorParams, "content cannot be empty")
	}
	if strings.TrimSpace(category) == constant.EmptyString {
		return model.NewErrorWithMessage(model.ErrorParams, "category cannot be empty")
	}
	return nil
}
