package indexer

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/constant"
	"github.com/CUknot/rag-model/pkg/clients/pinecone"
	"github.com/CUknot/rag-model/pkg/textsplit"
)

// VectorIndex is the slice of the vector-index client the indexer needs.
type VectorIndex interface {
	UpsertRecords(ctx context.Context, namespace string, records []pinecone.Record) error
	DeleteRecords(ctx context.Context, namespace string, ids []string) error
	DescribeIndex(ctx context.Context) (map[string]interface{}, error)
	DescribeIndexStats(ctx context.Context) (map[string]interface{}, error)
	DeleteIndex(ctx context.Context, name string) error
	Namespace(category string) string
	IndexName() string
}

type Config struct {
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
}

// Service turns documents into chunk records and keeps the vector index in
// step with the document store: upload assigns deterministic IDs
// "{title}_{i}", delete reconstructs the same ID set from the stored chunk
// count. The returned chunk count is the only record of how many chunks
// exist, so callers must persist it.
type Service struct {
	index     VectorIndex
	splitter  *textsplit.Splitter
	batchSize int
}

func NewService(index VectorIndex, cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = constant.DefaultUpsertBatchSize
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = constant.DefaultChunkSize
	}
	chunkOverlap := cfg.ChunkOverlap
	if chunkOverlap <= 0 {
		chunkOverlap = constant.DefaultChunkOverlap
	}

	return &Service{
		index:     index,
		splitter:  textsplit.NewSplitter(chunkSize, chunkOverlap),
		batchSize: batchSize,
	}
}

// ChunkID is the deterministic record ID for chunk i of a title. IDs are
// reproducible from (title, index) alone; no mapping table exists.
func ChunkID(title string, i int) string {
	return fmt.Sprintf("%s_%d", title, i)
}

// Upload splits text, builds chunk records and upserts them in batches into
// the category's namespace. Returns the total chunk count. A failing batch
// aborts the upload; batches already upserted are not rolled back.
func (s *Service) Upload(ctx context.Context, title, text, category string) (int, error) {
	segments := s.splitter.Split(text)
	log.Infof("indexer: split %q into %d chunks", title, len(segments))

	records := make([]pinecone.Record, 0, len(segments))
	for i, seg := range segments {
		records = append(records, pinecone.Record{
			ID:         ChunkID(title, i),
			ChunkText:  seg.Text,
			Category:   category,
			Title:      title,
			ChunkIndex: i,
			StartIndex: seg.StartIndex,
		})
	}

	namespace := s.index.Namespace(category)
	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.index.UpsertRecords(ctx, namespace, records[start:end]); err != nil {
			return 0, fmt.Errorf("upsert batch starting at chunk %d of %q: %w", start, title, err)
		}
	}

	log.Infof("indexer: upserted %d chunks for %q into namespace %q", len(records), title, namespace)
	return len(records), nil
}

// Delete removes all chunks of a title by reconstructing the ID set
// {title}_0 .. {title}_{chunkCount-1}. Success means the index accepted the
// call; per-ID existence is not verified.
func (s *Service) Delete(ctx context.Context, title string, chunkCount int, category string) error {
	if chunkCount <= 0 {
		return nil
	}

	ids := make([]string, 0, chunkCount)
	for i := 0; i < chunkCount; i++ {
		ids = append(ids, ChunkID(title, i))
	}

	namespace := s.index.Namespace(category)
	log.Infof("indexer: deleting %d chunks for %q from namespace %q", len(ids), title, namespace)
	if err := s.index.DeleteRecords(ctx, namespace, ids); err != nil {
		return fmt.Errorf("delete chunks of %q: %w", title, err)
	}
	return nil
}

// IndexInfo is the diagnostic passthrough: index description plus statistics.
func (s *Service) IndexInfo(ctx context.Context) (map[string]interface{}, error) {
	description, err := s.index.DescribeIndex(ctx)
	if err != nil {
		return nil, err
	}
	statistics, err := s.index.DescribeIndexStats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"index_name":  s.index.IndexName(),
		"description": description,
		"statistics":  statistics,
	}, nil
}

// DropIndex destroys the whole index. The caller must have confirmed.
func (s *Service) DropIndex(ctx context.Context) error {
	return s.index.DeleteIndex(ctx, s.index.IndexName())
}
