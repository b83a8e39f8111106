package indexer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CUknot/rag-model/pkg/clients/pinecone"
)

type stubIndex struct {
	upserts   [][]pinecone.Record
	upsertNS  []string
	deleted   [][]string
	deletedNS []string
	upsertErr error
	deleteErr error
}

func (s *stubIndex) UpsertRecords(_ context.Context, namespace string, records []pinecone.Record) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	batch := make([]pinecone.Record, len(records))
	copy(batch, records)
	s.upserts = append(s.upserts, batch)
	s.upsertNS = append(s.upsertNS, namespace)
	return nil
}

func (s *stubIndex) DeleteRecords(_ context.Context, namespace string, ids []string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, ids)
	s.deletedNS = append(s.deletedNS, namespace)
	return nil
}

func (s *stubIndex) DescribeIndex(context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"dimension": float64(1024)}, nil
}

func (s *stubIndex) DescribeIndexStats(context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"totalVectorCount": float64(3)}, nil
}

func (s *stubIndex) DeleteIndex(context.Context, string) error { return nil }

func (s *stubIndex) Namespace(category string) string {
	if category == "" {
		return "default"
	}
	return category
}

func (s *stubIndex) IndexName() string { return "test-index" }

func TestUploadAssignsSequentialChunkIDs(t *testing.T) {
	index := &stubIndex{}
	service := NewService(index, &Config{ChunkSize: 10, ChunkOverlap: 2, BatchSize: 100})

	text := strings.Repeat("หนังสนุกมาก ", 10)
	count, err := service.Upload(context.Background(), "รีวิวหนัง", text, "movie")
	assert.NoError(t, err)
	assert.Greater(t, count, 1)

	var all []pinecone.Record
	for _, batch := range index.upserts {
		all = append(all, batch...)
	}
	assert.Len(t, all, count)
	for i, record := range all {
		assert.Equal(t, fmt.Sprintf("รีวิวหนัง_%d", i), record.ID)
		assert.Equal(t, i, record.ChunkIndex)
		assert.Equal(t, "movie", record.Category)
		assert.Equal(t, "รีวิวหนัง", record.Title)
	}
}

func TestUploadBatchesAtConfiguredSize(t *testing.T) {
	index := &stubIndex{}
	service := NewService(index, &Config{ChunkSize: 5, ChunkOverlap: 1, BatchSize: 3})

	// words of 4 chars split with chunk size 5 yield one chunk per word
	text := strings.Repeat("aaaa ", 8)
	count, err := service.Upload(context.Background(), "doc", text, "game")
	assert.NoError(t, err)
	assert.Greater(t, count, 3)

	for i, batch := range index.upserts {
		if i < len(index.upserts)-1 {
			assert.Len(t, batch, 3)
		} else {
			assert.LessOrEqual(t, len(batch), 3)
		}
	}
}

func TestUploadEmptyCategoryFallsBackToDefaultNamespace(t *testing.T) {
	index := &stubIndex{}
	service := NewService(index, &Config{ChunkSize: 1024, ChunkOverlap: 50})

	_, err := service.Upload(context.Background(), "doc", "some text", "")
	assert.NoError(t, err)
	assert.Equal(t, []string{"default"}, index.upsertNS)
}

func TestUploadPropagatesUpsertFailure(t *testing.T) {
	index := &stubIndex{upsertErr: fmt.Errorf("429 rate limited")}
	service := NewService(index, nil)

	count, err := service.Upload(context.Background(), "doc", "some text", "music")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, 0, count)
}

func TestDeleteReconstructsIDSet(t *testing.T) {
	index := &stubIndex{}
	service := NewService(index, nil)

	err := service.Delete(context.Background(), "doc", 3, "animal")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"doc_0", "doc_1", "doc_2"}}, index.deleted)
	assert.Equal(t, []string{"animal"}, index.deletedNS)
}

func TestDeleteZeroChunksIsNoop(t *testing.T) {
	index := &stubIndex{}
	service := NewService(index, nil)

	err := service.Delete(context.Background(), "doc", 0, "animal")
	assert.NoError(t, err)
	assert.Empty(t, index.deleted)
}

func TestIndexInfoCombinesDescriptionAndStats(t *testing.T) {
	service := NewService(&stubIndex{}, nil)

	info, err := service.IndexInfo(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "test-index", info["index_name"])
	assert.NotNil(t, info["description"])
	assert.NotNil(t, info["statistics"])
}
