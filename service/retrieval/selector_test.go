package retrieval

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CUknot/rag-model/pkg/clients/pinecone"
)

type stubSearcher struct {
	calls     int
	namespace string
	query     string
	hits      []pinecone.Hit
	err       error
}

func (s *stubSearcher) SearchRecords(_ context.Context, namespace, query string, _ int) ([]pinecone.Hit, error) {
	s.calls++
	s.namespace = namespace
	s.query = query
	return s.hits, s.err
}

func (s *stubSearcher) Namespace(category string) string {
	if category == "" {
		return "default"
	}
	return category
}

type mapCache struct {
	entries map[string]string
	getErr  error
}

func newMapCache() *mapCache { return &mapCache{entries: map[string]string{}} }

func (c *mapCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	val, ok := c.entries[key]
	return val, ok, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func hitWithText(text string) pinecone.Hit {
	return pinecone.Hit{Fields: map[string]interface{}{pinecone.FieldChunkText: text}}
}

func TestSelectWithoutKeywordSkipsSearch(t *testing.T) {
	searcher := &stubSearcher{hits: []pinecone.Hit{hitWithText("ignored")}}
	selector := NewSelector(searcher, nil, nil)

	contextText, triggered := selector.Select(context.Background(), "สวัสดีครับ เป็นยังไงบ้าง")
	assert.False(t, triggered)
	assert.Empty(t, contextText)
	assert.Equal(t, 0, searcher.calls)
}

func TestSelectTriggeredReturnsTopHit(t *testing.T) {
	searcher := &stubSearcher{hits: []pinecone.Hit{
		hitWithText("หนังเรื่องนี้กำกับโดยคริสโตเฟอร์ โนแลน"),
		hitWithText("อันดับสองไม่ถูกใช้"),
	}}
	selector := NewSelector(searcher, nil, nil)

	contextText, triggered := selector.Select(context.Background(), "แนะนำหนังให้หน่อย")
	assert.True(t, triggered)
	assert.Equal(t, "หนังเรื่องนี้กำกับโดยคริสโตเฟอร์ โนแลน", contextText)
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, "movie", searcher.namespace)
	assert.Equal(t, "แนะนำหนังให้หน่อย", searcher.query)
}

func TestSelectSearchErrorDegradesToNoContext(t *testing.T) {
	searcher := &stubSearcher{err: fmt.Errorf("index unreachable")}
	selector := NewSelector(searcher, nil, nil)

	contextText, triggered := selector.Select(context.Background(), "อยากฟังเพลงเพราะๆ")
	assert.True(t, triggered)
	assert.Empty(t, contextText)
}

func TestSelectEmptyHitsMeansNoContext(t *testing.T) {
	searcher := &stubSearcher{}
	selector := NewSelector(searcher, nil, nil)

	contextText, triggered := selector.Select(context.Background(), "เกมอะไรน่าเล่น")
	assert.True(t, triggered)
	assert.Empty(t, contextText)
}

func TestSelectKeywordMatchIsCaseInsensitive(t *testing.T) {
	searcher := &stubSearcher{hits: []pinecone.Hit{hitWithText("dog facts")}}
	selector := NewSelector(searcher, nil, &Config{
		Keywords: map[string]string{"Animal": "animal"},
	})

	_, triggered := selector.Select(context.Background(), "tell me an ANIMAL fact")
	assert.True(t, triggered)
	assert.Equal(t, "animal", searcher.namespace)
}

func TestSelectUsesCacheOnSecondCall(t *testing.T) {
	searcher := &stubSearcher{hits: []pinecone.Hit{hitWithText("แมวเป็นสัตว์เลี้ยงยอดนิยม")}}
	selector := NewSelector(searcher, newMapCache(), nil)

	first, triggered := selector.Select(context.Background(), "สัตว์อะไรเลี้ยงง่าย")
	assert.True(t, triggered)
	assert.Equal(t, 1, searcher.calls)

	second, triggered := selector.Select(context.Background(), "สัตว์อะไรเลี้ยงง่าย")
	assert.True(t, triggered)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, searcher.calls)
}

func TestSelectCacheErrorFallsThroughToSearch(t *testing.T) {
	searcher := &stubSearcher{hits: []pinecone.Hit{hitWithText("context")}}
	cache := newMapCache()
	cache.getErr = fmt.Errorf("redis down")
	selector := NewSelector(searcher, cache, nil)

	contextText, triggered := selector.Select(context.Background(), "มีหนังใหม่ไหม")
	assert.True(t, triggered)
	assert.Equal(t, "context", contextText)
	assert.Equal(t, 1, searcher.calls)
}
