package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/constant"
	"github.com/CUknot/rag-model/pkg/clients/pinecone"
)

// Searcher is the retrieval slice of the vector-index client.
type Searcher interface {
	SearchRecords(ctx context.Context, namespace, query string, topK int) ([]pinecone.Hit, error)
	Namespace(category string) string
}

// Cache is an optional read-through cache for selected context.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Config struct {
	Keywords map[string]string
	TopK     int
	CacheTTL time.Duration
}

type rule struct {
	keyword   string
	namespace string
}

// Selector decides whether a user query needs retrieved context. A query
// triggers retrieval only when it contains one of the configured keywords;
// the matching keyword names the namespace to search. Retrieval failures
// degrade to "no context" and never fail the caller.
type Selector struct {
	searcher Searcher
	cache    Cache
	rules    []rule
	topK     int
	cacheTTL time.Duration
}

func NewSelector(searcher Searcher, cache Cache, cfg *Config) *Selector {
	if cfg == nil {
		cfg = &Config{}
	}
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = constant.DefaultTriggerKeywords
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = constant.DefaultRetrievalTopK
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = constant.DefaultContextCacheTTLSec * time.Second
	}

	// fixed rule order so overlapping keywords resolve the same way every time
	rules := make([]rule, 0, len(keywords))
	for keyword, namespace := range keywords {
		rules = append(rules, rule{keyword: strings.ToLower(keyword), namespace: namespace})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].keyword < rules[j].keyword })

	return &Selector{
		searcher: searcher,
		cache:    cache,
		rules:    rules,
		topK:     topK,
		cacheTTL: cacheTTL,
	}
}

// Select returns the context text for a query and whether any keyword
// triggered retrieval. triggered=true with empty context means retrieval ran
// but produced nothing usable.
func (s *Selector) Select(ctx context.Context, query string) (string, bool) {
	lowered := strings.ToLower(query)
	for _, r := range s.rules {
		if !strings.Contains(lowered, r.keyword) {
			continue
		}
		namespace := s.searcher.Namespace(r.namespace)
		return s.retrieve(ctx, namespace, query), true
	}
	return constant.EmptyString, false
}

func (s *Selector) retrieve(ctx context.Context, namespace, query string) string {
	cacheKey := contextCacheKey(namespace, query)
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			log.Warnf("retrieval: context cache read failed: %v", err)
		} else if found {
			log.Debugf("retrieval: context cache hit for namespace %q", namespace)
			return cached
		}
	}

	hits, err := s.searcher.SearchRecords(ctx, namespace, query, s.topK)
	if err != nil {
		log.Errorf("retrieval: search in namespace %q failed: %v", namespace, err)
		return constant.EmptyString
	}
	if len(hits) == 0 {
		log.Debugf("retrieval: no hits in namespace %q", namespace)
		return constant.EmptyString
	}

	contextText := hits[0].ChunkText()
	if contextText == constant.EmptyString {
		return constant.EmptyString
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, contextText, s.cacheTTL); err != nil {
			log.Warnf("retrieval: context cache write failed: %v", err)
		}
	}
	return contextText
}

func contextCacheKey(namespace, query string) string {
	digest := sha256.Sum256([]byte(query))
	return "context:" + namespace + ":" + hex.EncodeToString(digest[:])
}
