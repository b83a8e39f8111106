package factory

import (
	"io"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/config"
	"github.com/CUknot/rag-model/constant"
	"github.com/CUknot/rag-model/pkg/clients/llm_model"
	"github.com/CUknot/rag-model/pkg/clients/pinecone"
	redisclient "github.com/CUknot/rag-model/pkg/clients/redis"
	repofactory "github.com/CUknot/rag-model/repository/factory"
	"github.com/CUknot/rag-model/repository/xormimplement"
	"github.com/CUknot/rag-model/service/chat"
	"github.com/CUknot/rag-model/service/files"
	"github.com/CUknot/rag-model/service/indexer"
	"github.com/CUknot/rag-model/service/retrieval"
)

// ServiceFactory wires every service from the loaded config. Constructed once
// in main; everything downstream receives its dependencies explicitly.
type ServiceFactory struct {
	repositoryFactory repofactory.Factory
	redisClient       *goredis.Client

	chatService    *chat.Service
	filesService   *files.Service
	indexerService *indexer.Service
	selector       *retrieval.Selector
}

func New(cfg *config.Config) (*ServiceFactory, error) {
	repositoryFactory, err := xormimplement.NewFactory(&xormimplement.DBConfig{
		Type:     cfg.GetString(config.BaseDbXormType),
		Host:     cfg.GetString(config.BaseDbXormHost),
		Port:     cfg.GetString(config.BaseDbXormPort),
		Username: cfg.GetString(config.BaseDbXormUsername),
		Password: cfg.GetString(config.BaseDbXormPassword),
		Name:     cfg.GetString(config.BaseDbXormName),
		ShowSQL:  cfg.GetBool(config.BaseDbXormShowsql),
	})
	if err != nil {
		return nil, err
	}

	requestLog := cfg.GetBool(config.ClientsCommonRequestLog)

	pineconeClient, err := pinecone.NewClient(&pinecone.Config{
		APIKey:      cfg.PineconeAPIKey(),
		ControlAddr: cfg.GetStringOrDefault(config.ClientPineconeControlAddr, pinecone.DefaultControlAddr),
		Host:        cfg.GetString(config.ClientPineconeHost),
		IndexName:   cfg.GetString(config.ClientPineconeIndexName),
		Namespace:   cfg.GetStringOrDefault(config.ClientPineconeNamespace, constant.DefaultVectorNamespace),
		RequestLog:  requestLog,
	})
	if err != nil {
		return nil, err
	}

	chatModelClient, err := llm_model.NewClient(&llm_model.Config{
		Addr:        cfg.GetString(config.ClientChatModelAddr),
		Model:       cfg.GetString(config.ClientChatModelModel),
		Token:       cfg.ModelAPIKey(),
		Temperature: cast.ToFloat32(cfg.GetFloat64(config.ClientChatModelTemperature)),
		MaxTokens:   cfg.GetInt(config.ClientChatModelMaxTokens),
	})
	if err != nil {
		return nil, err
	}

	f := &ServiceFactory{repositoryFactory: repositoryFactory}

	// the context cache is optional: without redis the selector searches every time
	var cache retrieval.Cache
	if redisHost := cfg.GetString(config.RedisClientHost); redisHost != constant.EmptyString {
		redisClient, err := redisclient.NewRedisSingleClient(&redisclient.RedisConfig{
			Host:     redisHost,
			Password: cfg.GetString(config.RedisClientPassword),
			Db:       cfg.GetInt(config.RedisClientDb),
		})
		if err != nil {
			log.Warnf("service factory: redis unavailable, context cache disabled: %v", err)
		} else {
			f.redisClient = redisClient
			cache = redisclient.NewContextCache(redisClient)
		}
	}

	keywords := cfg.GetStringMapString(config.RetrievalKeywords)
	if len(keywords) == 0 {
		keywords = constant.DefaultTriggerKeywords
	}

	f.indexerService = indexer.NewService(pineconeClient, &indexer.Config{
		ChunkSize:    cfg.GetIntOrDefault(config.IndexingChunkSize, constant.DefaultChunkSize),
		ChunkOverlap: cfg.GetIntOrDefault(config.IndexingChunkOverlap, constant.DefaultChunkOverlap),
		BatchSize:    cfg.GetIntOrDefault(config.IndexingBatchSize, constant.DefaultUpsertBatchSize),
	})

	f.selector = retrieval.NewSelector(pineconeClient, cache, &retrieval.Config{
		Keywords: keywords,
		TopK:     cfg.GetIntOrDefault(config.RetrievalTopK, constant.DefaultRetrievalTopK),
		CacheTTL: time.Duration(cfg.GetIntOrDefault(config.RetrievalCacheTTLSec, constant.DefaultContextCacheTTLSec)) * time.Second,
	})

	f.chatService = chat.NewService(repositoryFactory, f.selector, chatModelClient, &chat.Config{
		HistoryLimit: cfg.GetIntOrDefault(config.ChatHistoryLimit, constant.DefaultHistoryLimit),
	})

	f.filesService = files.NewService(repositoryFactory, f.indexerService)

	return f, nil
}

func (f *ServiceFactory) ChatService() *chat.Service { return f.chatService }

func (f *ServiceFactory) FilesService() *files.Service { return f.filesService }

func (f *ServiceFactory) IndexerService() *indexer.Service { return f.indexerService }

func (f *ServiceFactory) Selector() *retrieval.Selector { return f.selector }

// Start brings up background workers.
func (f *ServiceFactory) Start() {
	f.chatService.Start()
}

// Stop flushes background workers and releases connections.
func (f *ServiceFactory) Stop() {
	f.chatService.Stop()
	redisclient.CloseRedisSingle(f.redisClient)
	if closer, ok := f.repositoryFactory.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Errorf("service factory: close database: %v", err)
		}
	}
}
