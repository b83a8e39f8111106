package config

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/CUknot/rag-model/constant"
	"github.com/CUknot/rag-model/pkg/file"
)

const (
	OSConfigPath      = "CONFIG_PATH"
	DefaultConfigName = "config.yaml"
	TypeYaml          = "yaml"

	AppHost            = "app.host"
	AppLogLevel        = "app.log.level"
	AppLogReportcaller = "app.log.reportcaller"
	AppLogRequest      = "app.log.request"

	BaseDbXormType     = "base.db.xorm.type"
	BaseDbXormUsername = "base.db.xorm.username"
	BaseDbXormPassword = "base.db.xorm.password"
	BaseDbXormHost     = "base.db.xorm.host"
	BaseDbXormPort     = "base.db.xorm.port"
	BaseDbXormName     = "base.db.xorm.name"
	BaseDbXormShowsql  = "base.db.xorm.showsql"

	ClientsCommonRequestLog = "clients.http.requestLog"

	ClientChatModelAddr        = "clients.llmModel.addr"
	ClientChatModelModel       = "clients.llmModel.model"
	ClientChatModelTemperature = "clients.llmModel.temperature"
	ClientChatModelMaxTokens   = "clients.llmModel.maxTokens"

	ClientPineconeControlAddr = "clients.pinecone.controlAddr"
	ClientPineconeHost        = "clients.pinecone.host"
	ClientPineconeIndexName   = "clients.pinecone.indexName"
	ClientPineconeNamespace   = "clients.pinecone.namespace"

	RedisClientDb       = "clients.redisClient.db"
	RedisClientHost     = "clients.redisClient.host"
	RedisClientPassword = "clients.redisClient.password"

	RetrievalTopK        = "retrieval.topK"
	RetrievalCacheTTLSec = "retrieval.cacheTTLSeconds"
	RetrievalKeywords    = "retrieval.keywords"

	IndexingChunkSize    = "indexing.chunkSize"
	IndexingChunkOverlap = "indexing.chunkOverlap"
	IndexingBatchSize    = "indexing.batchSize"

	ChatHistoryLimit = "chat.historyLimit"
)

// Secrets come from the environment only, never from the yaml file.
const (
	EnvModelAPIKey    = "MODEL_API_KEY"
	EnvPineconeAPIKey = "PINECONE_API_KEY"
)

// Config wraps viper and is constructed once in main, then handed down to every
// component that needs it. No package-level instance exists.
type Config struct {
	*viper.Viper
}

// Load reads the yaml config from CONFIG_PATH (directory) or ./config.yaml and
// enables environment overrides with "." replaced by "_".
func Load() (*Config, error) {
	var configPath string

	envConfigPath := os.Getenv(OSConfigPath)
	if strings.EqualFold(envConfigPath, constant.EmptyString) {
		configPath = fmt.Sprintf("./%v", DefaultConfigName)
		if !file.CheckFileIsExist(configPath) {
			return nil, fmt.Errorf("config file %v not found and %v not set", configPath, OSConfigPath)
		}
		log.Infof("use default config path %s", configPath)
	} else {
		log.Infof("found %v, use %s", OSConfigPath, envConfigPath)
		configPath = fmt.Sprintf("%v/%v", envConfigPath, DefaultConfigName)
	}

	cfg := &Config{Viper: viper.New()}
	cfg.SetConfigType(TypeYaml)
	cfg.SetConfigFile(configPath)
	if err := cfg.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %v: %w", configPath, err)
	}

	cfg.AutomaticEnv()
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return cfg, nil
}

func (c *Config) GetStringOrDefault(key string, defaultValue string) string {
	if c.IsSet(key) {
		return c.GetString(key)
	}
	return defaultValue
}

func (c *Config) GetIntOrDefault(key string, defaultValue int) int {
	if c.IsSet(key) {
		return c.GetInt(key)
	}
	return defaultValue
}

func (c *Config) GetBoolOrDefault(key string, defaultValue bool) bool {
	if c.IsSet(key) {
		return c.GetBool(key)
	}
	return defaultValue
}

func (c *Config) GetFloat64OrDefault(key string, defaultValue float64) float64 {
	if c.IsSet(key) {
		return c.GetFloat64(key)
	}
	return defaultValue
}

// ModelAPIKey returns the chat model credential from the environment.
func (c *Config) ModelAPIKey() string {
	return os.Getenv(EnvModelAPIKey)
}

// PineconeAPIKey returns the vector index credential from the environment.
func (c *Config) PineconeAPIKey() string {
	return os.Getenv(EnvPineconeAPIKey)
}
