package xormimplement

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"xorm.io/xorm"

	_ "github.com/lib/pq"

	"github.com/CUknot/rag-model/repository"
	"github.com/CUknot/rag-model/repository/factory"
	"github.com/CUknot/rag-model/repository/interfaces"
)

// DBConfig holds the document-store connection parameters. The connection is a
// fatal condition for any endpoint touching document records, so NewFactory
// returns an error instead of deferring the failure to first use.
type DBConfig struct {
	Type     string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	ShowSQL  bool
}

type Factory struct {
	engine *xorm.Engine
}

func NewFactory(cfg *DBConfig) (factory.Factory, error) {
	engine, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	return &Factory{engine: engine}, nil
}

func openDB(cfg *DBConfig) (*xorm.Engine, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host,
		cfg.Username,
		cfg.Password,
		cfg.Name,
		cfg.Port)

	engine, err := xorm.NewEngine(cfg.Type, dsn)
	if err != nil {
		logrus.Errorf("database connection failed err: %v, database name: %s", err, cfg.Name)
		return nil, fmt.Errorf("open database %s: %w", cfg.Name, err)
	}
	engine.ShowSQL(cfg.ShowSQL)
	return engine, nil
}

func (f *Factory) NewSession(ctx context.Context) interfaces.Session {
	return &Session{Session: f.engine.NewSession().Context(ctx)}
}

func (f *Factory) NewDocumentRepository(session interfaces.Session) (repository.DocumentRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewDocumentRepository(s), nil
	}
	return nil, fmt.Errorf("session is not an xorm session")
}

func (f *Factory) NewChatLogRepository(session interfaces.Session) (repository.ChatLogRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewChatLogRepository(s), nil
	}
	return nil, fmt.Errorf("session is not an xorm session")
}

// Close releases the underlying connection pool.
func (f *Factory) Close() error {
	return f.engine.Close()
}
