package backend

import (
	"fmt"

	"finbot/internal/amqp"
	"finbot/internal/config"
	"finbot/internal/log"
	"finbot/internal/services"
	"finbot/internal/store/jsonfile"
	"finbot/internal/store/memory"
	"finbot/internal/store/sqlite"
)

type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// ConfigFromApp maps application configuration onto backend configuration.
func ConfigFromApp(cfg *config.Config) Config {
	return Config{
		Type:         Type(cfg.DataBackend),
		DataFile:     cfg.DataFile,
		SQLiteDBPath: cfg.SQLiteDBPath,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		AMQPQueue:    cfg.AMQPQueue,
	}
}

func (f *Factory) Create(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLite:
		return f.createSQLite(cfg)
	case File:
		return f.createFile(cfg)
	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil
	}
}

func (f *Factory) createFile(cfg Config) (*Result, error) {
	st, err := jsonfile.New(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("initialize file backend: %w", err)
	}
	f.logger.Info("Initialized file backend", "path", cfg.DataFile)
	return &Result{Store: st}, nil
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite backend: %w", err)
	}

	// The sync pipeline is optional: without a broker the bot still works,
	// transactions just stay local.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			publisher = client
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	service := services.NewLedgerService(repo, publisher)
	f.logger.Info("Initialized sqlite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	return &Result{Store: service, Cleanup: service.Close}, nil
}
