// Package backend constructs the configured transaction store.
package backend

import (
	"finbot/internal/store"
)

type Type string

const (
	Memory Type = "memory"
	File   Type = "file"
	SQLite Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case Memory, File, SQLite:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a store.
type Config struct {
	Type Type

	// File backend
	DataFile string

	// SQLite backend; AMQPURL may be empty to disable the sync pipeline.
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// CleanupFunc releases the backend's resources.
type CleanupFunc func() error

// Result holds the constructed store and its cleanup, nil when the backend
// has nothing to release.
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}
