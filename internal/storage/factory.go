package storage

import (
	"fmt"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/config"
)

func NewFileRepositories(logsFile, goalsFile string, logger internal.Logger) (*Repositories, error) {
	s, err := NewFileStorage(logsFile, goalsFile, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Logs: s, Goals: s, close: s.Close}, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (*Repositories, error) {
	s, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Logs: s, Goals: s, close: s.Close}, nil
}

func NewSQLiteRepositories(path string, logger internal.Logger) (*Repositories, error) {
	s, err := NewSQLiteStorage(path, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Logs: s, Goals: s, close: s.Close}, nil
}

// NewRepositories opens the backend selected by cfg.DBType.
func NewRepositories(cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	switch cfg.DBType {
	case "file":
		return NewFileRepositories(cfg.FileLogs, cfg.FileGoals, logger)
	case "postgres":
		return NewPostgresRepositories(cfg.DBDSN, logger)
	case "sqlite":
		return NewSQLiteRepositories(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
	}
}
