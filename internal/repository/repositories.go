package repository

import (
	"fmt"

	"github.com/deppfellow/go-todo/internal/config"
	"github.com/deppfellow/go-todo/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Todos TodoRepository
}

// NewRepositories builds the repositories on top of the backing store the
// server opened for the configured driver.
func NewRepositories(s *server.Server) (*Repositories, error) {
	var todos TodoRepository

	switch s.Config.Store.Driver {
	case config.DriverPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("postgres store selected but no database pool is open")
		}
		todos = NewPostgresTodoRepository(s.DB.Pool)
	case config.DriverSQLite:
		if s.SQLite == nil {
			return nil, fmt.Errorf("sqlite store selected but no sqlite database is open")
		}
		todos = NewSQLiteTodoRepository(s.SQLite.DB)
	case config.DriverRedis:
		if s.Redis == nil {
			return nil, fmt.Errorf("redis store selected but no redis client is configured")
		}
		todos = NewRedisTodoRepository(s.Redis, s.Config.Redis.KeyPrefix)
	case config.DriverMemory:
		todos = NewMemoryTodoRepository()
	default:
		return nil, fmt.Errorf("unknown store driver %q", s.Config.Store.Driver)
	}

	s.Logger.Info().Str("driver", s.Config.Store.Driver).Msg("todo repository ready")

	return &Repositories{Todos: todos}, nil
}
