package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/go-todo/internal/database"
	"github.com/deppfellow/go-todo/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory returns an empty repository. Cleanup is registered on t.
type storeFactory func(t *testing.T) TodoRepository

func TestTodoRepositories(t *testing.T) {
	stores := map[string]storeFactory{
		"memory": func(t *testing.T) TodoRepository {
			return NewMemoryTodoRepository()
		},
		"sqlite": func(t *testing.T) TodoRepository {
			logger := zerolog.Nop()
			db, err := database.OpenSQLite(context.Background(), ":memory:", &logger)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			return NewSQLiteTodoRepository(db.DB)
		},
		"postgres": newPostgresStore,
		"redis":    newRedisStore,
	}

	for name, factory := range stores {
		t.Run(name, func(t *testing.T) {
			runContract(t, factory)
		})
	}
}

func newPostgresStore(t *testing.T) TodoRepository {
	dsn := os.Getenv("TODO_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TODO_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	logger := zerolog.Nop()
	require.NoError(t, database.MigrateDSN(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE todos RESTART IDENTITY")
	require.NoError(t, err)

	return NewPostgresTodoRepository(pool)
}

func newRedisStore(t *testing.T) TodoRepository {
	addr := os.Getenv("TODO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TODO_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(ctx).Err())

	prefix := "todo-test-" + uuid.NewString()
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return NewRedisTodoRepository(client, prefix)
}

func runContract(t *testing.T, factory storeFactory) {
	ctx := context.Background()
	createdOn := time.Date(2024, 3, 1, 10, 30, 0, 123456000, time.UTC)

	t.Run("empty store lists nothing", func(t *testing.T) {
		repo := factory(t)

		todos, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	t.Run("create assigns ids and keeps fields", func(t *testing.T) {
		repo := factory(t)

		first, err := repo.Create(ctx, model.NewTodo("Buy milk", false, createdOn))
		require.NoError(t, err)
		second, err := repo.Create(ctx, model.NewTodo("Walk dog", true, createdOn))
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, "Buy milk", first.Title)
		assert.False(t, first.Completed)
		assert.True(t, second.Completed)
		assert.True(t, createdOn.Equal(first.CreatedOn), "createdOn %s", first.CreatedOn)

		got, err := repo.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, first.Title, got.Title)
		assert.True(t, first.CreatedOn.Equal(got.CreatedOn))
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		repo := factory(t)

		var ids []int64
		for _, title := range []string{"a", "b", "c"} {
			created, err := repo.Create(ctx, model.NewTodo(title, false, createdOn))
			require.NoError(t, err)
			ids = append(ids, created.ID)
		}

		todos, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, todos, 3)
		for i, todo := range todos {
			assert.Equal(t, ids[i], todo.ID)
		}
	})

	t.Run("get missing id", func(t *testing.T) {
		repo := factory(t)

		_, err := repo.Get(ctx, 9999)
		assert.ErrorIs(t, err, model.ErrTodoNotFound)
	})

	t.Run("update overwrites title and completed only", func(t *testing.T) {
		repo := factory(t)

		created, err := repo.Create(ctx, model.NewTodo("Buy milk", false, createdOn))
		require.NoError(t, err)

		updated, err := repo.Update(ctx, model.Todo{
			ID:        created.ID,
			Title:     "Buy oat milk",
			Completed: true,
			CreatedOn: createdOn.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Buy oat milk", updated.Title)
		assert.True(t, updated.Completed)
		assert.True(t, created.CreatedOn.Equal(updated.CreatedOn))

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", got.Title)
		assert.True(t, got.Completed)
	})

	t.Run("update missing id", func(t *testing.T) {
		repo := factory(t)

		_, err := repo.Update(ctx, model.Todo{ID: 9999, Title: "nothing"})
		assert.ErrorIs(t, err, model.ErrTodoNotFound)

		todos, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, todos)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := factory(t)

		created, err := repo.Create(ctx, model.NewTodo("Buy milk", false, createdOn))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))
		require.NoError(t, repo.Delete(ctx, created.ID))
		require.NoError(t, repo.Delete(ctx, 9999))

		_, err = repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, model.ErrTodoNotFound)

		todos, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, todos)
	})

	t.Run("ids are not reused after delete", func(t *testing.T) {
		repo := factory(t)

		first, err := repo.Create(ctx, model.NewTodo("a", false, createdOn))
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, first.ID))

		second, err := repo.Create(ctx, model.NewTodo("b", false, createdOn))
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})
}
