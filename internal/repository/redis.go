package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/deppfellow/go-todo/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisTodoRepository stores todos in Redis.
//
// Layout, for prefix "todos":
//
//	todos:seq        INCR counter handing out ids
//	todos:todo:<id>  JSON encoded record
//	todos:ids        sorted set of ids, score = id
type RedisTodoRepository struct {
	client redis.Cmdable
	prefix string
}

func NewRedisTodoRepository(client redis.Cmdable, prefix string) *RedisTodoRepository {
	return &RedisTodoRepository{client: client, prefix: prefix}
}

func (r *RedisTodoRepository) seqKey() string { return r.prefix + ":seq" }
func (r *RedisTodoRepository) idsKey() string { return r.prefix + ":ids" }

func (r *RedisTodoRepository) todoKey(id int64) string {
	return r.prefix + ":todo:" + strconv.FormatInt(id, 10)
}

func (r *RedisTodoRepository) ListAll(ctx context.Context) ([]model.Todo, error) {
	ids, err := r.client.ZRange(ctx, r.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing todo ids: %w", err)
	}

	todos := make([]model.Todo, 0, len(ids))
	if len(ids) == 0 {
		return todos, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + ":todo:" + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading todos: %w", err)
	}

	for i, value := range values {
		// Deleted between ZRANGE and MGET.
		if value == nil {
			continue
		}
		raw, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("loading todo %s: unexpected value type %T", ids[i], value)
		}
		todo, err := decodeTodo(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding todo %s: %w", ids[i], err)
		}
		todos = append(todos, todo)
	}
	return todos, nil
}

func (r *RedisTodoRepository) Get(ctx context.Context, id int64) (model.Todo, error) {
	raw, err := r.client.Get(ctx, r.todoKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Todo{}, model.ErrTodoNotFound
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("getting todo %d: %w", id, err)
	}

	todo, err := decodeTodo(raw)
	if err != nil {
		return model.Todo{}, fmt.Errorf("decoding todo %d: %w", id, err)
	}
	return todo, nil
}

func (r *RedisTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	id, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return model.Todo{}, fmt.Errorf("allocating todo id: %w", err)
	}
	todo.ID = id

	payload, err := json.Marshal(todo)
	if err != nil {
		return model.Todo{}, fmt.Errorf("encoding todo: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.todoKey(id), payload, 0)
		pipe.ZAdd(ctx, r.idsKey(), redis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	return todo, nil
}

// Update reads the stored record to keep its CreatedOn, then writes with
// SET XX so a record deleted in between is reported as not found instead of
// being recreated.
func (r *RedisTodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	stored, err := r.Get(ctx, todo.ID)
	if err != nil {
		return model.Todo{}, err
	}
	stored.Title = todo.Title
	stored.Completed = todo.Completed

	payload, err := json.Marshal(stored)
	if err != nil {
		return model.Todo{}, fmt.Errorf("encoding todo: %w", err)
	}

	ok, err := r.client.SetXX(ctx, r.todoKey(stored.ID), payload, redis.KeepTTL).Result()
	if err != nil {
		return model.Todo{}, fmt.Errorf("updating todo %d: %w", stored.ID, err)
	}
	if !ok {
		return model.Todo{}, model.ErrTodoNotFound
	}
	return stored, nil
}

func (r *RedisTodoRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.todoKey(id))
		pipe.ZRem(ctx, r.idsKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return nil
}

func decodeTodo(raw string) (model.Todo, error) {
	var todo model.Todo
	if err := json.Unmarshal([]byte(raw), &todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}
