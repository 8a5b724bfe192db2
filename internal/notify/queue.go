package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const delayedKey = "casita:notify:delayed"

// Queue is a redis-backed delayed task queue. Tasks are members of a
// sorted set scored by their execution time, so popping due work is a
// range read over the score.
type Queue struct {
	client *redis.Client
}

func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client}
}

func NewClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return client, nil
}

func (q *Queue) Enqueue(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshalling task: %w", err)
	}

	err = q.client.ZAdd(ctx, delayedKey, redis.Z{
		Score:  float64(task.ExecuteAt.Unix()),
		Member: data,
	}).Err()
	if err != nil {
		return fmt.Errorf("enqueueing task: %w", err)
	}

	return nil
}

// PopDue removes and returns every task due at or before now. Members
// that fail to decode are dropped; they would otherwise wedge the queue.
func (q *Queue) PopDue(ctx context.Context, now time.Time) ([]Task, error) {
	max := strconv.FormatInt(now.Unix(), 10)

	members, err := q.client.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("reading due tasks: %w", err)
	}

	if len(members) == 0 {
		return nil, nil
	}

	removals := make([]any, len(members))
	for i, m := range members {
		removals[i] = m
	}

	if err := q.client.ZRem(ctx, delayedKey, removals...).Err(); err != nil {
		return nil, fmt.Errorf("removing due tasks: %w", err)
	}

	tasks := make([]Task, 0, len(members))

	for _, m := range members {
		var task Task
		if err := json.Unmarshal([]byte(m), &task); err != nil {
			continue
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}
