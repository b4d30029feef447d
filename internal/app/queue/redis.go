package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	pollTimeout = 5 * time.Second
	dlqSuffix   = ":dlq"
)

// RedisOptions configures the redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisQueue is a list based queue: LPUSH to enqueue, BRPOP to consume.
// Messages whose handler fails are pushed to <name>:dlq.
type RedisQueue struct {
	client *redis.Client
	name   string
	logger *zap.Logger
}

// NewRedisClient connects and pings redis.
func NewRedisClient(opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return rdb, nil
}

// NewRedisQueue wraps client as the queue called name.
func NewRedisQueue(client *redis.Client, name string, logger *zap.Logger) *RedisQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisQueue{client: client, name: name, logger: logger.With(zap.String("queue", name))}
}

// Name returns the redis key of the queue.
func (q *RedisQueue) Name() string {
	return q.name
}

// DLQName returns the redis key of the dead letter list.
func (q *RedisQueue) DLQName() string {
	return q.name + dlqSuffix
}

// Enqueue pushes msg onto the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, msg Message) error {
	data, err := encode(msg)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("enqueue job video %d: %w", msg.JobVideoID, err)
	}
	return nil
}

// Consume polls the queue until ctx is cancelled.
func (q *RedisQueue) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := q.client.BRPop(ctx, pollTimeout, q.name).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.logger.Error("Failed to consume message", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		raw := result[1]
		msg, err := decode([]byte(raw))
		if err == nil {
			err = handler(ctx, msg)
		}
		if err != nil {
			q.logger.Error("Failed to process message", zap.Error(err), zap.String("message", raw))
			q.deadLetter(ctx, raw)
		}
	}
}

func (q *RedisQueue) deadLetter(ctx context.Context, raw string) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := q.client.LPush(ctx, q.DLQName(), raw).Err(); err != nil {
		q.logger.Error("Failed to move message to DLQ", zap.Error(err), zap.String("dlq", q.DLQName()))
	}
}

// Depth returns the queue length.
func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.name).Result()
}

// DeadLetters returns up to limit dead-lettered messages, oldest first.
func (q *RedisQueue) DeadLetters(ctx context.Context, limit int64) ([]Message, error) {
	raw, err := q.client.LRange(ctx, q.DLQName(), -limit, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		if msg, err := decode([]byte(raw[i])); err == nil {
			out = append(out, msg)
		}
	}
	return out, nil
}

// Close closes the redis client.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
