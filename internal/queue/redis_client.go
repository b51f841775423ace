package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// redisClient implements Client using Redis
type redisClient struct {
	client    *redis.Client
	queueName string
	logger    *slog.Logger
}

// Connect opens a Redis connection and checks it answers
func Connect(ctx context.Context, url string, logger *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis", slog.String("addr", opts.Addr))
	return client, nil
}

// NewRedisClient uses the Redis list queueName as the export queue
func NewRedisClient(client *redis.Client, queueName string, logger *slog.Logger) Client {
	return &redisClient{
		client:    client,
		queueName: queueName,
		logger:    logger,
	}
}

// Publish sends an export job to the queue
func (c *redisClient) Publish(ctx context.Context, job *models.ExportJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	// LPUSH + BRPOP gives FIFO order
	if err := c.client.LPush(ctx, c.queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to push job to queue: %w", err)
	}

	c.logger.Debug("export job published",
		slog.String("job_id", job.ID.String()),
		slog.String("format", job.Format),
	)

	return nil
}

// Consume pops export jobs and runs handler on them, at most concurrency at a
// time (max 5). It returns once ctx is done and every running job finished.
func (c *redisClient) Consume(ctx context.Context, handler JobHandler, concurrency int) error {
	concurrency = max(1, min(concurrency, 5))

	c.logger.Info("starting export consumer",
		slog.String("queue", c.queueName),
		slog.Int("concurrency", concurrency),
	)

	slots := make(chan struct{}, concurrency)
	drain := func() {
		for i := 0; i < concurrency; i++ {
			slots <- struct{}{}
		}
		c.logger.Info("export consumer stopped, in-flight jobs completed")
	}

	for {
		if ctx.Err() != nil {
			drain()
			return ctx.Err()
		}

		// BRPOP blocks for up to a second and returns [queueName, value]
		result, err := c.client.BRPop(ctx, time.Second, c.queueName).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			drain()
			return err
		case err != nil:
			c.logger.Error("failed to pop from queue", slog.String("error", err.Error()))
			time.Sleep(time.Second)
			continue
		case len(result) < 2:
			c.logger.Error("unexpected BRPOP result format")
			continue
		}

		job, err := decodeJob(result[1])
		if err != nil {
			c.logger.Error("dropping malformed export job",
				slog.String("error", err.Error()),
				slog.String("data", result[1]),
			)
			continue
		}

		slots <- struct{}{}
		go func() {
			defer func() { <-slots }()

			if err := handler(ctx, job); err != nil {
				c.logger.Error("export job failed",
					slog.String("job_id", job.ID.String()),
					slog.String("error", err.Error()),
				)
			}
		}()
	}
}

func decodeJob(raw string) (*models.ExportJob, error) {
	var job models.ExportJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	if !models.IsValidExportFormat(job.Format) {
		return nil, fmt.Errorf("unsupported export format %q", job.Format)
	}
	return &job, nil
}

// Close closes the Redis connection
func (c *redisClient) Close() error {
	c.logger.Info("closing Redis connection")
	return c.client.Close()
}

// Health checks if Redis is healthy
func (c *redisClient) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis health check failed: %w", err)
	}
	return nil
}

// QueueLength returns the number of exports waiting to run
func (c *redisClient) QueueLength(ctx context.Context) (int64, error) {
	length, err := c.client.LLen(ctx, c.queueName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}
