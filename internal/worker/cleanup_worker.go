package worker

import (
	"DocVault/config"
	"DocVault/internal/mq"
	"DocVault/internal/storage"
	"DocVault/internal/task"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

// RunCleanupWorker consumes orphan-blob cleanup tasks from RabbitMQ and
// removes the named blobs, paced by a rate limiter so a large backlog does
// not hammer the storage backend.
func RunCleanupWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	concurrency := config.AppConfig.CleanupConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	if err := client.Channel.Qos(concurrency, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueTasks,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	sem := make(chan struct{}, concurrency)

	burst := config.AppConfig.CleanupBurst
	if burst <= 0 {
		burst = 1
	}
	var limiter *rate.Limiter
	if config.AppConfig.CleanupRate <= 0 {
		limiter = rate.NewLimiter(rate.Inf, burst)
	} else {
		limiter = rate.NewLimiter(rate.Limit(config.AppConfig.CleanupRate), burst)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("cleanup worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleCleanupMessage(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func handleCleanupMessage(ctx context.Context, client *mq.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg task.CleanupMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("cleanup worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if err := limiter.Wait(ctx); err != nil {
		_ = delivery.Nack(false, true)
		return
	}

	err := storage.Default.Remove(ctx, msg.StoragePath)
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		// Already gone counts as cleaned.
		_ = delivery.Ack(false)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		_ = delivery.Nack(false, true)
		return
	}

	log.Printf("cleanup worker: remove %s failed (attempt %d): %v", msg.StoragePath, msg.Attempt, err)
	if err := scheduleRetry(ctx, client, msg, err); err != nil {
		log.Printf("cleanup worker: retry schedule failed: %v", err)
		_ = delivery.Nack(false, true)
		return
	}
	_ = delivery.Ack(false)
}

func scheduleRetry(ctx context.Context, client *mq.Client, msg task.CleanupMessage, cause error) error {
	if msg.Attempt+1 >= config.AppConfig.CleanupRetryMax {
		dlq := struct {
			task.CleanupMessage
			Error string `json:"error"`
		}{CleanupMessage: msg, Error: cause.Error()}
		body, err := json.Marshal(dlq)
		if err != nil {
			return err
		}
		return client.PublishDLQ(ctx, body)
	}

	msg.Attempt++
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	delays := config.AppConfig.CleanupRetryDelays
	delay := 10 * time.Second
	if len(delays) > 0 {
		delay = delays[len(delays)-1]
		if msg.Attempt-1 < len(delays) {
			delay = delays[msg.Attempt-1]
		}
	}
	return client.PublishRetry(ctx, body, delay)
}
